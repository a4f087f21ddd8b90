package edstan

import "fmt"

// Missing marks an absent response. Responses are non-negative integers;
// any negative cell is treated as missing and filtered out before the data
// block is handed to the sampler.
const Missing = -1

// IsMissing reports whether a response value is the missing marker.
func IsMissing(y int) bool { return y < 0 }

// ResponseMatrix is a wide-format response table: one row per person, one
// column per item. Cells hold non-negative scores or Missing.
type ResponseMatrix struct {
	PersonLabels []string
	ItemLabels   []string
	Cells        [][]int
}

// NewResponseMatrix wraps a plain 2-D score array, labeling rows and columns
// by their 1-based positions.
func NewResponseMatrix(cells [][]int) *ResponseMatrix {
	rows := len(cells)
	cols := 0
	if rows > 0 {
		cols = len(cells[0])
	}
	return &ResponseMatrix{
		PersonLabels: positionLabels(rows),
		ItemLabels:   positionLabels(cols),
		Cells:        cells,
	}
}

// Rows returns the number of persons.
func (rm *ResponseMatrix) Rows() int { return len(rm.Cells) }

// Cols returns the number of items.
func (rm *ResponseMatrix) Cols() int {
	if len(rm.Cells) == 0 {
		return 0
	}
	return len(rm.Cells[0])
}

// check validates the table structure: rectangular cells, label counts
// matching the axes, and no duplicate labels on either axis.
func (rm *ResponseMatrix) check() error {
	cols := rm.Cols()
	for j, row := range rm.Cells {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, j+1, len(row), cols)
		}
	}
	if len(rm.PersonLabels) != rm.Rows() {
		return fmt.Errorf("%w: %d person labels for %d rows", ErrShape, len(rm.PersonLabels), rm.Rows())
	}
	if len(rm.ItemLabels) != cols {
		return fmt.Errorf("%w: %d item labels for %d columns", ErrShape, len(rm.ItemLabels), cols)
	}
	if dup, ok := firstDuplicate(rm.PersonLabels); ok {
		return fmt.Errorf("%w: duplicate person label %q", ErrShape, dup)
	}
	if dup, ok := firstDuplicate(rm.ItemLabels); ok {
		return fmt.Errorf("%w: duplicate item label %q", ErrShape, dup)
	}
	return nil
}

// WideToLong flattens a wide table into parallel (item, person, response)
// triples of length rows × columns. Rows are emitted in person order; within
// a row the item varies fastest, so one person's responses stay contiguous.
// Response values are passed through untouched; integrity checking belongs
// to ValidateResponses.
func WideToLong(rm *ResponseMatrix) (items, persons []string, y []int, err error) {
	if rm == nil {
		return nil, nil, nil, fmt.Errorf("%w: nil response matrix", ErrShape)
	}
	if err := rm.check(); err != nil {
		return nil, nil, nil, err
	}
	n := rm.Rows() * rm.Cols()
	items = make([]string, 0, n)
	persons = make([]string, 0, n)
	y = make([]int, 0, n)
	for j, row := range rm.Cells {
		for i, v := range row {
			items = append(items, rm.ItemLabels[i])
			persons = append(persons, rm.PersonLabels[j])
			y = append(y, v)
		}
	}
	return items, persons, y, nil
}

func firstDuplicate(labels []string) (string, bool) {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return l, true
		}
		seen[l] = struct{}{}
	}
	return "", false
}
