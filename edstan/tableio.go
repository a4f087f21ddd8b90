package edstan

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ReadResponseCSV reads a wide response table. With header the first row
// names the items; with personIDs the first column labels the persons.
// Empty cells and the tokens NA, na and "." are treated as missing.
func ReadResponseCSV(r io.Reader, header, personIDs bool) (*ResponseMatrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if len(records) == 0 || (header && len(records) == 1) {
		return nil, fmt.Errorf("%w: response table has no data rows", ErrShape)
	}

	var itemLabels []string
	rows := records
	if header {
		itemLabels = records[0]
		if personIDs {
			itemLabels = itemLabels[1:]
		}
		rows = records[1:]
	}

	rm := &ResponseMatrix{
		ItemLabels: itemLabels,
		Cells:      make([][]int, 0, len(rows)),
	}
	for rix, rec := range rows {
		line := rix + 1
		if header {
			line++
		}
		if personIDs {
			if len(rec) < 2 {
				return nil, fmt.Errorf("%w: line %d has no response cells", ErrShape, line)
			}
			rm.PersonLabels = append(rm.PersonLabels, rec[0])
			rec = rec[1:]
		}
		row := make([]int, len(rec))
		for cix, cell := range rec {
			v, err := parseResponseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %d: %v", ErrShape, line, cix+1, err)
			}
			row[cix] = v
		}
		rm.Cells = append(rm.Cells, row)
	}

	if rm.ItemLabels == nil {
		rm.ItemLabels = positionLabels(len(rm.Cells[0]))
	}
	if rm.PersonLabels == nil {
		rm.PersonLabels = positionLabels(len(rm.Cells))
	}
	if err := rm.check(); err != nil {
		return nil, err
	}
	return rm, nil
}

func parseResponseCell(cell string) (int, error) {
	switch cell {
	case "", "NA", "na", ".":
		return Missing, nil
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("cannot read %q as a response", cell)
	}
	return v, nil
}

// ReadCovariateCSV reads a person covariate table for latent regression.
// With header the first row names the columns; otherwise they are numbered.
func ReadCovariateCSV(r io.Reader, header bool) (*CovariateTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if len(records) == 0 || (header && len(records) == 1) {
		return nil, fmt.Errorf("%w: covariate table has no data rows", ErrShape)
	}

	var names []string
	rows := records
	if header {
		names = records[0]
		rows = records[1:]
	} else {
		names = positionLabels(len(records[0]))
	}

	cols := make([][]float64, len(names))
	for rix, rec := range rows {
		line := rix + 1
		if header {
			line++
		}
		for cix, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %d: cannot read %q as a covariate", ErrShape, line, cix+1, cell)
			}
			cols[cix] = append(cols[cix], v)
		}
	}
	return &CovariateTable{Names: names, Columns: cols}, nil
}

// WriteStanJSON writes a data block in the JSON layout CmdStan reads.
func WriteStanJSON(w io.Writer, data map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
