package edstan

import "fmt"

// CronbachAlpha estimates the internal consistency of a wide response
// matrix. Persons with any missing response are dropped first; the estimate
// needs at least two items and two complete persons, and some variance in
// the total scores.
func CronbachAlpha(rm *ResponseMatrix) (float64, error) {
	if err := rm.check(); err != nil {
		return 0, err
	}
	items := len(rm.ItemLabels)
	if items < 2 {
		return 0, fmt.Errorf("%w: cronbach alpha needs at least 2 items, got %d", ErrShape, items)
	}

	var complete [][]int
	for _, row := range rm.Cells {
		ok := true
		for _, y := range row {
			if IsMissing(y) {
				ok = false
				break
			}
		}
		if ok {
			complete = append(complete, row)
		}
	}
	if len(complete) < 2 {
		return 0, fmt.Errorf("%w: cronbach alpha needs at least 2 complete persons, got %d", ErrShape, len(complete))
	}

	itemVarSum := 0.0
	for i := 0; i < items; i++ {
		col := make([]float64, len(complete))
		for j, row := range complete {
			col[j] = float64(row[i])
		}
		_, sd := meanSD(col)
		itemVarSum += sd * sd
	}

	totals := make([]float64, len(complete))
	for j, row := range complete {
		sum := 0
		for _, y := range row {
			sum += y
		}
		totals[j] = float64(sum)
	}
	_, totalSD := meanSD(totals)
	totalVar := totalSD * totalSD
	if totalVar == 0 {
		return 0, fmt.Errorf("%w: total scores have no variance", ErrShape)
	}

	k := float64(items)
	return k / (k - 1) * (1 - itemVarSum/totalVar), nil
}
