package edstan

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadStanCSV parses one chain of CmdStan sample output. Comment lines
// ('#' prefixed) are skipped, diagnostic columns (names ending in "__")
// are dropped and dotted array names are rewritten to bracket form, so
// "theta.3" comes back as "theta[3]" and "W.1.2" as "W[1,2]".
func ReadStanCSV(r io.Reader) (names []string, cols [][]float64, err error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("edstan: stan csv header: %w", err)
	}
	keep := make([]int, 0, len(header))
	for i, col := range header {
		if strings.HasSuffix(col, "__") {
			continue
		}
		keep = append(keep, i)
		names = append(names, stanName(col))
	}
	if len(keep) == 0 {
		return nil, nil, fmt.Errorf("edstan: stan csv has no parameter columns")
	}

	cols = make([][]float64, len(keep))
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("edstan: stan csv row %d: %w", row+1, err)
		}
		row++
		for k, i := range keep {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("edstan: stan csv row %d, column %s: %w", row, names[k], err)
			}
			cols[k] = append(cols[k], v)
		}
	}
	if row == 0 {
		return nil, nil, fmt.Errorf("edstan: stan csv contains no draws")
	}
	return names, cols, nil
}

// stanName rewrites CmdStan's dotted array columns to bracket notation.
func stanName(col string) string {
	parts := strings.Split(col, ".")
	if len(parts) == 1 {
		return col
	}
	for _, p := range parts[1:] {
		if !allDigits(p) {
			return col
		}
	}
	return parts[0] + "[" + strings.Join(parts[1:], ",") + "]"
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
