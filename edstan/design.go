package edstan

import (
	"fmt"
	"strings"
)

// Design is a latent-regression design matrix: one row per person (or per
// raw observation before reduction), one column per regression term. Data is
// stored row-major. Column 0 must be the model intercept, all ones; Assemble
// enforces that contract rather than inferring it.
type Design struct {
	ColNames []string
	Rows     int
	Cols     int
	Data     []float64
}

// NewDesign allocates a zeroed rows×cols design with the given column names.
func NewDesign(rows int, colNames []string) *Design {
	return &Design{
		ColNames: colNames,
		Rows:     rows,
		Cols:     len(colNames),
		Data:     make([]float64, rows*len(colNames)),
	}
}

// InterceptDesign returns the default rows×1 all-ones design used when no
// covariates are supplied.
func InterceptDesign(rows int) *Design {
	d := NewDesign(rows, []string{"Intercept"})
	for r := 0; r < rows; r++ {
		d.Data[r] = 1
	}
	return d
}

// At returns the value at row r, column c.
func (d *Design) At(r, c int) float64 { return d.Data[r*d.Cols+c] }

// Set stores v at row r, column c.
func (d *Design) Set(r, c int, v float64) { d.Data[r*d.Cols+c] = v }

// Row returns the r-th row as a fresh slice.
func (d *Design) Row(r int) []float64 {
	out := make([]float64, d.Cols)
	copy(out, d.Data[r*d.Cols:(r+1)*d.Cols])
	return out
}

// interceptOK reports whether column 0 is all ones.
func (d *Design) interceptOK() bool {
	for r := 0; r < d.Rows; r++ {
		if d.At(r, 0) != 1 {
			return false
		}
	}
	return true
}

// CovariateTable holds named person covariates, one column per covariate.
// All columns share one length.
type CovariateTable struct {
	Names   []string
	Columns [][]float64
}

// Rows returns the shared column length.
func (t *CovariateTable) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

func (t *CovariateTable) column(name string) ([]float64, bool) {
	for i, n := range t.Names {
		if n == name {
			return t.Columns[i], true
		}
	}
	return nil, false
}

// DesignFromTable builds a design matrix from a covariate table and a
// formula. The formula lists terms joined by "+"; each term is either a
// column name or a ":"-joined interaction whose column is the elementwise
// product. A leading "~" is accepted and ignored, and the intercept is
// always prepended, never written in the formula:
//
//	"~ ses + motivation + ses:motivation"
//
// Unknown column names fail with ErrConfig. An empty formula yields the
// intercept-only design.
func DesignFromTable(t *CovariateTable, formula string) (*Design, error) {
	if len(t.Names) != len(t.Columns) {
		return nil, fmt.Errorf("%w: %d covariate names for %d columns", ErrShape, len(t.Names), len(t.Columns))
	}
	rows := t.Rows()
	for i, col := range t.Columns {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: covariate %q has %d rows, want %d", ErrShape, t.Names[i], len(col), rows)
		}
	}

	terms, err := parseFormula(formula)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, 1+len(terms))
	names = append(names, "Intercept")
	for _, term := range terms {
		names = append(names, strings.Join(term, ":"))
	}
	d := NewDesign(rows, names)
	for r := 0; r < rows; r++ {
		d.Set(r, 0, 1)
	}
	prod := make([]float64, rows)
	for c, term := range terms {
		for r := range prod {
			prod[r] = 1
		}
		for _, factor := range term {
			col, ok := t.column(factor)
			if !ok {
				return nil, fmt.Errorf("%w: formula references unknown covariate %q", ErrConfig, factor)
			}
			for r := range prod {
				prod[r] *= col[r]
			}
		}
		for r := 0; r < rows; r++ {
			d.Set(r, c+1, prod[r])
		}
	}
	return d, nil
}

// parseFormula splits "~ a + b + a:b" into its terms; each term is the list
// of factor names to multiply.
func parseFormula(formula string) ([][]string, error) {
	s := strings.TrimSpace(formula)
	s = strings.TrimPrefix(s, "~")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var terms [][]string
	for _, raw := range strings.Split(s, "+") {
		term := strings.TrimSpace(raw)
		if term == "" {
			return nil, fmt.Errorf("%w: empty term in formula %q", ErrConfig, formula)
		}
		var factors []string
		for _, f := range strings.Split(term, ":") {
			f = strings.TrimSpace(f)
			if f == "" {
				return nil, fmt.Errorf("%w: empty interaction factor in term %q", ErrConfig, term)
			}
			factors = append(factors, f)
		}
		terms = append(terms, factors)
	}
	return terms, nil
}
