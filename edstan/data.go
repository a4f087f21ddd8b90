package edstan

import "fmt"

// Dataset is the canonical data block handed to a Stan item-response model:
// dense 1-based index arrays, a response array with no missing values, and
// the latent-regression design matrix. Instances are built once per
// sampling request and never mutated afterward.
type Dataset struct {
	I int // item count
	J int // person count
	N int // observation count after missing filtering

	II []int // item index per observation, 1..I
	JJ []int // person index per observation, 1..J
	Y  []int // response per observation, non-negative

	K int     // regression design columns
	W *Design // J×K design, column 0 all ones

	ItemLabels   []string // display labels, aligned to item index
	PersonLabels []string // display labels, aligned to person index

	MaxScores []int     // maximum observed score per item; 0 when unobserved
	Warnings  []Warning // response-integrity findings, non-fatal
}

// Assemble combines parallel index and response arrays into a Dataset.
// Observations with a missing response are dropped before N is counted.
//
// The design argument may be nil (intercept-only personCount×1 ones), have
// one row per person, or have one row per raw observation; in the last case
// it is reduced to one row per person by selecting the row of each person's
// first non-missing observation in the original order. A person with no
// non-missing observation fails with ErrDesignMismatch, as does any other
// row count. The final design must carry an all-ones first column
// (ErrDesign otherwise).
func Assemble(ii, jj, y []int, itemCount, personCount int, design *Design) (*Dataset, error) {
	if len(ii) != len(jj) || len(jj) != len(y) {
		return nil, fmt.Errorf("%w: ii=%d jj=%d y=%d", ErrShapeMismatch, len(ii), len(jj), len(y))
	}
	if itemCount < 1 || personCount < 1 {
		return nil, fmt.Errorf("%w: item count %d, person count %d", ErrShape, itemCount, personCount)
	}
	for k := range ii {
		if ii[k] < 1 || ii[k] > itemCount {
			return nil, fmt.Errorf("%w: item index %d at observation %d outside 1..%d", ErrShape, ii[k], k, itemCount)
		}
		if jj[k] < 1 || jj[k] > personCount {
			return nil, fmt.Errorf("%w: person index %d at observation %d outside 1..%d", ErrShape, jj[k], k, personCount)
		}
	}

	w, err := resolveDesign(design, jj, y, personCount)
	if err != nil {
		return nil, err
	}
	if !w.interceptOK() {
		return nil, fmt.Errorf("%w: first column must be all ones", ErrDesign)
	}

	n := 0
	for _, v := range y {
		if !IsMissing(v) {
			n++
		}
	}
	ds := &Dataset{
		I:            itemCount,
		J:            personCount,
		N:            n,
		II:           make([]int, 0, n),
		JJ:           make([]int, 0, n),
		Y:            make([]int, 0, n),
		K:            w.Cols,
		W:            w,
		ItemLabels:   positionLabels(itemCount),
		PersonLabels: positionLabels(personCount),
	}
	for k, v := range y {
		if IsMissing(v) {
			continue
		}
		ds.II = append(ds.II, ii[k])
		ds.JJ = append(ds.JJ, jj[k])
		ds.Y = append(ds.Y, v)
	}
	ds.MaxScores = maxScoresByItem(ds.Y, ds.II, itemCount)
	return ds, nil
}

// resolveDesign normalizes the three accepted design shapes to one row per
// person.
func resolveDesign(design *Design, jj, y []int, personCount int) (*Design, error) {
	if design == nil {
		return InterceptDesign(personCount), nil
	}
	if len(design.Data) != design.Rows*design.Cols {
		return nil, fmt.Errorf("%w: design holds %d values for %d rows x %d columns",
			ErrShape, len(design.Data), design.Rows, design.Cols)
	}
	if design.Rows == personCount {
		return design, nil
	}
	if design.Rows != len(y) {
		return nil, fmt.Errorf("%w: %d design rows for %d persons (%d observations)",
			ErrDesignMismatch, design.Rows, personCount, len(y))
	}
	firstRow := make([]int, personCount)
	for j := range firstRow {
		firstRow[j] = -1
	}
	for k := range jj {
		if IsMissing(y[k]) {
			continue
		}
		if j := jj[k] - 1; firstRow[j] < 0 {
			firstRow[j] = k
		}
	}
	reduced := NewDesign(personCount, design.ColNames)
	for j, k := range firstRow {
		if k < 0 {
			return nil, fmt.Errorf("%w: person %d has no non-missing observation to select a design row from",
				ErrDesignMismatch, j+1)
		}
		copy(reduced.Data[j*reduced.Cols:(j+1)*reduced.Cols], design.Data[k*design.Cols:(k+1)*design.Cols])
	}
	return reduced, nil
}

// maxScoresByItem returns the maximum response per item over y, assuming
// missing values are already filtered. Unobserved items stay at 0.
func maxScoresByItem(y, ii []int, itemCount int) []int {
	maxima := make([]int, itemCount)
	for k, v := range y {
		if i := ii[k] - 1; v > maxima[i] {
			maxima[i] = v
		}
	}
	return maxima
}

// RawScores sums each person's observed responses, the classical sum score.
func (d *Dataset) RawScores() []int {
	scores := make([]int, d.J)
	for k, v := range d.Y {
		scores[d.JJ[k]-1] += v
	}
	return scores
}

// StanData renders the dataset as the flat map a Stan sampler consumes:
// keys I, J, N, ii, jj, y, K and W, all numeric, indices 1-based, no
// missing values.
func (d *Dataset) StanData() map[string]any {
	w := make([][]float64, d.J)
	for j := 0; j < d.J; j++ {
		w[j] = d.W.Row(j)
	}
	return map[string]any{
		"I":  d.I,
		"J":  d.J,
		"N":  d.N,
		"ii": d.II,
		"jj": d.JJ,
		"y":  d.Y,
		"K":  d.K,
		"W":  w,
	}
}

type dataOptions struct {
	design     *Design
	covariates *CovariateTable
	formula    string
	logger     *Logger
}

// DataOption adjusts dataset construction.
type DataOption func(*dataOptions)

// WithDesign supplies an explicit latent-regression design matrix, either
// one row per person or one row per raw observation.
func WithDesign(d *Design) DataOption {
	return func(o *dataOptions) { o.design = d }
}

// WithFormula builds the design matrix from a covariate table and a formula
// such as "~ ses + motivation" (see DesignFromTable).
func WithFormula(t *CovariateTable, formula string) DataOption {
	return func(o *dataOptions) {
		o.covariates = t
		o.formula = formula
	}
}

// WithLogger routes response-integrity warnings to a structured logger.
func WithLogger(l *Logger) DataOption {
	return func(o *dataOptions) { o.logger = l }
}

func (o *dataOptions) resolve() (*Design, error) {
	if o.covariates != nil {
		if o.design != nil {
			return nil, fmt.Errorf("%w: both an explicit design and a formula were supplied", ErrConfig)
		}
		return DesignFromTable(o.covariates, o.formula)
	}
	return o.design, nil
}

func applyDataOptions(opts []DataOption) *dataOptions {
	o := &dataOptions{logger: NoopLogger()}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}
	return o
}

// DataFromLong builds a Dataset from long-format triples. Item and person
// labels may be any comparable scalars; they are normalized to dense
// 1-based indices in first-occurrence order and kept for display.
func DataFromLong[I comparable, J comparable](items []I, persons []J, y []int, opts ...DataOption) (*Dataset, error) {
	if len(items) != len(persons) || len(persons) != len(y) {
		return nil, fmt.Errorf("%w: items=%d persons=%d y=%d", ErrShapeMismatch, len(items), len(persons), len(y))
	}
	if len(y) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrShape)
	}
	o := applyDataOptions(opts)

	ii, itemUnique := Normalize(items)
	jj, personUnique := Normalize(persons)
	itemLabels := labelStrings(itemUnique)
	personLabels := labelStrings(personUnique)

	_, warnings := ValidateResponses(y, ii, itemLabels)

	design, err := o.resolve()
	if err != nil {
		return nil, err
	}
	ds, err := Assemble(ii, jj, y, len(itemUnique), len(personUnique), design)
	if err != nil {
		return nil, err
	}
	ds.ItemLabels = itemLabels
	ds.PersonLabels = personLabels
	ds.Warnings = warnings
	o.logger.orNoop().warnAll(warnings)
	return ds, nil
}

// DataFromLongIndexed builds a Dataset from triples whose indices are
// already meaningful 1-based integers (for example consecutive test IDs).
// The numeric mapping is taken as given, not reassigned: item count and
// person count are the maximum indices, and an index inside the range with
// no observations is reported through the zero-observation warning rather
// than collapsed away. Display labels are the indices themselves.
func DataFromLongIndexed(ii, jj, y []int, opts ...DataOption) (*Dataset, error) {
	if len(ii) != len(jj) || len(jj) != len(y) {
		return nil, fmt.Errorf("%w: ii=%d jj=%d y=%d", ErrShapeMismatch, len(ii), len(jj), len(y))
	}
	if len(y) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrShape)
	}
	o := applyDataOptions(opts)

	itemCount, personCount := 0, 0
	for k := range ii {
		if ii[k] < 1 {
			return nil, fmt.Errorf("%w: item index %d at observation %d; indices are 1-based", ErrShape, ii[k], k)
		}
		if jj[k] < 1 {
			return nil, fmt.Errorf("%w: person index %d at observation %d; indices are 1-based", ErrShape, jj[k], k)
		}
		if ii[k] > itemCount {
			itemCount = ii[k]
		}
		if jj[k] > personCount {
			personCount = jj[k]
		}
	}

	itemLabels := positionLabels(itemCount)
	_, warnings := ValidateResponses(y, ii, itemLabels)

	design, err := o.resolve()
	if err != nil {
		return nil, err
	}
	ds, err := Assemble(ii, jj, y, itemCount, personCount, design)
	if err != nil {
		return nil, err
	}
	ds.Warnings = warnings
	o.logger.orNoop().warnAll(warnings)
	return ds, nil
}

// DataFromWide flattens a wide response table and builds the Dataset from
// the resulting long triples, using the table's own axis labels.
func DataFromWide(rm *ResponseMatrix, opts ...DataOption) (*Dataset, error) {
	items, persons, y, err := WideToLong(rm)
	if err != nil {
		return nil, err
	}
	return DataFromLong(items, persons, y, opts...)
}
