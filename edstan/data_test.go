package edstan

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataFromLong(t *testing.T) {
	items := []string{"q1", "q2", "q1", "q2", "q1", "q2"}
	persons := []string{"ann", "ann", "bob", "bob", "cyd", "cyd"}
	y := []int{0, 1, 1, Missing, 1, 0}

	ds, err := DataFromLong(items, persons, y)
	require.NoError(t, err)
	require.Equal(t, 2, ds.I)
	require.Equal(t, 3, ds.J)
	require.Equal(t, 5, ds.N)
	require.Equal(t, []int{1, 2, 1, 1, 2}, ds.II)
	require.Equal(t, []int{1, 1, 2, 3, 3}, ds.JJ)
	require.Equal(t, []int{0, 1, 1, 1, 0}, ds.Y)
	require.Equal(t, []string{"q1", "q2"}, ds.ItemLabels)
	require.Equal(t, []string{"ann", "bob", "cyd"}, ds.PersonLabels)
	require.Equal(t, []int{1, 1}, ds.MaxScores)
	require.Equal(t, 1, ds.K)
	require.True(t, ds.W.interceptOK())
	require.Equal(t, []int{1, 1, 1}, ds.RawScores())
}

func TestDataFromLongIntLabels(t *testing.T) {
	items := []int{12, 40, 12}
	persons := []int{7, 7, 9}
	y := []int{1, 0, 1}

	ds, err := DataFromLong(items, persons, y)
	require.NoError(t, err)
	require.Equal(t, []string{"12", "40"}, ds.ItemLabels)
	require.Equal(t, []string{"7", "9"}, ds.PersonLabels)
	require.Equal(t, []int{1, 2, 1}, ds.II)
	require.Equal(t, []int{1, 1, 2}, ds.JJ)
}

func TestDataFromLongShapeMismatch(t *testing.T) {
	_, err := DataFromLong([]string{"a"}, []string{"p", "q"}, []int{0, 1})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDataFromLongLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ds, err := DataFromLong([]string{"q1", "q1"}, []string{"a", "b"}, []int{1, 2}, WithLogger(log))
	require.NoError(t, err)
	require.NotEmpty(t, ds.Warnings)
	require.Contains(t, buf.String(), "q1")
	require.Contains(t, buf.String(), string(WarnMinNotZero))
}

func TestDataFromLongIndexedKeepsGaps(t *testing.T) {
	// Item 2 never appears; the index space must not collapse around it.
	ii := []int{1, 3, 1, 3}
	jj := []int{1, 1, 2, 2}
	y := []int{0, 1, 1, 0}

	ds, err := DataFromLongIndexed(ii, jj, y)
	require.NoError(t, err)
	require.Equal(t, 3, ds.I)
	require.Equal(t, 2, ds.J)
	require.Equal(t, []int{1, 0, 1}, ds.MaxScores)

	var codes []WarningCode
	for _, w := range ds.Warnings {
		codes = append(codes, w.Code)
	}
	require.Contains(t, codes, WarnNoObservations)
}

func TestDataFromWide(t *testing.T) {
	rm := &ResponseMatrix{
		PersonLabels: []string{"p1", "p2"},
		ItemLabels:   []string{"a", "b"},
		Cells:        [][]int{{0, 1}, {1, Missing}},
	}
	ds, err := DataFromWide(rm)
	require.NoError(t, err)
	require.Equal(t, 2, ds.I)
	require.Equal(t, 2, ds.J)
	require.Equal(t, 3, ds.N)
	require.Equal(t, []string{"a", "b"}, ds.ItemLabels)
	require.Equal(t, []string{"p1", "p2"}, ds.PersonLabels)
}

func TestAssembleShapeErrors(t *testing.T) {
	_, err := Assemble([]int{1}, []int{1, 1}, []int{0, 1}, 1, 2, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Assemble([]int{2}, []int{1}, []int{0}, 1, 1, nil)
	require.ErrorIs(t, err, ErrShape)

	_, err = Assemble([]int{1}, []int{0}, []int{0}, 1, 1, nil)
	require.ErrorIs(t, err, ErrShape)
}

func TestAssembleRejectsBadIntercept(t *testing.T) {
	d := NewDesign(2, []string{"Intercept"})
	d.Set(0, 0, 1)
	d.Set(1, 0, 0)
	_, err := Assemble([]int{1, 1}, []int{1, 2}, []int{0, 1}, 1, 2, d)
	require.ErrorIs(t, err, ErrDesign)
}

func TestAssembleShortDesignData(t *testing.T) {
	// A design whose backing slice is shorter than Rows*Cols must fail,
	// not index past the end.
	d := &Design{ColNames: []string{"Intercept"}, Rows: 2, Cols: 1, Data: []float64{1}}
	_, err := Assemble([]int{1, 1}, []int{1, 2}, []int{0, 1}, 1, 2, d)
	require.ErrorIs(t, err, ErrShape)
	require.Contains(t, err.Error(), "2 rows")
}

func TestAssembleReducesPerObservationDesign(t *testing.T) {
	ii := []int{1, 2, 1, 2}
	jj := []int{1, 1, 2, 2}
	y := []int{0, 1, Missing, 1}
	d := NewDesign(4, []string{"Intercept", "age"})
	ages := []float64{30, 30, 41, 41}
	for r := 0; r < 4; r++ {
		d.Set(r, 0, 1)
		d.Set(r, 1, ages[r])
	}

	ds, err := Assemble(ii, jj, y, 2, 2, d)
	require.NoError(t, err)
	require.Equal(t, 2, ds.W.Rows)
	require.Equal(t, []float64{1, 30}, ds.W.Row(0))
	require.Equal(t, []float64{1, 41}, ds.W.Row(1))
	require.Equal(t, 2, ds.K)
}

func TestAssembleDesignRowMismatch(t *testing.T) {
	d := InterceptDesign(3)
	_, err := Assemble([]int{1, 2, 1, 2}, []int{1, 1, 2, 2}, []int{0, 1, 0, 1}, 2, 2, d)
	require.ErrorIs(t, err, ErrDesignMismatch)
}

func TestAssembleDesignAllMissingPerson(t *testing.T) {
	ii := []int{1, 2, 1, 2}
	jj := []int{1, 1, 2, 2}
	y := []int{0, 1, Missing, Missing}
	_, err := Assemble(ii, jj, y, 2, 2, InterceptDesign(4))
	require.ErrorIs(t, err, ErrDesignMismatch)
}

func TestDataOptionsConflict(t *testing.T) {
	table := &CovariateTable{Names: []string{"x"}, Columns: [][]float64{{1, 2}}}
	_, err := DataFromLong(
		[]string{"a", "a"}, []string{"p", "q"}, []int{0, 1},
		WithDesign(InterceptDesign(2)), WithFormula(table, "~ x"),
	)
	require.ErrorIs(t, err, ErrConfig)
}

func TestStanData(t *testing.T) {
	ds, err := DataFromLong(
		[]string{"q1", "q2", "q1", "q2"},
		[]string{"a", "a", "b", "b"},
		[]int{0, 1, 1, 0},
	)
	require.NoError(t, err)

	sd := ds.StanData()
	require.Equal(t, 2, sd["I"])
	require.Equal(t, 2, sd["J"])
	require.Equal(t, 4, sd["N"])
	require.Equal(t, ds.II, sd["ii"])
	require.Equal(t, ds.JJ, sd["jj"])
	require.Equal(t, ds.Y, sd["y"])
	require.Equal(t, 1, sd["K"])
	w, ok := sd["W"].([][]float64)
	require.True(t, ok)
	require.Equal(t, [][]float64{{1}, {1}}, w)
}
