package edstan

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadResponseCSV(t *testing.T) {
	input := "person,q1,q2,q3\nann,0,1,NA\nbob,1,,2\n"
	rm, err := ReadResponseCSV(strings.NewReader(input), true, true)
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "q2", "q3"}, rm.ItemLabels)
	require.Equal(t, []string{"ann", "bob"}, rm.PersonLabels)
	require.Equal(t, [][]int{{0, 1, Missing}, {1, Missing, 2}}, rm.Cells)
}

func TestReadResponseCSVNoHeader(t *testing.T) {
	input := "0,1\n1,0\n"
	rm, err := ReadResponseCSV(strings.NewReader(input), false, false)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, rm.ItemLabels)
	require.Equal(t, []string{"1", "2"}, rm.PersonLabels)
	require.Equal(t, [][]int{{0, 1}, {1, 0}}, rm.Cells)
}

func TestReadResponseCSVMissingTokens(t *testing.T) {
	input := "q1,q2,q3,q4\nNA,na,.,1\n0,1,0,1\n"
	rm, err := ReadResponseCSV(strings.NewReader(input), true, false)
	require.NoError(t, err)
	require.Equal(t, []int{Missing, Missing, Missing, 1}, rm.Cells[0])
}

func TestReadResponseCSVBadCell(t *testing.T) {
	input := "q1,q2\n0,huh\n"
	_, err := ReadResponseCSV(strings.NewReader(input), true, false)
	require.ErrorIs(t, err, ErrShape)
	require.Contains(t, err.Error(), "line 2")
	require.Contains(t, err.Error(), "column 2")
}

func TestReadResponseCSVEmpty(t *testing.T) {
	_, err := ReadResponseCSV(strings.NewReader(""), true, false)
	require.ErrorIs(t, err, ErrShape)

	_, err = ReadResponseCSV(strings.NewReader("q1,q2\n"), true, false)
	require.ErrorIs(t, err, ErrShape)
}

func TestReadResponseCSVRagged(t *testing.T) {
	input := "q1,q2\n0,1\n0\n"
	_, err := ReadResponseCSV(strings.NewReader(input), true, false)
	require.ErrorIs(t, err, ErrShape)
}

func TestReadCovariateCSV(t *testing.T) {
	input := "age,anchor\n30,0\n41,1\n"
	table, err := ReadCovariateCSV(strings.NewReader(input), true)
	require.NoError(t, err)
	require.Equal(t, []string{"age", "anchor"}, table.Names)
	require.Equal(t, [][]float64{{30, 41}, {0, 1}}, table.Columns)
	require.Equal(t, 2, table.Rows())
}

func TestReadCovariateCSVBadCell(t *testing.T) {
	_, err := ReadCovariateCSV(strings.NewReader("age\nthirty\n"), true)
	require.ErrorIs(t, err, ErrShape)
}

func TestWriteStanJSON(t *testing.T) {
	ds, err := DataFromLong([]string{"q1", "q1"}, []string{"a", "b"}, []int{0, 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteStanJSON(&buf, ds.StanData()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, float64(1), decoded["I"])
	require.Equal(t, float64(2), decoded["J"])
	require.Equal(t, float64(2), decoded["N"])
	require.Equal(t, []any{float64(1), float64(1)}, decoded["ii"])
	w, ok := decoded["W"].([]any)
	require.True(t, ok)
	require.Len(t, w, 2)
}
