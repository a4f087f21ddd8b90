package edstan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCronbachAlpha(t *testing.T) {
	rm := NewResponseMatrix([][]int{
		{1, 1, 1},
		{1, 0, 1},
		{0, 1, 0},
		{0, 0, 0},
	})
	// Item variances 1/3 each, total-score variance 5/3:
	// alpha = 3/2 * (1 - 1/(5/3)) = 0.6.
	alpha, err := CronbachAlpha(rm)
	require.NoError(t, err)
	require.InDelta(t, 0.6, alpha, 1e-9)
}

func TestCronbachAlphaDropsIncompletePersons(t *testing.T) {
	rm := NewResponseMatrix([][]int{
		{1, 1, 1},
		{1, 0, 1},
		{0, 1, 0},
		{0, 0, 0},
		{1, Missing, 1},
	})
	alpha, err := CronbachAlpha(rm)
	require.NoError(t, err)
	require.InDelta(t, 0.6, alpha, 1e-9)
}

func TestCronbachAlphaErrors(t *testing.T) {
	_, err := CronbachAlpha(NewResponseMatrix([][]int{{1}, {0}}))
	require.ErrorIs(t, err, ErrShape)

	_, err = CronbachAlpha(NewResponseMatrix([][]int{{1, 0}}))
	require.ErrorIs(t, err, ErrShape)

	_, err = CronbachAlpha(NewResponseMatrix([][]int{{1, 0}, {1, 0}}))
	require.ErrorIs(t, err, ErrShape)
}
