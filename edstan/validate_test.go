package edstan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateResponsesCleanItem(t *testing.T) {
	maxima, warnings := ValidateResponses([]int{0, 1, 1, 0}, []int{1, 1, 1, 1}, []string{"verbal"})
	require.Equal(t, []int{1}, maxima)
	require.Empty(t, warnings)
}

func TestValidateResponsesWarnings(t *testing.T) {
	tests := []struct {
		name string
		y    []int
		code WarningCode
		max  int
	}{
		{"min not zero", []int{1, 1, 2, 2}, WarnMinNotZero, 2},
		{"no variation", []int{0, 0, 0, 0}, WarnNoVariation, 0},
		{"missing category", []int{0, 1, 0, 3}, WarnMissingCategory, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ii := make([]int, len(tc.y))
			for k := range ii {
				ii[k] = 1
			}
			maxima, warnings := ValidateResponses(tc.y, ii, []string{"q1"})
			require.Equal(t, tc.max, maxima[0])
			require.Len(t, warnings, 1)
			require.Equal(t, tc.code, warnings[0].Code)
			require.Equal(t, "q1", warnings[0].Item)
		})
	}
}

func TestValidateResponsesFlagsOnlySecondItem(t *testing.T) {
	// Item 1 sees {0,1}; item 2 sees {1,1} and draws the complaints.
	maxima, warnings := ValidateResponses([]int{0, 1, 1, 1}, []int{1, 1, 2, 2}, []string{"q1", "q2"})
	require.Equal(t, []int{1, 1}, maxima)
	require.NotEmpty(t, warnings)
	var codes []WarningCode
	for _, w := range warnings {
		require.Equal(t, "q2", w.Item)
		codes = append(codes, w.Code)
	}
	require.Contains(t, codes, WarnNoVariation)
}

func TestValidateResponsesMissingMiddleCategory(t *testing.T) {
	maxima, warnings := ValidateResponses([]int{0, 1, 0, 2}, []int{1, 1, 2, 2}, []string{"q1", "q2"})
	require.Equal(t, []int{1, 2}, maxima)
	require.Len(t, warnings, 1)
	require.Equal(t, "q2", warnings[0].Item)
	require.Equal(t, WarnMissingCategory, warnings[0].Code)
}

func TestValidateResponsesStacksWarnings(t *testing.T) {
	maxima, warnings := ValidateResponses([]int{2, 2, 2}, []int{1, 1, 1}, []string{"q1"})
	require.Equal(t, []int{2}, maxima)
	require.Len(t, warnings, 2)
	codes := []WarningCode{warnings[0].Code, warnings[1].Code}
	require.Contains(t, codes, WarnMinNotZero)
	require.Contains(t, codes, WarnNoVariation)
}

func TestValidateResponsesUnobservedItem(t *testing.T) {
	y := []int{0, 1, Missing, Missing}
	ii := []int{1, 1, 2, 2}
	maxima, warnings := ValidateResponses(y, ii, []string{"seen", "unseen"})
	require.Equal(t, []int{1, 0}, maxima)
	require.Len(t, warnings, 1)
	require.Equal(t, WarnNoObservations, warnings[0].Code)
	require.Equal(t, "unseen", warnings[0].Item)
}

func TestValidateResponsesSkipsMissing(t *testing.T) {
	maxima, warnings := ValidateResponses([]int{0, Missing, 1}, []int{1, 1, 1}, []string{"q1"})
	require.Equal(t, []int{1}, maxima)
	require.Empty(t, warnings)
}

func TestWarningString(t *testing.T) {
	w := Warning{Item: "q3", Code: WarnMinNotZero, Message: "minimum response value is 1, not 0"}
	require.Equal(t, "item q3: minimum response value is 1, not 0", w.String())
}
