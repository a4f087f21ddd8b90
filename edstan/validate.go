package edstan

import (
	"fmt"
	"sort"
)

// WarningCode identifies one class of response-integrity problem.
type WarningCode string

const (
	// WarnMinNotZero: the lowest observed response for an item is not 0.
	WarnMinNotZero WarningCode = "min_not_zero"
	// WarnNoVariation: an item has a single distinct observed response.
	WarnNoVariation WarningCode = "no_variation"
	// WarnMissingCategory: the observed responses skip a value inside
	// [min, max].
	WarnMissingCategory WarningCode = "missing_category"
	// WarnNoObservations: an item has no non-missing responses at all. Its
	// maximum score is taken as 0.
	WarnNoObservations WarningCode = "no_observations"
)

// Warning flags a statistical red flag for one item. Warnings never stop
// dataset assembly; the data is still handed to the sampler.
type Warning struct {
	Item    string
	Code    WarningCode
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("item %s: %s", w.Item, w.Message)
}

// ValidateResponses groups the responses by item index and checks each
// item's non-missing scores: the minimum should be 0, there should be more
// than one distinct value, and the distinct values should cover the full
// range [min, max] with no gaps. Violations come back as warnings, not
// errors.
//
// The returned slice holds the maximum observed score per item: position
// i-1 belongs to item index i. Items with no observations get maximum 0 and
// a WarnNoObservations entry; downstream model structure needs a defined
// maximum for every item, so this case must not crash.
func ValidateResponses(y, ii []int, itemLabels []string) ([]int, []Warning) {
	itemCount := len(itemLabels)
	observed := make([]map[int]struct{}, itemCount)
	for k, v := range y {
		if IsMissing(v) {
			continue
		}
		i := ii[k]
		if i < 1 || i > itemCount {
			continue
		}
		if observed[i-1] == nil {
			observed[i-1] = make(map[int]struct{})
		}
		observed[i-1][v] = struct{}{}
	}

	maxima := make([]int, itemCount)
	var warnings []Warning
	for i := 0; i < itemCount; i++ {
		label := itemLabels[i]
		values := observed[i]
		if len(values) == 0 {
			warnings = append(warnings, Warning{
				Item:    label,
				Code:    WarnNoObservations,
				Message: "has no observed responses; maximum score taken as 0",
			})
			continue
		}
		sorted := make([]int, 0, len(values))
		for v := range values {
			sorted = append(sorted, v)
		}
		sort.Ints(sorted)
		lo, hi := sorted[0], sorted[len(sorted)-1]
		maxima[i] = hi

		if lo != 0 {
			warnings = append(warnings, Warning{
				Item:    label,
				Code:    WarnMinNotZero,
				Message: fmt.Sprintf("minimum response value is %d, not 0", lo),
			})
		}
		if len(sorted) == 1 {
			warnings = append(warnings, Warning{
				Item:    label,
				Code:    WarnNoVariation,
				Message: fmt.Sprintf("only has response values of %d", lo),
			})
		} else if len(sorted) != hi-lo+1 {
			warnings = append(warnings, Warning{
				Item:    label,
				Code:    WarnMissingCategory,
				Message: "has missing response categories",
			})
		}
	}
	return maxima, warnings
}
