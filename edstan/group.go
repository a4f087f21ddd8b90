package edstan

import "fmt"

// Instrument-level group labels used by GroupParameters.
const (
	GroupRatingScale = "Rating scale steps"
	GroupAbility     = "Ability distribution"
)

// ParameterGroup pairs a display group with one sampler parameter name.
// ItemIndex is the owning 1-based item for item-level entries and 0 for
// instrument-level groups, letting summary code swap in the item's display
// label.
type ParameterGroup struct {
	ItemIndex int
	Group     string
	Parameter string
}

// GroupParameters reconstructs the ordered parameter layout of a fitted
// model from the per-item maximum scores and the two family flags. The
// order is a correctness contract, not cosmetic: it defines report layout.
//
// Per item, in original item order: one discrimination entry alpha[i]
// unless the family shares a single discrimination; then the item's step
// entries beta[s], numbered by a global counter that runs continuously
// across the whole instrument. An item owes one step when steps are shared
// across items (rating-scale families) and maxScores[i] steps otherwise.
// After the items: the shared steps kappa[1..max] under "Rating scale
// steps" when steps are shared; the mean-ability regression coefficient
// lambda[1] under "Ability distribution"; and the ability spread sigma,
// also under "Ability distribution", only for single-discrimination
// families (the richer families absorb the scale into the discriminations).
func GroupParameters(maxScores []int, singleDiscrimination, sharedSteps bool) []ParameterGroup {
	return groupParameters(maxScores, singleDiscrimination, sharedSteps, 1)
}

// groupParameters additionally emits one lambda entry per regression
// column, for datasets with a non-trivial latent regression.
func groupParameters(maxScores []int, singleDiscrimination, sharedSteps bool, regressionCols int) []ParameterGroup {
	size := len(maxScores) + regressionCols + 1
	out := make([]ParameterGroup, 0, size)

	step := 0
	maxAll := 0
	for i, m := range maxScores {
		item := i + 1
		group := fmt.Sprintf("Item %d", item)
		if !singleDiscrimination {
			out = append(out, ParameterGroup{
				ItemIndex: item,
				Group:     group,
				Parameter: fmt.Sprintf("alpha[%d]", item),
			})
		}
		owed := m
		if sharedSteps {
			owed = 1
		}
		for s := 0; s < owed; s++ {
			step++
			out = append(out, ParameterGroup{
				ItemIndex: item,
				Group:     group,
				Parameter: fmt.Sprintf("beta[%d]", step),
			})
		}
		if m > maxAll {
			maxAll = m
		}
	}

	if sharedSteps {
		for k := 1; k <= maxAll; k++ {
			out = append(out, ParameterGroup{
				Group:     GroupRatingScale,
				Parameter: fmt.Sprintf("kappa[%d]", k),
			})
		}
	}
	for k := 1; k <= regressionCols; k++ {
		out = append(out, ParameterGroup{
			Group:     GroupAbility,
			Parameter: fmt.Sprintf("lambda[%d]", k),
		})
	}
	if singleDiscrimination {
		out = append(out, ParameterGroup{
			Group:     GroupAbility,
			Parameter: "sigma",
		})
	}
	return out
}
