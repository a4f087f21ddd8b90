package edstan

import (
	"fmt"
	"strings"
)

// Discrimination tells how a model family treats item slopes.
type Discrimination string

const (
	// DiscriminationConstant: all items share one discrimination (Rasch
	// family); the ability spread sigma is estimated explicitly.
	DiscriminationConstant Discrimination = "constant"
	// DiscriminationVarying: each item gets its own alpha parameter and the
	// ability spread is absorbed rather than reported.
	DiscriminationVarying Discrimination = "varying"
)

// StepStructure tells how a model family owns step/threshold parameters.
type StepStructure string

const (
	// StepsItemwise: each item owns as many step parameters as its maximum
	// observed score (partial-credit structure; dichotomous items own one).
	StepsItemwise StepStructure = "itemwise"
	// StepsShared: every item owns a single location and the steps kappa
	// are shared identically across items (rating-scale structure).
	StepsShared StepStructure = "shared"
)

// Family describes one item-response model family: its display label, the
// Stan program implementing it, and the two structural flags that determine
// the posterior parameter layout.
type Family struct {
	Name           string
	Label          string
	StanFile       string
	Discrimination Discrimination
	Steps          StepStructure
}

// SingleDiscrimination reports whether the family estimates one shared
// discrimination (and therefore reports sigma explicitly).
func (f *Family) SingleDiscrimination() bool {
	return f.Discrimination == DiscriminationConstant
}

// SharedSteps reports whether step parameters are shared across items.
func (f *Family) SharedSteps() bool {
	return f.Steps == StepsShared
}

// Groups lays out the family's posterior parameters for the given per-item
// maximum scores.
func (f *Family) Groups(maxScores []int) []ParameterGroup {
	return GroupParameters(maxScores, f.SingleDiscrimination(), f.SharedSteps())
}

type familySpec struct {
	Label          string `yaml:"label"`
	StanFile       string `yaml:"stan_file"`
	Discrimination string `yaml:"discrimination"`
	Steps          string `yaml:"steps"`
}

func newFamily(name string, spec familySpec) (*Family, error) {
	f := &Family{
		Name:     strings.ToLower(name),
		Label:    spec.Label,
		StanFile: spec.StanFile,
	}
	if f.Label == "" {
		f.Label = name
	}
	switch Discrimination(spec.Discrimination) {
	case DiscriminationConstant, DiscriminationVarying:
		f.Discrimination = Discrimination(spec.Discrimination)
	default:
		return nil, fmt.Errorf("%w: family %q has discrimination %q, want constant or varying",
			ErrConfig, name, spec.Discrimination)
	}
	switch StepStructure(spec.Steps) {
	case StepsItemwise, StepsShared:
		f.Steps = StepStructure(spec.Steps)
	default:
		return nil, fmt.Errorf("%w: family %q has steps %q, want itemwise or shared",
			ErrConfig, name, spec.Steps)
	}
	return f, nil
}
