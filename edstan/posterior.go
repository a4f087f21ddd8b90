package edstan

import (
	"fmt"
	"math"
	"sort"
)

// Posterior is the flat named output of a sampler: for every parameter, its
// posterior draws. Draws stay separated by chain so convergence diagnostics
// remain computable; flattened access is available for point estimates.
type Posterior struct {
	names []string
	draws map[string][][]float64
}

// NewPosterior returns an empty posterior.
func NewPosterior() *Posterior {
	return &Posterior{draws: map[string][][]float64{}}
}

// AddChain appends one chain of draws: names[i] labels cols[i]. Parameter
// order is fixed by the first chain that mentions a name.
func (p *Posterior) AddChain(names []string, cols [][]float64) error {
	if len(names) != len(cols) {
		return fmt.Errorf("%w: %d names for %d draw columns", ErrShapeMismatch, len(names), len(cols))
	}
	for i, name := range names {
		if _, ok := p.draws[name]; !ok {
			p.names = append(p.names, name)
		}
		p.draws[name] = append(p.draws[name], cols[i])
	}
	return nil
}

// Params returns the parameter names in insertion order.
func (p *Posterior) Params() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Has reports whether the posterior carries draws for name.
func (p *Posterior) Has(name string) bool {
	_, ok := p.draws[name]
	return ok
}

// Chains returns the number of chains recorded for the first parameter.
func (p *Posterior) Chains() int {
	if len(p.names) == 0 {
		return 0
	}
	return len(p.draws[p.names[0]])
}

// ChainDraws returns the per-chain draw sequences for name, or nil.
func (p *Posterior) ChainDraws(name string) [][]float64 {
	return p.draws[name]
}

// Draws returns all draws for name flattened across chains, or nil.
func (p *Posterior) Draws(name string) []float64 {
	chains := p.draws[name]
	if chains == nil {
		return nil
	}
	total := 0
	for _, c := range chains {
		total += len(c)
	}
	out := make([]float64, 0, total)
	for _, c := range chains {
		out = append(out, c...)
	}
	return out
}

// ParamSummary condenses one parameter's draws: posterior mean, standard
// deviation, central quantiles and the split potential scale reduction
// factor R-hat (NaN when chains are too short to split).
type ParamSummary struct {
	Name   string
	Mean   float64
	SD     float64
	Q025   float64
	Q25    float64
	Median float64
	Q75    float64
	Q975   float64
	Rhat   float64
}

// Summary computes the ParamSummary for one parameter. Unknown names fail
// with ErrParamMissing.
func (p *Posterior) Summary(name string) (ParamSummary, error) {
	chains, ok := p.draws[name]
	if !ok {
		return ParamSummary{}, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	all := p.Draws(name)
	if len(all) == 0 {
		return ParamSummary{}, fmt.Errorf("%w: %s has no draws", ErrParamMissing, name)
	}
	mean, sd := meanSD(all)
	sorted := make([]float64, len(all))
	copy(sorted, all)
	sort.Float64s(sorted)
	return ParamSummary{
		Name:   name,
		Mean:   mean,
		SD:     sd,
		Q025:   quantile(sorted, 0.025),
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Q975:   quantile(sorted, 0.975),
		Rhat:   splitRhat(chains),
	}, nil
}

// meanSD returns the mean and sample standard deviation of xs.
func meanSD(xs []float64) (float64, float64) {
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

// quantile interpolates the q-th quantile of an already sorted slice
// (type-7 linear interpolation, matching numpy's default).
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := q * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// splitRhat computes the classic split-chain potential scale reduction
// factor. Chains are halved to expose within-chain drift; fewer than two
// draws per half yields NaN.
func splitRhat(chains [][]float64) float64 {
	var split [][]float64
	for _, c := range chains {
		half := len(c) / 2
		if half < 2 {
			return math.NaN()
		}
		split = append(split, c[:half], c[half:half*2])
	}
	if len(split) < 2 {
		return math.NaN()
	}
	n := float64(len(split[0]))
	m := float64(len(split))

	means := make([]float64, len(split))
	var w float64
	for i, seq := range split {
		mean, sd := meanSD(seq)
		means[i] = mean
		w += sd * sd
	}
	w /= m

	grand, _ := meanSD(means)
	var b float64
	for _, mu := range means {
		d := mu - grand
		b += d * d
	}
	b = b * n / (m - 1)

	if w == 0 {
		return math.NaN()
	}
	varPlus := (n-1)/n*w + b/n
	return math.Sqrt(varPlus / w)
}
