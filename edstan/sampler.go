package edstan

import (
	"context"
	"fmt"
)

// Sampler runs a Stan program against an assembled data block and returns
// the posterior draws. CmdStan is the production implementation; tests
// substitute fakes.
type Sampler interface {
	Sample(ctx context.Context, program string, data map[string]any, cfg SampleConfig) (*Posterior, error)
}

// SampleConfig controls one MCMC run.
type SampleConfig struct {
	// Chains is the number of independent chains.
	Chains int
	// Iter is the number of post-warmup draws kept per chain.
	Iter int
	// Warmup is the number of warmup iterations per chain.
	Warmup int
	// Thin keeps every Thin-th draw.
	Thin int
	// Seed feeds the sampler's RNG; 0 lets the sampler choose.
	Seed int64
	// Parallel caps how many chains run at once; 0 means all of them.
	Parallel int
}

// DefaultSampleConfig mirrors CmdStan's defaults.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{Chains: 4, Iter: 1000, Warmup: 1000, Thin: 1}
}

func (c SampleConfig) check() error {
	if c.Chains < 1 {
		return fmt.Errorf("%w: chains must be positive, got %d", ErrConfig, c.Chains)
	}
	if c.Iter < 1 {
		return fmt.Errorf("%w: iter must be positive, got %d", ErrConfig, c.Iter)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("%w: warmup must not be negative, got %d", ErrConfig, c.Warmup)
	}
	if c.Thin < 1 {
		return fmt.Errorf("%w: thin must be positive, got %d", ErrConfig, c.Thin)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("%w: parallel must not be negative, got %d", ErrConfig, c.Parallel)
	}
	return nil
}

// SampleOption adjusts a SampleConfig.
type SampleOption func(*SampleConfig)

// WithChains sets the number of chains.
func WithChains(n int) SampleOption {
	return func(c *SampleConfig) { c.Chains = n }
}

// WithIter sets the number of post-warmup draws per chain.
func WithIter(n int) SampleOption {
	return func(c *SampleConfig) { c.Iter = n }
}

// WithWarmup sets the number of warmup iterations per chain.
func WithWarmup(n int) SampleOption {
	return func(c *SampleConfig) { c.Warmup = n }
}

// WithThin keeps every n-th draw.
func WithThin(n int) SampleOption {
	return func(c *SampleConfig) { c.Thin = n }
}

// WithSeed fixes the sampler's RNG seed.
func WithSeed(seed int64) SampleOption {
	return func(c *SampleConfig) { c.Seed = seed }
}

// WithParallel caps the number of chains running at once.
func WithParallel(n int) SampleOption {
	return func(c *SampleConfig) { c.Parallel = n }
}

// Model binds a family to the sampler that will estimate it.
type Model struct {
	Family  *Family
	Sampler Sampler
}

// Fit estimates the model on ds and returns the fitted result.
func (m *Model) Fit(ctx context.Context, ds *Dataset, opts ...SampleOption) (*Fit, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrConfig)
	}
	cfg := DefaultSampleConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	post, err := m.Sampler.Sample(ctx, m.Family.StanFile, ds.StanData(), cfg)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", m.Family.Name, err)
	}
	return &Fit{Family: m.Family, Data: ds, Posterior: post}, nil
}

// Fit is a fitted model: the family that was estimated, the data it was
// estimated on and the posterior draws. The pieces stay addressable so
// callers can reach past the summary tables when they need to.
type Fit struct {
	Family    *Family
	Data      *Dataset
	Posterior *Posterior
}
