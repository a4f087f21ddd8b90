package edstan

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CmdStan samples by launching compiled CmdStan model binaries, one process
// per chain. The binary for a program "rasch_latent_reg.stan" is expected at
// <binDir>/rasch_latent_reg; compiling the programs is the installation's
// job, not this package's.
type CmdStan struct {
	binDir   string
	workDir  string
	keepRuns bool
	log      *Logger
}

// CmdStanOption adjusts a CmdStan runner.
type CmdStanOption func(*CmdStan)

// WithWorkDir places per-run scratch directories under dir instead of the
// system temp directory.
func WithWorkDir(dir string) CmdStanOption {
	return func(cs *CmdStan) { cs.workDir = dir }
}

// WithKeepRuns leaves scratch directories (data file, chain CSVs, console
// logs) in place after a successful run.
func WithKeepRuns() CmdStanOption {
	return func(cs *CmdStan) { cs.keepRuns = true }
}

// WithStanLogger routes runner progress through l.
func WithStanLogger(l *Logger) CmdStanOption {
	return func(cs *CmdStan) { cs.log = l }
}

// NewCmdStan returns a runner that resolves model binaries under binDir.
func NewCmdStan(binDir string, opts ...CmdStanOption) *CmdStan {
	cs := &CmdStan{binDir: binDir, workDir: os.TempDir()}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Sample implements Sampler. Each chain runs as its own process; chains run
// concurrently up to cfg.Parallel. On failure the scratch directory is left
// in place and named in the error.
func (cs *CmdStan) Sample(ctx context.Context, program string, data map[string]any, cfg SampleConfig) (*Posterior, error) {
	exe := filepath.Join(cs.binDir, strings.TrimSuffix(filepath.Base(program), filepath.Ext(program)))
	if _, err := os.Stat(exe); err != nil {
		return nil, fmt.Errorf("%w: model binary for %s not found at %s", ErrConfig, program, exe)
	}

	runDir := filepath.Join(cs.workDir, "edstan-run-"+uuid.NewString())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("edstan: create run dir: %w", err)
	}

	dataPath := filepath.Join(runDir, "data.json")
	df, err := os.Create(dataPath)
	if err != nil {
		return nil, fmt.Errorf("edstan: write data file: %w", err)
	}
	if err := WriteStanJSON(df, data); err != nil {
		df.Close()
		return nil, fmt.Errorf("edstan: write data file: %w", err)
	}
	if err := df.Close(); err != nil {
		return nil, fmt.Errorf("edstan: write data file: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano() & 0x7fffffff
	}

	log := cs.log.orNoop()
	log.Info("sampling", "program", program, "chains", cfg.Chains, "iter", cfg.Iter, "warmup", cfg.Warmup, "seed", seed, "dir", runDir)

	limit := cfg.Parallel
	if limit == 0 {
		limit = cfg.Chains
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	csvPaths := make([]string, cfg.Chains)
	for chain := 1; chain <= cfg.Chains; chain++ {
		chain := chain
		csvPath := filepath.Join(runDir, fmt.Sprintf("chain-%d.csv", chain))
		csvPaths[chain-1] = csvPath
		g.Go(func() error {
			args := []string{
				"sample",
				fmt.Sprintf("num_samples=%d", cfg.Iter),
				fmt.Sprintf("num_warmup=%d", cfg.Warmup),
				fmt.Sprintf("thin=%d", cfg.Thin),
				fmt.Sprintf("id=%d", chain),
				"random", fmt.Sprintf("seed=%d", seed),
				"data", "file=" + dataPath,
				"output", "file=" + csvPath,
			}
			cmd := exec.CommandContext(gctx, exe, args...)
			var console bytes.Buffer
			cmd.Stdout = &console
			cmd.Stderr = &console
			start := time.Now()
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("%w: chain %d: %v\n%s", ErrSamplerFailed, chain, err, lastLines(console.String(), 12))
			}
			log.Debug("chain finished", "chain", chain, "elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w (run dir kept at %s)", err, runDir)
	}

	post := NewPosterior()
	for chain, csvPath := range csvPaths {
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, fmt.Errorf("edstan: chain %d output: %w", chain+1, err)
		}
		names, cols, err := ReadStanCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("edstan: chain %d output: %w", chain+1, err)
		}
		if err := post.AddChain(names, cols); err != nil {
			return nil, fmt.Errorf("edstan: chain %d output: %w", chain+1, err)
		}
	}

	if cs.keepRuns {
		log.Info("run dir kept", "dir", runDir)
	} else if err := os.RemoveAll(runDir); err != nil {
		log.Warn("could not remove run dir", "dir", runDir, "error", err)
	}
	return post, nil
}

// lastLines returns the trailing n lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
