package edstan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// Library holds the model family descriptors loaded from a directory of
// YAML files. Each file maps family names to their specs; a name may appear
// in only one file.
type Library struct {
	Path     string
	families map[string]*Family
}

// OpenLibrary loads every .yml/.yaml file under path.
func OpenLibrary(path string) (*Library, error) {
	lib := &Library{Path: path, families: map[string]*Family{}}
	walk := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".yml") && !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		fileDefs := map[string]familySpec{}
		if err := yaml.Unmarshal(raw, &fileDefs); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		for name, spec := range fileDefs {
			fam, err := newFamily(name, spec)
			if err != nil {
				return err
			}
			if _, ok := lib.families[fam.Name]; ok {
				return fmt.Errorf("%w: duplicate family name %q", ErrConfig, fam.Name)
			}
			lib.families[fam.Name] = fam
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	if len(lib.families) == 0 {
		return nil, fmt.Errorf("%w: no family descriptors under %s", ErrConfig, path)
	}
	return lib, nil
}

var (
	defaultLibrary *Library
	defaultOnce    sync.Once
)

// Default returns a singleton library loaded from EDSTAN_MODEL_PATH or the
// local "models" directory. It panics when neither can be loaded, surfacing
// the configuration error at first use.
func Default() *Library {
	defaultOnce.Do(func() {
		path := os.Getenv("EDSTAN_MODEL_PATH")
		if path == "" {
			path = "models"
		}
		lib, err := OpenLibrary(path)
		if err != nil {
			panic(fmt.Errorf("failed to load edstan model library from %s: %w", path, err))
		}
		defaultLibrary = lib
	})
	return defaultLibrary
}

// Family resolves a family selector, case-insensitively. Unknown selectors
// fail with ErrConfig, carrying a "did you mean" hint when a close match
// exists.
func (l *Library) Family(name string) (*Family, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if fam, ok := l.families[key]; ok {
		return fam, nil
	}
	if hint := l.closest(key); hint != "" {
		return nil, fmt.Errorf("%w: unrecognized model family %q (did you mean %q?)", ErrConfig, name, hint)
	}
	return nil, fmt.Errorf("%w: unrecognized model family %q", ErrConfig, name)
}

// Families lists the loaded families sorted by name.
func (l *Library) Families() []*Family {
	out := make([]*Family, 0, len(l.families))
	for _, f := range l.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Model pairs a resolved family with the sampler that runs it.
func (l *Library) Model(name string, sampler Sampler) (*Model, error) {
	fam, err := l.Family(name)
	if err != nil {
		return nil, err
	}
	return &Model{Family: fam, Sampler: sampler}, nil
}

// closest finds the nearest known family name within edit distance 3.
func (l *Library) closest(name string) string {
	best, bestDist := "", 4
	for known := range l.families {
		if d := levenshtein.ComputeDistance(name, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}
