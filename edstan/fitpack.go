package edstan

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// fitArchiveVersion is bumped whenever the archive layout changes.
const fitArchiveVersion = 1

type fitArchive struct {
	Version int                    `msgpack:"version"`
	Family  archiveFamily          `msgpack:"family"`
	Data    archiveData            `msgpack:"data"`
	Params  []string               `msgpack:"params"`
	Draws   map[string][][]float64 `msgpack:"draws"`
}

type archiveFamily struct {
	Name           string `msgpack:"name"`
	Label          string `msgpack:"label"`
	StanFile       string `msgpack:"stan_file"`
	Discrimination string `msgpack:"discrimination"`
	Steps          string `msgpack:"steps"`
}

type archiveData struct {
	I            int       `msgpack:"i"`
	J            int       `msgpack:"j"`
	II           []int     `msgpack:"ii"`
	JJ           []int     `msgpack:"jj"`
	Y            []int     `msgpack:"y"`
	DesignCols   []string  `msgpack:"design_cols"`
	Design       []float64 `msgpack:"design"`
	ItemLabels   []string  `msgpack:"item_labels"`
	PersonLabels []string  `msgpack:"person_labels"`
}

// WriteFit persists a fitted model: family, dataset and all posterior
// draws, msgpack-encoded and zstd-compressed. The result is self-contained;
// reading it back needs no model library.
func WriteFit(w io.Writer, f *Fit) error {
	params := f.Posterior.Params()
	if len(params) == 0 {
		return fmt.Errorf("%w: fit has no posterior draws", ErrParamMissing)
	}
	draws := make(map[string][][]float64, len(params))
	for _, name := range params {
		draws[name] = f.Posterior.ChainDraws(name)
	}
	arc := fitArchive{
		Version: fitArchiveVersion,
		Family: archiveFamily{
			Name:           f.Family.Name,
			Label:          f.Family.Label,
			StanFile:       f.Family.StanFile,
			Discrimination: string(f.Family.Discrimination),
			Steps:          string(f.Family.Steps),
		},
		Data: archiveData{
			I:            f.Data.I,
			J:            f.Data.J,
			II:           f.Data.II,
			JJ:           f.Data.JJ,
			Y:            f.Data.Y,
			DesignCols:   f.Data.W.ColNames,
			Design:       f.Data.W.Data,
			ItemLabels:   f.Data.ItemLabels,
			PersonLabels: f.Data.PersonLabels,
		},
		Params: params,
		Draws:  draws,
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("edstan: open fit writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(arc); err != nil {
		zw.Close()
		return fmt.Errorf("edstan: encode fit: %w", err)
	}
	return zw.Close()
}

// ReadFit restores a fit written by WriteFit. The dataset is revalidated on
// the way in, so a hand-edited archive fails the same way bad input data
// would.
func ReadFit(r io.Reader) (*Fit, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("edstan: open fit reader: %w", err)
	}
	defer zr.Close()

	var arc fitArchive
	if err := msgpack.NewDecoder(zr).Decode(&arc); err != nil {
		return nil, fmt.Errorf("edstan: decode fit: %w", err)
	}
	if arc.Version != fitArchiveVersion {
		return nil, fmt.Errorf("edstan: fit archive version %d not supported", arc.Version)
	}

	family, err := newFamily(arc.Family.Name, familySpec{
		Label:          arc.Family.Label,
		StanFile:       arc.Family.StanFile,
		Discrimination: arc.Family.Discrimination,
		Steps:          arc.Family.Steps,
	})
	if err != nil {
		return nil, err
	}

	design := &Design{
		ColNames: arc.Data.DesignCols,
		Rows:     arc.Data.J,
		Cols:     len(arc.Data.DesignCols),
		Data:     arc.Data.Design,
	}
	ds, err := Assemble(arc.Data.II, arc.Data.JJ, arc.Data.Y, arc.Data.I, arc.Data.J, design)
	if err != nil {
		return nil, err
	}
	if len(arc.Data.ItemLabels) != ds.I || len(arc.Data.PersonLabels) != ds.J {
		return nil, fmt.Errorf("%w: archive labels %d items / %d persons against data %d/%d",
			ErrShapeMismatch, len(arc.Data.ItemLabels), len(arc.Data.PersonLabels), ds.I, ds.J)
	}
	ds.ItemLabels = arc.Data.ItemLabels
	ds.PersonLabels = arc.Data.PersonLabels
	_, ds.Warnings = ValidateResponses(ds.Y, ds.II, ds.ItemLabels)

	if len(arc.Params) == 0 {
		return nil, fmt.Errorf("%w: archive has no posterior draws", ErrParamMissing)
	}
	chains := 0
	for _, name := range arc.Params {
		if len(arc.Draws[name]) > chains {
			chains = len(arc.Draws[name])
		}
	}
	post := NewPosterior()
	for c := 0; c < chains; c++ {
		cols := make([][]float64, len(arc.Params))
		for i, name := range arc.Params {
			chainDraws := arc.Draws[name]
			if c >= len(chainDraws) {
				return nil, fmt.Errorf("%w: parameter %s missing chain %d", ErrShapeMismatch, name, c+1)
			}
			cols[i] = chainDraws[c]
		}
		if err := post.AddChain(arc.Params, cols); err != nil {
			return nil, err
		}
	}

	return &Fit{Family: family, Data: ds, Posterior: post}, nil
}
