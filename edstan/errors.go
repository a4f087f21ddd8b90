package edstan

import "errors"

// Sentinel errors for the data-preparation and fitting pipeline. Callers
// match them with errors.Is; call sites wrap them with fmt.Errorf("...: %w")
// to attach context. Response-integrity problems are not errors at all and
// are reported as Warning values instead.
var (
	// ErrShape is returned for malformed tables: ragged rows, duplicate row
	// or column labels, label/dimension mismatches, unparseable cells, or
	// out-of-range index arrays.
	ErrShape = errors.New("edstan: invalid shape")

	// ErrShapeMismatch is returned when parallel arrays (item indices,
	// person indices, responses) do not share one length.
	ErrShapeMismatch = errors.New("edstan: length mismatch")

	// ErrDesign is returned when the latent-regression design matrix
	// violates the intercept contract: column 0 must be all ones.
	ErrDesign = errors.New("edstan: design matrix missing intercept column")

	// ErrDesignMismatch is returned when design rows cannot be aligned to
	// persons: the row count matches neither the person count nor the
	// observation count, or a person has no non-missing observation to
	// select a row from.
	ErrDesignMismatch = errors.New("edstan: design rows do not align to persons")

	// ErrConfig is returned for unrecognized model family selectors,
	// malformed family descriptors and unknown formula columns.
	ErrConfig = errors.New("edstan: invalid configuration")

	// ErrSamplerFailed is returned when the external sampler exits with an
	// error or produces output that cannot be parsed.
	ErrSamplerFailed = errors.New("edstan: sampler failed")

	// ErrParamMissing is returned when the posterior lacks a parameter the
	// model family requires for grouping.
	ErrParamMissing = errors.New("edstan: parameter missing from posterior")
)
