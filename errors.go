// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import "fmt"

// Kind classifies the failure modes a pipeline stage can report, per the
// closed taxonomy of error kinds a stage may surface.
type Kind int

const (
	// KindInternal covers any failure not otherwise classified.
	KindInternal Kind = iota
	// KindInputError marks malformed UTF-8, contradictory hints, or
	// invalid parameters supplied by the caller.
	KindInputError
	// KindFontNotFound marks a font spec that could not be resolved to
	// bytes on disk or in memory.
	KindFontNotFound
	// KindParseError marks font bytes rejected by the font parser.
	KindParseError
	// KindUnsupportedFormat marks a font, pixel, or export format not
	// supported by the selected backend.
	KindUnsupportedFormat
	// KindVariationOutOfRange marks a requested variation coordinate
	// outside the font's declared axis range.
	KindVariationOutOfRange
	// KindGlyphSourceUnavailable marks a glyph with no representation in
	// any preferred color source and no fallback outline.
	KindGlyphSourceUnavailable
	// KindMissingGlyph marks a codepoint with no mapping in the font.
	KindMissingGlyph
	// KindShaperUnavailable marks a named shaper backend absent from this
	// build.
	KindShaperUnavailable
	// KindRasterizerUnavailable marks a named rasterizer backend absent
	// from this build.
	KindRasterizerUnavailable
	// KindExporterUnavailable marks a named exporter backend absent from
	// this build.
	KindExporterUnavailable
	// KindOutOfMemory marks an allocation failure for an output or cache.
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindInputError:
		return "input-error"
	case KindFontNotFound:
		return "font-not-found"
	case KindParseError:
		return "parse-error"
	case KindUnsupportedFormat:
		return "unsupported-format"
	case KindVariationOutOfRange:
		return "variation-out-of-range"
	case KindGlyphSourceUnavailable:
		return "glyph-source-unavailable"
	case KindMissingGlyph:
		return "missing-glyph"
	case KindShaperUnavailable:
		return "shaper-unavailable"
	case KindRasterizerUnavailable:
		return "rasterizer-unavailable"
	case KindExporterUnavailable:
		return "exporter-unavailable"
	case KindOutOfMemory:
		return "out-of-memory"
	default:
		return "internal"
	}
}

// Stage names a pipeline stage for error context.
type Stage string

const (
	StageUnicode    Stage = "unicode"
	StageFont       Stage = "font"
	StageShape      Stage = "shape"
	StageRasterize  Stage = "rasterize"
	StageExport     Stage = "export"
	StagePipeline   Stage = "pipeline"
)

// StageError is the single result-carrying error type used across stage
// boundaries. It names the stage, the kind of failure, and wraps the
// underlying cause, following the "single result-carrying error kind with
// stage and context fields" design named in spec.md's design notes.
type StageError struct {
	Stage   Stage
	Kind    Kind
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewError constructs a StageError, wrapping cause (which may be nil).
func NewError(stage Stage, kind Kind, message string, cause error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Message: message, Err: cause}
}

// Warning is a non-fatal condition attached to an otherwise successful
// result, such as a clamped variation coordinate or a substituted .notdef
// glyph. Warnings never abort a stage; callers may choose to treat them as
// errors.
type Warning struct {
	Kind    Kind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
