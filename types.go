// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"strconv"

	"golang.org/x/image/math/fixed"

	"github.com/inkwell/textshape/f32"
)

// Direction is the writing direction of a run of text.
type Direction uint8

const (
	LTR Direction = iota
	RTL
	TTB
)

func (d Direction) String() string {
	switch d {
	case RTL:
		return "RTL"
	case TTB:
		return "TTB"
	default:
		return "LTR"
	}
}

// Run is a maximal slice of text with uniform script, direction and
// language, as produced by the Unicode itemizer (spec.md §4.1). Runs
// partition the input: concatenating [ByteStart, ByteEnd) spans in logical order
// reproduces the original text.
type Run struct {
	Text      string
	Script    string
	Direction Direction
	Language  string
	// ByteStart and ByteEnd locate this run within the original input.
	ByteStart, ByteEnd int
}

// VariationCoord is a single OpenType variation-axis value, e.g. axis tag
// "wght" with value 625.
type VariationCoord struct {
	Axis  [4]byte
	Value float32
}

// FeatureSetting selects an OpenType feature, e.g. tag "liga" with value 1
// to enable standard ligatures, or 0 to disable.
type FeatureSetting struct {
	Tag   [4]byte
	Value uint32
}

// FontSpec requests a font: a family name or file path, a size, and
// optional face index, variation coordinates, and feature map (spec.md
// §3).
type FontSpec struct {
	// Family is a typeface family name resolved against registered faces.
	// If empty, Path must be set.
	Family string
	// Path is a font file path. If set, it takes precedence over Family.
	Path string
	// Size is the requested size in device-independent points.
	Size float64
	// FaceIndex selects a face within a font collection (TTC/OTC).
	FaceIndex int
	// Variations are the requested variable-font axis coordinates.
	Variations []VariationCoord
	// Features are the requested OpenType feature settings.
	Features []FeatureSetting
	// Strict, when true, makes out-of-range variation coordinates a fatal
	// KindVariationOutOfRange error instead of a clamped warning.
	Strict bool
}

// FontKey stably identifies a loaded font by source, face index and
// resolved variation coordinates, exactly as spec.md §3 defines it. It is
// a plain comparable value so it can be used directly as a map key in the
// shaping and glyph-bitmap caches.
type FontKey struct {
	source     string
	faceIndex  int
	variations string
}

// String returns a stable, human-readable rendering of the key, suitable
// for hashing or debug output.
func (k FontKey) String() string {
	return k.source + "#" + strconv.Itoa(k.faceIndex) + "@" + k.variations
}

// GlyphID uniquely identifies a glyph shape within one loaded font at one
// pixel size, for the purposes of the glyph-bitmap cache. It packs the
// font-native glyph id together with the pixel size so that two identical
// outlines rendered at different sizes never alias in the bitmap cache,
// following the glyph-identity scheme used by the teacher's shaping
// layer.
type GlyphID struct {
	Font     FontKey
	GID      uint32
	PixelSize float32
}

// PositionedGlyph is one shaped glyph: its identity, its advance and
// offset in pixels at the result's PixelSize, and the byte offset
// ("cluster") in the input that it corresponds to (spec.md §3).
type PositionedGlyph struct {
	GID uint32
	// Advance is the distance to move the pen after this glyph, in
	// pixels (26.6 fixed point) at the result's PixelSize, not in font
	// units.
	AdvanceX, AdvanceY fixed.Int26_6
	// Offset displaces the glyph from the pen position, in pixels (26.6
	// fixed point) at the result's PixelSize, not in font units.
	OffsetX, OffsetY fixed.Int26_6
	// Cluster is the byte offset in the original input (the run's
	// ByteStart plus the offset within the run's text) of the text that
	// this glyph (or glyph group) corresponds to.
	Cluster int
	// RuneCount is nonzero on the final glyph of a cluster, and records
	// how many runes the cluster as a whole represents.
	RuneCount int
}

// ShapingResult is the output of S3 Shape and the input to S4 Rasterize:
// an ordered, visually-ordered sequence of positioned glyphs for one run,
// plus the metadata needed to rasterize and cache it (spec.md §3).
type ShapingResult struct {
	Glyphs      []PositionedGlyph
	Script      string
	Direction   Direction
	Text        string
	FontKey     FontKey
	PixelSize   float32
	Features    string // canonicalized feature fingerprint
	UnitsPerEm  int32
	Ascent      fixed.Int26_6
	Descent     fixed.Int26_6
	LineGap     fixed.Int26_6
	TotalAdvance fixed.Int26_6
	Warnings    []Warning
}

// GlyphSource names a representation a glyph may have in a font.
type GlyphSource int

const (
	SourceOutline GlyphSource = iota
	SourceCOLRv0
	SourceCOLRv1
	SourceSVG
	SourceSBIX
	SourceCBDT
)

func (s GlyphSource) String() string {
	switch s {
	case SourceCOLRv0:
		return "colr-v0"
	case SourceCOLRv1:
		return "colr-v1"
	case SourceSVG:
		return "svg"
	case SourceSBIX:
		return "sbix"
	case SourceCBDT:
		return "cbdt"
	default:
		return "outline"
	}
}

// AntiAliasing selects the coverage/blend strategy used when compositing
// a glyph bitmap onto the output raster (spec.md §4.4).
type AntiAliasing int

const (
	AANone AntiAliasing = iota
	AAGray
	AASubpixel
	AASupersampled
)

// RGBA is a straightforward 8-bit-per-channel, premultiplied-on-use color.
type RGBA struct {
	R, G, B, A uint8
}

// Transform is a 2D affine transform applied to glyph geometry before
// compositing.
type Transform struct {
	A, B, C, D, E, F float32
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Apply maps p through the affine transform, using f32.Point the same
// way the teacher's UI layer represents a 2D coordinate.
func (t Transform) Apply(p f32.Point) f32.Point {
	return f32.Point{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// RenderParams configures S4 Rasterize (spec.md §3, §6).
type RenderParams struct {
	PixelSize           float64
	DPI                 float64
	Foreground          RGBA
	Background          RGBA
	AntiAliasing        AntiAliasing
	Padding             int
	Transform           *Transform
	GlyphSourcePreference []GlyphSource
	ShapingCache        bool
	GlyphCache          bool
	SupersampleFactor   int
}

// DefaultRenderParams returns render parameters matching the defaults
// named in spec.md §6.
func DefaultRenderParams() RenderParams {
	return RenderParams{
		PixelSize:    16,
		DPI:          72,
		Foreground:   RGBA{0, 0, 0, 255},
		Background:   RGBA{0, 0, 0, 0},
		AntiAliasing: AAGray,
		Padding:      0,
		GlyphSourcePreference: []GlyphSource{
			SourceOutline, SourceCOLRv0, SourceCOLRv1, SourceSVG, SourceSBIX, SourceCBDT,
		},
		ShapingCache:      true,
		GlyphCache:        true,
		SupersampleFactor: 4,
	}
}

// PixelFormat names the layout of a GlyphBitmap's or Raster's pixels.
type PixelFormat int

const (
	FormatA8 PixelFormat = iota
	FormatRGBA8
	Format1Bit
	// FormatSubpixelMask carries independent per-channel coverage in R,
	// G and B (LCD subpixel antialiasing), rather than literal color;
	// compositeGlyph blends each channel against the destination
	// separately instead of treating the pixels as a premultiplied
	// color image.
	FormatSubpixelMask
)

// GlyphBitmap is a small raster for one glyph at one size, plus the
// bearings needed to composite it correctly (spec.md §3): placing the
// bitmap at (pen_x + BearingX, baseline_y - BearingY) yields correct
// visual placement.
type GlyphBitmap struct {
	Width, Height int
	Stride        int
	Format        PixelFormat
	Pixels        []byte
	BearingX      int
	BearingY      int
	Source        GlyphSource
}

// Path is a single filled outline, in output pixel coordinates, used by
// vector rasterizer backends and the SVG exporter.
type Path struct {
	// Verbs lists the path commands in order, and Points holds the
	// coordinates they consume, in the same order (Move/Line: 1 point,
	// Quad: 2 points, Cube: 3 points), matching the vocabulary of
	// opentype/api.Segment.
	Verbs  []PathVerb
	Points []fixed.Point26_6
	Fill   RGBA
}

type PathVerb uint8

const (
	VerbMove PathVerb = iota
	VerbLine
	VerbQuad
	VerbCube
	VerbClose
)

// Raster is a pixel buffer render output (spec.md §3).
type Raster struct {
	Width, Height int
	Stride        int
	Format        PixelFormat
	Pixels        []byte
	DPI           float64
	BaselineY     int
	BoundsMinX, BoundsMinY, BoundsMaxX, BoundsMaxY int
}

// RenderOutput is the result of S4 Rasterize: either a raster, a list of
// vector paths, or (for the shaping-data pseudo-rasterizer) nothing more
// than the originating shaping results, always carried for provenance
// (spec.md §3).
type RenderOutput struct {
	Raster  *Raster
	Paths   []Path
	Results []ShapingResult
	Font    *FontSpec
}
