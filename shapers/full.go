// SPDX-License-Identifier: Unlicense OR MIT

package shapers

import (
	"encoding/binary"
	"sync"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/opentype/api"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterShaper("full", NewFull())
}

// Full wraps shaping.HarfbuzzShaper, the complete OpenType-rules shaping
// engine (GSUB/GPOS, script-specific shaping plans, bidi-aware glyph
// reordering), following the use of shaping.HarfbuzzShaper as the
// production shaping backend. A run entering Full is assumed to already
// be itemized to one script, direction and language (the Unicode
// itemization stage's job); Full performs the additional
// font-glyph-coverage split the full shaper still requires, since a
// single run may need glyphs the primary face does not cover.
type Full struct {
	mu     sync.Mutex
	shaper shaping.HarfbuzzShaper
}

// NewFull constructs a Full shaper. Each Full owns its own
// shaping.HarfbuzzShaper instance, which is not safe for concurrent use
// on its own; Full guards it with a mutex, so concurrent Shape calls on
// one instance (including the package-level registered default) are
// safe and run the engine one at a time.
func NewFull() *Full {
	return &Full{}
}

// Shape implements textshape.Shaper.
func (f *Full) Shape(run textshape.Run, font *textshape.LoadedFont, pixelSize float64, features []textshape.FeatureSetting) (textshape.ShapingResult, []textshape.Warning, error) {
	if font == nil {
		return textshape.ShapingResult{}, nil, textshape.NewError(textshape.StageShape, textshape.KindInputError, "nil font", nil)
	}
	runes := []rune(run.Text)
	// shaping.Glyph.ClusterIndex is a rune index into runes, not a byte
	// offset into run.Text, so it must be translated through a rune ->
	// byte table before being combined with run.ByteStart; see
	// runeByteOffsets below.
	byteOffsets := runeByteOffsets(run.Text, len(runes))
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(run.Direction),
		Face:      font.Face(),
		Size:      fixed.I(int(pixelSize)),
		Script:    scriptOf(run.Text),
		Language:  language.NewLanguage(run.Language),
	}
	if len(features) > 0 {
		input.FontFeatures = toFontFeatures(features)
	}

	var warnings []textshape.Warning
	splitInputs := shaping.SplitByFontGlyphs(input, []gofont.Face{font.Face()})
	if len(splitInputs) == 0 {
		splitInputs = []shaping.Input{input}
	}
	if len(splitInputs) > 1 {
		warnings = append(warnings, textshape.Warning{
			Kind:    textshape.KindMissingGlyph,
			Message: "run required a glyph-coverage split; some codepoints may use fallback behavior",
		})
	}

	glyphs := make([]textshape.PositionedGlyph, 0, len(runes))
	var totalAdvance fixed.Int26_6
	var ascent, descent, lineGap fixed.Int26_6
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range splitInputs {
		out := f.shaper.Shape(in)
		for _, g := range out.Glyphs {
			glyphs = append(glyphs, textshape.PositionedGlyph{
				GID:       uint32(g.GlyphID),
				AdvanceX:  g.XAdvance,
				AdvanceY:  g.YAdvance,
				OffsetX:   g.XOffset,
				OffsetY:   g.YOffset,
				Cluster:   run.ByteStart + byteOffsets[g.ClusterIndex],
				RuneCount: g.RuneCount,
			})
		}
		totalAdvance += out.Advance
		if out.LineBounds.Ascent > ascent {
			ascent = out.LineBounds.Ascent
		}
		if -out.LineBounds.Descent+out.LineBounds.Gap > descent+lineGap {
			descent = -out.LineBounds.Descent
			lineGap = out.LineBounds.Gap
		}
	}

	return textshape.ShapingResult{
		Glyphs:       glyphs,
		Script:       run.Script,
		Direction:    run.Direction,
		Text:         run.Text,
		FontKey:      font.Key(),
		PixelSize:    float32(pixelSize),
		UnitsPerEm:   font.UnitsPerEm(),
		Ascent:       ascent,
		Descent:      descent,
		LineGap:      lineGap,
		TotalAdvance: totalAdvance,
		Warnings:     warnings,
	}, warnings, nil
}

// runeByteOffsets returns a table of length nrunes+1 mapping each rune
// index in text to its byte offset, with the final entry holding
// len(text) so an out-of-range cluster index (the shaper's end-of-run
// marker) still resolves to a valid offset instead of panicking.
func runeByteOffsets(text string, nrunes int) []int {
	offsets := make([]int, 0, nrunes+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	return offsets
}

func mapDirection(d textshape.Direction) di.Direction {
	switch d {
	case textshape.RTL:
		return di.DirectionRTL
	case textshape.TTB:
		return di.DirectionTTB
	default:
		return di.DirectionLTR
	}
}

// scriptOf re-derives the typesetting library's language.Script for a
// run's text the same way the itemizer classified it originally
// (language.LookupScript on its first rune), rather than round-tripping
// through the run's human-readable Script string: this module's Run
// type carries Script as a display string, but shaping.Input wants the
// library's own Script value.
func scriptOf(text string) language.Script {
	for _, r := range text {
		return language.LookupScript(r)
	}
	return language.Common
}

// toFontFeatures converts the tag/value feature settings of this
// module's data contract into the typesetting library's feature list.
// OpenType feature tags are conventionally their four ASCII bytes
// packed big-endian into a uint32, the same representation
// opentype/api.Tag uses.
func toFontFeatures(features []textshape.FeatureSetting) []shaping.FontFeature {
	out := make([]shaping.FontFeature, 0, len(features))
	for _, f := range features {
		out = append(out, shaping.FontFeature{
			Tag:   api.Tag(binary.BigEndian.Uint32(f.Tag[:])),
			Value: f.Value,
		})
	}
	return out
}
