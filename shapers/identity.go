// SPDX-License-Identifier: Unlicense OR MIT

// Package shapers provides the built-in Shaper backends, each
// registering itself with the root package under a fixed name so that
// a caller can select one by string without this package importing
// back into it.
package shapers

import (
	gofont "github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterShaper("identity", Identity{})
}

// Identity is the simplest possible Shaper: one glyph per codepoint, no
// ligatures, no reordering, no kerning, advance taken straight from the
// font's cmap-and-hmtx lookup. It is grounded in the one-rune-per-glyph
// loop of a trivial/primitive shaper: walk the runes of a run, map each
// through the font's cmap, and accumulate advances left to right
// (right to left for RTL runs, by reversing the rune walk). It exists
// for callers who need predictable, engine-independent output or who
// are shaping a script the full shaper doesn't need complex rules for.
type Identity struct{}

// Shape implements textshape.Shaper.
func (Identity) Shape(run textshape.Run, font *textshape.LoadedFont, pixelSize float64, features []textshape.FeatureSetting) (textshape.ShapingResult, []textshape.Warning, error) {
	if font == nil {
		return textshape.ShapingResult{}, nil, textshape.NewError(textshape.StageShape, textshape.KindInputError, "nil font", nil)
	}
	runes := []rune(run.Text)
	if run.Direction == textshape.RTL {
		reverse(runes)
	}

	upem := font.UnitsPerEm()
	if upem <= 0 {
		upem = 1000
	}
	scale := float32(pixelSize) / float32(upem)

	glyphs := make([]textshape.PositionedGlyph, 0, len(runes))
	var warnings []textshape.Warning
	var pen fixed.Int26_6
	// Clusters are the byte offsets of each rune in the input; an RTL walk
	// visits the runes last to first, so it counts down from the run end.
	byteOffset := run.ByteStart
	if run.Direction == textshape.RTL {
		byteOffset += len(run.Text)
	}
	for _, r := range runes {
		if run.Direction == textshape.RTL {
			byteOffset -= runeByteLen(r)
		}
		gid, ok := font.NominalGlyph(r)
		var advanceUnits float32
		if !ok {
			warnings = append(warnings, textshape.Warning{
				Kind:    textshape.KindMissingGlyph,
				Message: "no cmap entry; substituting .notdef",
			})
			gid = 0
		} else {
			advanceUnits = font.Advance(gofont.GID(gid))
		}
		advance := fixed.Int26_6(advanceUnits * scale * 64)
		glyphs = append(glyphs, textshape.PositionedGlyph{
			GID:       uint32(gid),
			AdvanceX:  advance,
			Cluster:   byteOffset,
			RuneCount: 1,
		})
		pen += advance
		if run.Direction != textshape.RTL {
			byteOffset += runeByteLen(r)
		}
	}

	ascentUnits, descentUnits, gapUnits := font.LineMetrics()
	result := textshape.ShapingResult{
		Glyphs:       glyphs,
		Script:       run.Script,
		Direction:    run.Direction,
		Text:         run.Text,
		FontKey:      font.Key(),
		PixelSize:    float32(pixelSize),
		UnitsPerEm:   upem,
		Ascent:       fixed.Int26_6(ascentUnits * scale * 64),
		Descent:      fixed.Int26_6(descentUnits * scale * 64),
		LineGap:      fixed.Int26_6(gapUnits * scale * 64),
		TotalAdvance: pen,
		Warnings:     warnings,
	}
	return result, warnings, nil
}

func reverse(rs []rune) {
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
}

func runeByteLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
