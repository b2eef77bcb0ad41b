// SPDX-License-Identifier: Unlicense OR MIT

package shapers

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	textshape "github.com/inkwell/textshape"
	"github.com/inkwell/textshape/internal/fontstore"
)

func loadTestFont(t *testing.T) *textshape.LoadedFont {
	t.Helper()
	store := fontstore.NewStore(8, 8<<20)
	store.RegisterFamilyBytes("Go Regular", goregular.TTF)
	lf, err := textshape.LoadFontWith(store, textshape.FontSpec{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("LoadFontWith error: %v", err)
	}
	return lf
}

func TestIdentityShapeOneGlyphPerRune(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "Hi", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 2}
	result, _, err := Identity{}.Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	if len(result.Glyphs) != 2 {
		t.Fatalf("len(Glyphs) = %d, want 2", len(result.Glyphs))
	}
	if result.TotalAdvance <= 0 {
		t.Fatal("TotalAdvance should be positive for non-empty visible text")
	}
}

func TestIdentityShapeNilFont(t *testing.T) {
	run := textshape.Run{Text: "Hi"}
	_, _, err := Identity{}.Shape(run, nil, 16, nil)
	if err == nil {
		t.Fatal("expected an error shaping against a nil font")
	}
}

func TestIdentityShapeMissingGlyphWarns(t *testing.T) {
	font := loadTestFont(t)
	// U+FFFF is guaranteed not to be a valid assigned character, and Go
	// Regular has no cmap entry for it.
	run := textshape.Run{Text: "￿", Direction: textshape.LTR}
	_, warnings, err := Identity{}.Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	found := false
	for _, w := range warnings {
		if w.Kind == textshape.KindMissingGlyph {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a KindMissingGlyph warning for an unmapped codepoint")
	}
}

func TestIdentityShapeRTLReversesGlyphOrder(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "AB", Direction: textshape.RTL}
	result, _, err := Identity{}.Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	if len(result.Glyphs) != 2 {
		t.Fatalf("len(Glyphs) = %d, want 2", len(result.Glyphs))
	}
	gidB, _ := font.NominalGlyph('B')
	if result.Glyphs[0].GID != uint32(gidB) {
		t.Fatalf("first glyph GID = %d, want the glyph for 'B' (%d) first in RTL visual order", result.Glyphs[0].GID, gidB)
	}
}
