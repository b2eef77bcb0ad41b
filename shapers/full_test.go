// SPDX-License-Identifier: Unlicense OR MIT

package shapers

import (
	"testing"
	"unicode/utf8"

	textshape "github.com/inkwell/textshape"
)

func TestFullShapeProducesGlyphs(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "Hello", Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 5}
	result, _, err := NewFull().Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	if len(result.Glyphs) == 0 {
		t.Fatal("expected at least one shaped glyph")
	}
	if result.TotalAdvance <= 0 {
		t.Fatal("TotalAdvance should be positive for non-empty visible text")
	}
	if result.FontKey != font.Key() {
		t.Fatalf("FontKey = %v, want %v", result.FontKey, font.Key())
	}
}

func TestFullShapeNilFont(t *testing.T) {
	run := textshape.Run{Text: "Hello"}
	_, _, err := NewFull().Shape(run, nil, 16, nil)
	if err == nil {
		t.Fatal("expected an error shaping against a nil font")
	}
}

func TestFullShapeClustersCoverEntireRun(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "Hi", Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 2}
	result, _, err := NewFull().Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	for _, g := range result.Glyphs {
		if g.Cluster < run.ByteStart || g.Cluster > run.ByteEnd {
			t.Fatalf("glyph cluster %d falls outside the run's byte range [%d,%d)", g.Cluster, run.ByteStart, run.ByteEnd)
		}
	}
}

// TestFullShapeClustersAreByteOffsetsNotRuneIndices exercises text where
// a multi-byte rune appears before the end of the run, so a cluster
// value that was mistakenly left as a rune index (rather than
// translated to a byte offset) lands mid-codepoint and fails the
// utf8.RuneStart check below.
func TestFullShapeClustersAreByteOffsetsNotRuneIndices(t *testing.T) {
	font := loadTestFont(t)
	text := "héllo"
	run := textshape.Run{Text: text, Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: len(text)}
	result, _, err := NewFull().Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	if len(result.Glyphs) == 0 {
		t.Fatal("expected at least one shaped glyph")
	}
	for _, g := range result.Glyphs {
		if g.Cluster == len(text) {
			continue
		}
		if !utf8.RuneStart(text[g.Cluster]) {
			t.Fatalf("glyph cluster %d does not fall on a rune boundary in %q; ClusterIndex was not translated from rune index to byte offset", g.Cluster, text)
		}
	}
}
