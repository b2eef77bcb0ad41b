// SPDX-License-Identifier: Unlicense OR MIT

package exporters

import (
	"strings"
	"testing"

	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func trianglePath() textshape.Path {
	return textshape.Path{
		Verbs: []textshape.PathVerb{textshape.VerbMove, textshape.VerbLine, textshape.VerbLine, textshape.VerbClose},
		Points: []fixed.Point26_6{
			{X: fixed.I(0), Y: fixed.I(0)},
			{X: fixed.I(10), Y: fixed.I(0)},
			{X: fixed.I(5), Y: fixed.I(10)},
		},
		Fill: textshape.RGBA{R: 255, A: 255},
	}
}

func TestSVGExportFromPaths(t *testing.T) {
	data, err := SVG{}.Export(textshape.RenderOutput{Paths: []textshape.Path{trianglePath()}}, textshape.ExportOptions{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "<path") {
		t.Fatalf("exported SVG missing expected elements: %s", s)
	}
	if !strings.Contains(s, "M0,0") {
		t.Fatalf("exported SVG path data missing the initial moveto: %s", s)
	}
}

func TestSVGExportRasterWithoutEmbedOptIn(t *testing.T) {
	r := smallRaster()
	_, err := SVG{}.Export(textshape.RenderOutput{Raster: r}, textshape.ExportOptions{})
	if err == nil {
		t.Fatal("expected an error exporting a raster-only output without EmbedRasterInSVG")
	}
}

func TestSVGExportRasterWithEmbedOptIn(t *testing.T) {
	r := smallRaster()
	data, err := SVG{}.Export(textshape.RenderOutput{Raster: r}, textshape.ExportOptions{EmbedRasterInSVG: true})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if !strings.Contains(string(data), "data:image/png;base64,") {
		t.Fatal("expected an embedded base64 PNG <image> element")
	}
}

func TestSVGExportEmptyOutput(t *testing.T) {
	if _, err := (SVG{}).Export(textshape.RenderOutput{}, textshape.ExportOptions{}); err == nil {
		t.Fatal("expected an error exporting a render output with neither paths nor a raster")
	}
}
