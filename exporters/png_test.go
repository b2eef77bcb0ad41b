// SPDX-License-Identifier: Unlicense OR MIT

package exporters

import (
	"bytes"
	"image/png"
	"testing"

	textshape "github.com/inkwell/textshape"
)

func smallRaster() *textshape.Raster {
	w, h := 4, 3
	return &textshape.Raster{
		Width: w, Height: h, Stride: w * 4, Format: textshape.FormatRGBA8,
		Pixels: bytes.Repeat([]byte{10, 20, 30, 255}, w*h),
	}
}

func TestPNGExportRoundTripsDimensions(t *testing.T) {
	r := smallRaster()
	data, err := PNG{}.Export(textshape.RenderOutput{Raster: r}, textshape.ExportOptions{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding exported PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != r.Width || b.Dy() != r.Height {
		t.Fatalf("decoded PNG dimensions %dx%d, want %dx%d", b.Dx(), b.Dy(), r.Width, r.Height)
	}
}

func TestPNGExportRequiresRaster(t *testing.T) {
	if _, err := (PNG{}).Export(textshape.RenderOutput{}, textshape.ExportOptions{}); err == nil {
		t.Fatal("expected an error exporting a render output with no raster")
	}
}

func TestPNGSupportsFormat(t *testing.T) {
	if !(PNG{}).SupportsFormat("png") {
		t.Fatal("PNG should support format \"png\"")
	}
	if (PNG{}).SupportsFormat("svg") {
		t.Fatal("PNG should not support format \"svg\"")
	}
}
