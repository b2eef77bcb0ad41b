// SPDX-License-Identifier: Unlicense OR MIT

package rasterizers

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	textshape "github.com/inkwell/textshape"
	"github.com/inkwell/textshape/internal/fontstore"
	"github.com/inkwell/textshape/shapers"
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

func TestCPUScanlineRenderProducesNonEmptyRaster(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "Hi", Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 2}
	result, _, err := shapers.NewFull().Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	params := textshape.DefaultRenderParams()
	out, _, err := CPUScanline{}.Render(result, font, params, nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if out.Raster == nil {
		t.Fatal("Render returned a nil raster")
	}
	if out.Raster.Width <= 0 || out.Raster.Height <= 0 {
		t.Fatalf("raster dimensions %dx%d, want positive", out.Raster.Width, out.Raster.Height)
	}
	if len(out.Raster.Pixels) != out.Raster.Stride*out.Raster.Height {
		t.Fatalf("len(Pixels) = %d, want Stride*Height = %d", len(out.Raster.Pixels), out.Raster.Stride*out.Raster.Height)
	}
}

func TestCPUScanlineRenderNilFont(t *testing.T) {
	_, _, err := CPUScanline{}.Render(textshape.ShapingResult{}, nil, textshape.DefaultRenderParams(), nil)
	if err == nil {
		t.Fatal("expected an error rendering against a nil font")
	}
}

func TestCPUScanlineRenderBaselineWithinBounds(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "A", Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 1}
	result, _, err := shapers.NewFull().Shape(run, font, 32, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	out, _, err := CPUScanline{}.Render(result, font, textshape.DefaultRenderParams(), nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if out.Raster.BaselineY < 0 || out.Raster.BaselineY > out.Raster.Height {
		t.Fatalf("BaselineY = %d, out of raster bounds [0,%d]", out.Raster.BaselineY, out.Raster.Height)
	}
}

func TestCPUScanlineRenderAntiAliasingModesProduceNonEmptyCoverage(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "A", Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 1}
	result, _, err := shapers.NewFull().Shape(run, font, 32, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	modes := []textshape.AntiAliasing{textshape.AANone, textshape.AAGray, textshape.AASubpixel, textshape.AASupersampled}
	for _, mode := range modes {
		params := textshape.DefaultRenderParams()
		params.AntiAliasing = mode
		out, _, err := CPUScanline{}.Render(result, font, params, nil)
		if err != nil {
			t.Fatalf("Render error for mode %v: %v", mode, err)
		}
		if out.Raster == nil || out.Raster.Width <= 0 || out.Raster.Height <= 0 {
			t.Fatalf("mode %v produced an empty raster", mode)
		}
		nonZero := false
		for _, b := range out.Raster.Pixels {
			if b != 0 {
				nonZero = true
				break
			}
		}
		if !nonZero {
			t.Fatalf("mode %v produced an all-zero raster for non-empty visible text", mode)
		}
	}
}

func TestCPUScanlineRenderUsesGlyphCache(t *testing.T) {
	font := loadTestFont(t)
	run := textshape.Run{Text: "A", Script: "Latin", Language: "en", Direction: textshape.LTR, ByteStart: 0, ByteEnd: 1}
	result, _, err := shapers.NewFull().Shape(run, font, 16, nil)
	if err != nil {
		t.Fatalf("Shape error: %v", err)
	}
	cache := textshape.NewGlyphCache(1<<20, 256)
	first, _, err := CPUScanline{}.Render(result, font, textshape.DefaultRenderParams(), cache)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	second, _, err := CPUScanline{}.Render(result, font, textshape.DefaultRenderParams(), cache)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if first.Raster.Width != second.Raster.Width || first.Raster.Height != second.Raster.Height {
		t.Fatalf("rendering the same shaped result twice through a shared cache produced different dimensions: %dx%d vs %dx%d",
			first.Raster.Width, first.Raster.Height, second.Raster.Width, second.Raster.Height)
	}
}
