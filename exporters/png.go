// SPDX-License-Identifier: Unlicense OR MIT

// Package exporters provides the built-in Exporter backends, each
// registering itself with the root package under a fixed name.
package exporters

import (
	"bytes"
	"image"
	"image/png"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterExporter("png", PNG{})
}

// PNG encodes a raster render output with image/png, the same encoder
// gioui.org/gpu/headless uses to dump frames to disk in its own tests.
// image/png writes no pHYs chunk, so the encoded file carries no DPI
// metadata: Raster.DPI is not written anywhere in the output.
type PNG struct{}

// SupportsFormat implements textshape.Exporter.
func (PNG) SupportsFormat(format string) bool { return format == "png" }

// Export implements textshape.Exporter.
func (PNG) Export(output textshape.RenderOutput, options textshape.ExportOptions) ([]byte, error) {
	if output.Raster == nil {
		return nil, textshape.NewError(textshape.StageExport, textshape.KindUnsupportedFormat, "png exporter requires a raster render output", nil)
	}
	img := rasterToRGBA(output.Raster)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, textshape.NewError(textshape.StageExport, textshape.KindInternal, "encode png", err)
	}
	return buf.Bytes(), nil
}

// rasterToRGBA adapts this module's Raster (tight RGBA8 byte buffer)
// to the standard library's image.RGBA for reuse of image/png and
// image/draw.
func rasterToRGBA(r *textshape.Raster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	if r.Format == textshape.FormatRGBA8 && r.Stride == r.Width*4 {
		copy(img.Pix, r.Pixels)
		return img
	}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := y*r.Stride + x*4
			j := img.PixOffset(x, y)
			if i+4 <= len(r.Pixels) {
				copy(img.Pix[j:j+4], r.Pixels[i:i+4])
			}
		}
	}
	return img
}
