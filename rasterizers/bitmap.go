// SPDX-License-Identifier: Unlicense OR MIT

package rasterizers

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/go-text/typesetting/opentype/api"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/vector"

	textshape "github.com/inkwell/textshape"
)

// rasterizeOutlineBitmap renders a single monochrome outline at the
// given scale into an 8-bit coverage bitmap, returning bearings per
// spec.md §3's glyph-bitmap contract: bearing_x is the left edge
// relative to the glyph's own origin, bearing_y is the top edge above
// the baseline, both so that placing the bitmap at
// (pen_x+bearing_x, pen_y-bearing_y) composites correctly. subpixelX
// and subpixelY (each in [0,1)) shift the rasterization grid to
// implement subpixel-phase caching (spec.md §4.4's glyph-bitmap cache
// key).
func rasterizeOutlineBitmap(outline api.GlyphOutline, scale, subpixelX, subpixelY float32) textshape.GlyphBitmap {
	minX, minY, maxX, maxY := outlineBoundsPixels(outline, scale)
	if minX > maxX {
		return textshape.GlyphBitmap{}
	}
	minX = float32(math.Floor(float64(minX)))
	minY = float32(math.Floor(float64(minY)))
	width := int(math.Ceil(float64(maxX-minX))) + 1
	height := int(math.Ceil(float64(maxY-minY))) + 1
	if width <= 0 || height <= 0 {
		return textshape.GlyphBitmap{}
	}

	r := vector.NewRasterizer(width, height)
	walkOutline(outline, scale, -minX+subpixelX, -minY+subpixelY, r)

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return textshape.GlyphBitmap{
		Width:    width,
		Height:   height,
		Stride:   mask.Stride,
		Format:   textshape.FormatA8,
		Pixels:   mask.Pix,
		BearingX: int(math.Floor(float64(minX))),
		BearingY: int(math.Ceil(float64(-minY))),
		Source:   textshape.SourceOutline,
	}
}

// rasterizeGlyph dispatches a monochrome outline to the coverage
// strategy RenderParams.AntiAliasing names (spec.md §4.4): AANone and
// AAGray both rasterize once at the requested resolution (AANone's
// hard threshold is applied by the caller after caching), AASupersampled
// rasterizes at supersampleFactor times the linear resolution and
// downsamples, and AASubpixel splits three times the horizontal
// resolution across the R/G/B channels the way LCD subpixel rendering
// does.
func rasterizeGlyph(mode textshape.AntiAliasing, supersampleFactor int, outline api.GlyphOutline, scale, subpixelX, subpixelY float32) textshape.GlyphBitmap {
	switch mode {
	case textshape.AASupersampled:
		factor := supersampleFactor
		if factor <= 1 {
			factor = 4
		}
		return rasterizeOutlineBitmapSupersampled(outline, scale, subpixelX, subpixelY, factor)
	case textshape.AASubpixel:
		return rasterizeOutlineBitmapSubpixel(outline, scale, subpixelX, subpixelY)
	default:
		return rasterizeOutlineBitmap(outline, scale, subpixelX, subpixelY)
	}
}

// rasterizeOutlineBitmapSupersampled renders the outline at factor
// times the linear resolution, then downsamples with
// golang.org/x/image/draw's CatmullRom resampler, following the same
// "rasterize big, resample down" strategy the teacher's image pipeline
// (gioui-gio/text and the image decoders it composes) uses wherever it
// needs higher-quality resizing than nearest-neighbor.
func rasterizeOutlineBitmapSupersampled(outline api.GlyphOutline, scale, subpixelX, subpixelY float32, factor int) textshape.GlyphBitmap {
	hi := rasterizeOutlineBitmap(outline, scale*float32(factor), subpixelX*float32(factor), subpixelY*float32(factor))
	if hi.Width == 0 || factor <= 1 {
		return hi
	}
	downW := (hi.Width + factor - 1) / factor
	downH := (hi.Height + factor - 1) / factor
	if downW <= 0 || downH <= 0 {
		return hi
	}
	src := &image.Alpha{Pix: hi.Pixels, Stride: hi.Stride, Rect: image.Rect(0, 0, hi.Width, hi.Height)}
	dst := image.NewAlpha(image.Rect(0, 0, downW, downH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return textshape.GlyphBitmap{
		Width: downW, Height: downH, Stride: dst.Stride,
		Format:   textshape.FormatA8,
		Pixels:   dst.Pix,
		BearingX: hi.BearingX / factor,
		BearingY: hi.BearingY / factor,
		Source:   hi.Source,
	}
}

// rasterizeOutlineBitmapSubpixel renders the outline at 3x resolution,
// box-averages each group of three hi-res rows into one output row, and
// folds each run of three hi-res columns into one output pixel's R, G
// and B channels, the unfiltered three-subpixel
// layout LCD text rendering uses. The result is tagged FormatSubpixelMask
// so compositeGlyph blends each channel against the destination
// independently instead of treating it as literal color.
func rasterizeOutlineBitmapSubpixel(outline api.GlyphOutline, scale, subpixelX, subpixelY float32) textshape.GlyphBitmap {
	const factor = 3
	hi := rasterizeOutlineBitmap(outline, scale*factor, subpixelX*factor, subpixelY*factor)
	if hi.Width == 0 {
		return hi
	}
	width := (hi.Width + factor - 1) / factor
	if width <= 0 {
		width = 1
	}
	height := (hi.Height + factor - 1) / factor
	pix := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width*4 + x*4
			for k := 0; k < factor; k++ {
				sx := x*factor + k
				if sx >= hi.Width {
					continue
				}
				sum := 0
				for j := 0; j < factor; j++ {
					if sy := y*factor + j; sy < hi.Height {
						sum += int(hi.Pixels[sy*hi.Stride+sx])
					}
				}
				pix[i+k] = byte(sum / factor)
			}
			pix[i+3] = 255
		}
	}
	return textshape.GlyphBitmap{
		Width: width, Height: height, Stride: width * 4,
		Format:   textshape.FormatSubpixelMask,
		Pixels:   pix,
		BearingX: hi.BearingX / factor,
		BearingY: hi.BearingY / factor,
		Source:   hi.Source,
	}
}

// rasterizeEmbeddedBitmap decodes a sbix/CBDT embedded bitmap strike
// into an RGBA8 glyph bitmap scaled to (targetWidth, targetHeight),
// following the format support gioui-gio/text's shaperImpl.Bitmaps
// establishes: PNG, JPG and TIFF strikes decode via the stdlib/x-image
// codecs registered with image.Decode, api.BlackAndWhite and any other
// format are left unsupported exactly as that method's switch leaves
// them (it falls through to its "unknown format" case rather than
// decoding the packed-bitmap family itself).
func rasterizeEmbeddedBitmap(bm api.GlyphBitmap, targetWidth, targetHeight int) (textshape.GlyphBitmap, bool) {
	var img image.Image
	switch bm.Format {
	case api.PNG, api.JPG, api.TIFF:
		decoded, _, err := image.Decode(bytes.NewReader(bm.Data))
		if err != nil {
			return textshape.GlyphBitmap{}, false
		}
		img = decoded
	default:
		return textshape.GlyphBitmap{}, false
	}
	if targetWidth <= 0 || targetHeight <= 0 {
		b := img.Bounds()
		targetWidth, targetHeight = b.Dx(), b.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return textshape.GlyphBitmap{
		Width: targetWidth, Height: targetHeight, Stride: dst.Stride,
		Format:   textshape.FormatRGBA8,
		Pixels:   dst.Pix,
		BearingY: targetHeight,
	}, true
}

// outlineBoundsPixels returns the extrema of a glyph outline's points
// after scaling to output pixels and flipping from font-up to
// raster-down, i.e. in the coordinate frame where (0,0) is the glyph's
// own baseline origin and +y points down.
func outlineBoundsPixels(outline api.GlyphOutline, scale float32) (minX, minY, maxX, maxY float32) {
	minX, minY = float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY = float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, seg := range outline.Segments {
		n := 1
		if seg.Op == api.SegmentOpQuadTo {
			n = 2
		} else if seg.Op == api.SegmentOpCubeTo {
			n = 3
		}
		for _, a := range seg.Args[:n] {
			x := f26dot6ToFloat(a.X) * scale
			y := -f26dot6ToFloat(a.Y) * scale
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	return
}
