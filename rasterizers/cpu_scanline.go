// SPDX-License-Identifier: Unlicense OR MIT

package rasterizers

import (
	"math"

	gofont "github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterRasterizer("cpu-scanline", CPUScanline{})
}

// CPUScanline is the default software rasterizer: it walks glyph
// outlines with golang.org/x/image/vector (the same scanline
// rasterizer gioui.org/raster uses for its own path filling) and
// composites the resulting coverage bitmaps using the metrics-first
// baseline contract of spec.md §4.4.
type CPUScanline struct{}

type positionedBitmap struct {
	bm             textshape.GlyphBitmap
	penX, penY     fixed.Int26_6
	colorOverride  *textshape.RGBA
}

// Render implements textshape.Rasterizer.
func (CPUScanline) Render(result textshape.ShapingResult, font *textshape.LoadedFont, params textshape.RenderParams, cache *textshape.GlyphCache) (textshape.RenderOutput, []textshape.Warning, error) {
	if font == nil {
		return textshape.RenderOutput{}, nil, textshape.NewError(textshape.StageRasterize, textshape.KindInputError, "nil font", nil)
	}
	upem := font.UnitsPerEm()
	if upem <= 0 {
		upem = 1000
	}
	scale := result.PixelSize / float32(upem)
	prefs := params.GlyphSourcePreference
	if len(prefs) == 0 {
		prefs = textshape.DefaultRenderParams().GlyphSourcePreference
	}

	supersampleFactor := params.SupersampleFactor
	targetSize := int(math.Ceil(float64(result.PixelSize)))

	var warnings []textshape.Warning
	positioned := make([]positionedBitmap, 0, len(result.Glyphs))
	var pen fixed.Int26_6
	for _, g := range result.Glyphs {
		penX := pen + g.OffsetX
		penY := g.OffsetY

		gid := gofont.GID(g.GID)
		resolved, ok, ws := glyphSourceFor(font, gid, prefs, true)
		warnings = append(warnings, ws...)
		if !ok {
			positioned = append(positioned, positionedBitmap{penX: penX, penY: penY})
			pen += g.AdvanceX
			continue
		}

		subpixelX, phaseX := subpixelPhase(penX)
		subpixelY, phaseY := subpixelPhase(penY)
		src := resolved.Source

		if src == textshape.SourceCOLRv0 || src == textshape.SourceCOLRv1 {
			for _, layer := range resolved.Layers {
				layerOutline, layerOK := font.GlyphOutline(layer.GID)
				if !layerOK {
					continue
				}
				bm := bitmapFor(cache, font.Key(), uint32(layer.GID), result.PixelSize, params.AntiAliasing, phaseX, phaseY, src,
					func() textshape.GlyphBitmap { return rasterizeOutlineBitmap(layerOutline, scale, subpixelX, subpixelY) })
				color := layer.Color
				positioned = append(positioned, positionedBitmap{bm: bm, penX: penX, penY: penY, colorOverride: &color})
			}
			pen += g.AdvanceX
			continue
		}

		if src == textshape.SourceSBIX || src == textshape.SourceCBDT {
			bm := bitmapFor(cache, font.Key(), uint32(g.GID), result.PixelSize, params.AntiAliasing, phaseX, phaseY, src,
				func() textshape.GlyphBitmap {
					decoded, decOK := rasterizeEmbeddedBitmap(resolved.Bitmap, targetSize, targetSize)
					if !decOK {
						return textshape.GlyphBitmap{}
					}
					return decoded
				})
			if bm.Width == 0 {
				warnings = append(warnings, textshape.Warning{
					Kind:    textshape.KindGlyphSourceUnavailable,
					Message: "embedded bitmap strike uses an unsupported format; substituting .notdef",
				})
				positioned = append(positioned, positionedBitmap{penX: penX, penY: penY})
				pen += g.AdvanceX
				continue
			}
			positioned = append(positioned, positionedBitmap{bm: bm, penX: penX, penY: penY})
			pen += g.AdvanceX
			continue
		}

		bm := bitmapFor(cache, font.Key(), uint32(g.GID), result.PixelSize, params.AntiAliasing, phaseX, phaseY, src,
			func() textshape.GlyphBitmap {
				return rasterizeGlyph(params.AntiAliasing, supersampleFactor, resolved.Outline, scale, subpixelX, subpixelY)
			})
		if params.AntiAliasing == textshape.AANone {
			thresholdBitmap(&bm)
		}
		positioned = append(positioned, positionedBitmap{bm: bm, penX: penX, penY: penY})
		pen += g.AdvanceX
	}

	raster := compositeRaster(positioned, result, params)
	return textshape.RenderOutput{Raster: &raster, Results: []textshape.ShapingResult{result}}, warnings, nil
}

func subpixelPhase(v fixed.Int26_6) (frac float32, phase int8) {
	f := v & 0x3f
	frac = float32(f) / 64
	phase = int8(f >> 4) // 1/4-pixel steps, per GlyphCacheKey's doc comment
	return
}

func bitmapFor(cache *textshape.GlyphCache, fontKey textshape.FontKey, gid uint32, pixelSize float32, mode textshape.AntiAliasing, phaseX, phaseY int8, src textshape.GlyphSource, compute func() textshape.GlyphBitmap) textshape.GlyphBitmap {
	if cache == nil {
		return compute()
	}
	key := textshape.GlyphCacheKey{
		FontKey: fontKey, GID: gid, PixelSize: pixelSize, RenderMode: mode,
		SubpixelPhaseX: phaseX, SubpixelPhaseY: phaseY, Source: src,
	}
	if bm, ok := cache.Get(key); ok {
		return bm
	}
	bm := compute()
	cache.Put(key, bm)
	return bm
}

func thresholdBitmap(bm *textshape.GlyphBitmap) {
	for i, v := range bm.Pixels {
		if v >= 128 {
			bm.Pixels[i] = 255
		} else {
			bm.Pixels[i] = 0
		}
	}
}

// compositeRaster implements spec.md §4.4 steps 1 and 3: determine the
// output raster size via the metrics-first-with-bounds-safety-net
// rule, then alpha-composite every positioned glyph bitmap onto it.
func compositeRaster(positioned []positionedBitmap, result textshape.ShapingResult, params textshape.RenderParams) textshape.Raster {
	padding := params.Padding
	ascent := ceilFixed(result.Ascent)
	descent := ceilFixed(result.Descent)
	top, bottom := ascent, descent
	maxRight := 0
	for _, p := range positioned {
		if p.bm.Width == 0 {
			continue
		}
		// How far this glyph's bitmap extends above/below its own
		// baseline, in the sense spec.md §4.4 step 1's "top"/"bottom"
		// bounds-safety-net terms use (baseline_y not yet known here).
		glyphTop := p.penY.Ceil() + p.bm.BearingY
		if glyphTop > top {
			top = glyphTop
		}
		glyphBottom := p.bm.Height - p.bm.BearingY - p.penY.Ceil()
		if glyphBottom > bottom {
			bottom = glyphBottom
		}
		right := p.penX.Ceil() + p.bm.BearingX + p.bm.Width
		if right > maxRight {
			maxRight = right
		}
	}
	totalAdvance := result.TotalAdvance.Ceil()
	width := totalAdvance
	if maxRight > width {
		width = maxRight
	}
	width += 2 * padding
	baselineY := padding + top
	height := top + bottom + 2*padding
	if width <= 0 {
		width = 2 * padding
	}
	if height <= 0 {
		height = ceilFixed(result.Ascent) + ceilFixed(result.Descent) + 2*padding
	}

	out := textshape.Raster{
		Width: width, Height: height, Stride: width * 4,
		Format: textshape.FormatRGBA8, Pixels: make([]byte, width*height*4),
		DPI: params.DPI, BaselineY: baselineY,
		BoundsMinX: padding, BoundsMinY: 0, BoundsMaxX: width - padding, BoundsMaxY: height,
	}
	fillBackground(&out, params.Background)

	for _, p := range positioned {
		if p.bm.Width == 0 {
			continue
		}
		originX := padding + p.penX.Ceil() + p.bm.BearingX
		originY := baselineY - p.penY.Ceil() - p.bm.BearingY
		fg := params.Foreground
		if p.colorOverride != nil {
			fg = *p.colorOverride
		}
		compositeGlyph(&out, p.bm, originX, originY, fg)
	}
	return out
}

func ceilFixed(v fixed.Int26_6) int {
	return v.Ceil()
}

func fillBackground(r *textshape.Raster, bg textshape.RGBA) {
	for i := 0; i < len(r.Pixels); i += 4 {
		r.Pixels[i+0] = bg.R
		r.Pixels[i+1] = bg.G
		r.Pixels[i+2] = bg.B
		r.Pixels[i+3] = bg.A
	}
}

// compositeGlyph alpha-blends one glyph bitmap onto the output raster
// at (originX, originY), clipping to the raster bounds (spec.md §4.4
// step 3). A8 coverage bitmaps (including COLR layers, whose tint is
// passed in as fg) are tinted with fg; FormatSubpixelMask bitmaps blend
// each channel separately with fg; RGBA8 bitmaps (decoded embedded
// bitmap strikes) are blended as-is.
func compositeGlyph(dst *textshape.Raster, bm textshape.GlyphBitmap, originX, originY int, fg textshape.RGBA) {
	for y := 0; y < bm.Height; y++ {
		dy := originY + y
		if dy < 0 || dy >= dst.Height {
			continue
		}
		for x := 0; x < bm.Width; x++ {
			dx := originX + x
			if dx < 0 || dx >= dst.Width {
				continue
			}
			di := dy*dst.Stride + dx*4
			if bm.Format == textshape.FormatSubpixelMask {
				// Each channel is its own coverage value; blend it
				// against the destination independently instead of
				// treating (covR,covG,covB) as a literal color, the way
				// LCD subpixel rendering composites per-subpixel.
				i := y*bm.Stride + x*4
				covR, covG, covB := uint32(bm.Pixels[i]), uint32(bm.Pixels[i+1]), uint32(bm.Pixels[i+2])
				if covR == 0 && covG == 0 && covB == 0 {
					continue
				}
				dr, dg, db, da := uint32(dst.Pixels[di]), uint32(dst.Pixels[di+1]), uint32(dst.Pixels[di+2]), uint32(dst.Pixels[di+3])
				ar := covR * uint32(fg.A) / 255
				ag := covG * uint32(fg.A) / 255
				ab := covB * uint32(fg.A) / 255
				dst.Pixels[di+0] = byte((uint32(fg.R)*ar + dr*(255-ar)) / 255)
				dst.Pixels[di+1] = byte((uint32(fg.G)*ag + dg*(255-ag)) / 255)
				dst.Pixels[di+2] = byte((uint32(fg.B)*ab + db*(255-ab)) / 255)
				maxA := ar
				if ag > maxA {
					maxA = ag
				}
				if ab > maxA {
					maxA = ab
				}
				dst.Pixels[di+3] = byte(maxA + da*(255-maxA)/255)
				continue
			}
			var sr, sg, sb, sa uint32
			switch bm.Format {
			case textshape.FormatRGBA8:
				i := y*bm.Stride + x*4
				sr, sg, sb, sa = uint32(bm.Pixels[i]), uint32(bm.Pixels[i+1]), uint32(bm.Pixels[i+2]), uint32(bm.Pixels[i+3])
			default: // FormatA8: coverage tinted by fg
				cov := uint32(bm.Pixels[y*bm.Stride+x])
				sr, sg, sb = uint32(fg.R), uint32(fg.G), uint32(fg.B)
				sa = cov * uint32(fg.A) / 255
			}
			if sa == 0 {
				continue
			}
			dr, dg, db, da := uint32(dst.Pixels[di]), uint32(dst.Pixels[di+1]), uint32(dst.Pixels[di+2]), uint32(dst.Pixels[di+3])
			inv := 255 - sa
			dst.Pixels[di+0] = byte((sr*sa + dr*inv) / 255)
			dst.Pixels[di+1] = byte((sg*sa + dg*inv) / 255)
			dst.Pixels[di+2] = byte((sb*sa + db*inv) / 255)
			dst.Pixels[di+3] = byte(sa + da*inv/255)
		}
	}
}
