// SPDX-License-Identifier: Unlicense OR MIT

package rasterizers

import (
	gofont "github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterRasterizer("vector-high-quality", VectorPaths{})
	textshape.RegisterRasterizer("vector-alt", VectorPaths{})
}

// VectorPaths is a vector-output Rasterizer: instead of compositing
// coverage bitmaps onto a pixel buffer, it emits one filled Path per
// glyph in output coordinates (spec.md §3's RenderOutput.Paths), for
// callers that want resolution-independent output or feed the SVG
// exporter directly. It shares outline.go's segment-walking code with
// CPUScanline so both backends agree on glyph geometry. Supersampling
// and subpixel antialiasing are raster coverage concepts with nothing
// to apply to resolution-independent path output, so RenderParams.
// AntiAliasing and SupersampleFactor are ignored here; "vector-high-
// quality" and "vector-alt" both register the same zero-value
// VectorPaths and exist only to exercise the Builder's by-name backend
// selection with two names resolving to one configuration.
type VectorPaths struct{}

// Render implements textshape.Rasterizer.
func (v VectorPaths) Render(result textshape.ShapingResult, font *textshape.LoadedFont, params textshape.RenderParams, cache *textshape.GlyphCache) (textshape.RenderOutput, []textshape.Warning, error) {
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

	var warnings []textshape.Warning
	var paths []textshape.Path
	var pen fixed.Int26_6
	for _, g := range result.Glyphs {
		penX := pen + g.OffsetX
		penY := g.OffsetY
		originX := float32(penX) / 64
		originY := -float32(penY) / 64

		gid := gofont.GID(g.GID)
		resolved, ok, ws := glyphSourceFor(font, gid, prefs, false)
		warnings = append(warnings, ws...)
		if !ok {
			pen += g.AdvanceX
			continue
		}
		if resolved.Source == textshape.SourceCOLRv0 || resolved.Source == textshape.SourceCOLRv1 {
			for _, layer := range resolved.Layers {
				layerOutline, layerOK := font.GlyphOutline(layer.GID)
				if !layerOK {
					continue
				}
				paths = append(paths, outlinePaths(layerOutline, scale, originX, originY, params.Transform, layer.Color))
			}
		} else {
			paths = append(paths, outlinePaths(resolved.Outline, scale, originX, originY, params.Transform, params.Foreground))
		}
		pen += g.AdvanceX
	}

	return textshape.RenderOutput{Paths: paths, Results: []textshape.ShapingResult{result}}, warnings, nil
}
