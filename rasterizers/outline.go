// SPDX-License-Identifier: Unlicense OR MIT

// Package rasterizers provides the built-in Rasterizer backends, each
// registering itself with the root package under a fixed name.
package rasterizers

import (
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/opentype/api"

	textshape "github.com/inkwell/textshape"
	"github.com/inkwell/textshape/f32"
)

// walkOutline replays a glyph outline's segments into a vector
// rasterizer, scaled from font units to output pixels and biased so
// that the outline's own origin lands at (originX, originY). It
// mirrors the segment-walking loop common to Go's outline rasterizers
// (golang.org/x/image/font's sfnt.Segment walk: MoveTo starts a new
// contour, LineTo/QuadTo/CubeTo extend it), adapted to
// go-text/typesetting's api.GlyphOutline representation, whose
// Segment shares the same Op/Args[3]fixed.Point26_6 vocabulary.
func walkOutline(outline api.GlyphOutline, scale float32, originX, originY float32, r *vector.Rasterizer) {
	for _, seg := range outline.Segments {
		switch seg.Op {
		case api.SegmentOpMoveTo:
			r.MoveTo(originX+f26dot6ToFloat(seg.Args[0].X)*scale, originY-f26dot6ToFloat(seg.Args[0].Y)*scale)
		case api.SegmentOpLineTo:
			r.LineTo(originX+f26dot6ToFloat(seg.Args[0].X)*scale, originY-f26dot6ToFloat(seg.Args[0].Y)*scale)
		case api.SegmentOpQuadTo:
			r.QuadTo(
				originX+f26dot6ToFloat(seg.Args[0].X)*scale, originY-f26dot6ToFloat(seg.Args[0].Y)*scale,
				originX+f26dot6ToFloat(seg.Args[1].X)*scale, originY-f26dot6ToFloat(seg.Args[1].Y)*scale,
			)
		case api.SegmentOpCubeTo:
			r.CubeTo(
				originX+f26dot6ToFloat(seg.Args[0].X)*scale, originY-f26dot6ToFloat(seg.Args[0].Y)*scale,
				originX+f26dot6ToFloat(seg.Args[1].X)*scale, originY-f26dot6ToFloat(seg.Args[1].Y)*scale,
				originX+f26dot6ToFloat(seg.Args[2].X)*scale, originY-f26dot6ToFloat(seg.Args[2].Y)*scale,
			)
		}
	}
}

func f26dot6ToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }

// outlinePaths converts a glyph outline directly into this module's Path
// value, in output pixel coordinates, for vector-output backends and
// the SVG exporter. Y is flipped from font-up to raster-down the same
// way walkOutline biases the rasterizer. xform, if non-nil, applies
// RenderParams.Transform to the projected geometry (spec.md §3's
// "Transform applied to glyph geometry before compositing"); the
// pixel-bitmap backends don't support this, since CPUScanline
// precomputes an axis-aligned raster size from untransformed bounds.
func outlinePaths(outline api.GlyphOutline, scale float32, originX, originY float32, xform *textshape.Transform, fill textshape.RGBA) textshape.Path {
	p := textshape.Path{Fill: fill}
	project := func(pt fixed.Point26_6) fixed.Point26_6 {
		x := originX + f26dot6ToFloat(pt.X)*scale
		y := originY - f26dot6ToFloat(pt.Y)*scale
		if xform != nil {
			tp := xform.Apply(f32.Point{X: x, Y: y})
			x, y = tp.X, tp.Y
		}
		return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	}
	for _, seg := range outline.Segments {
		switch seg.Op {
		case api.SegmentOpMoveTo:
			p.Verbs = append(p.Verbs, textshape.VerbMove)
			p.Points = append(p.Points, project(seg.Args[0]))
		case api.SegmentOpLineTo:
			p.Verbs = append(p.Verbs, textshape.VerbLine)
			p.Points = append(p.Points, project(seg.Args[0]))
		case api.SegmentOpQuadTo:
			p.Verbs = append(p.Verbs, textshape.VerbQuad)
			p.Points = append(p.Points, project(seg.Args[0]), project(seg.Args[1]))
		case api.SegmentOpCubeTo:
			p.Verbs = append(p.Verbs, textshape.VerbCube)
			p.Points = append(p.Points, project(seg.Args[0]), project(seg.Args[1]), project(seg.Args[2]))
		}
	}
	return p
}

// resolvedGlyphSource is the outcome of walking a glyph's source
// preference list: the representation actually selected and whichever
// payload goes with it. Exactly one of Outline, Layers or Bitmap is
// meaningful, chosen by Source.
type resolvedGlyphSource struct {
	Source    textshape.GlyphSource
	Outline   api.GlyphOutline
	Layers    []textshape.ColorLayer
	Bitmap    api.GlyphBitmap
	HasBitmap bool
}

// glyphSourceFor resolves the glyph-source preference list against one
// glyph (spec.md §4.5): walk the list in order, accept the first
// source actually present on the font, falling back to a monochrome
// outline, and finally to a warning-carrying .notdef if nothing
// decodable is available. SourceSVG is represented through the
// monochrome outline fallback every SVG-in-OpenType glyph carries
// alongside its document, the same fallback used by
// ebiten's text/v2 go-text glyph source instead of parsing the SVG
// itself (data.Outline.Segments): this package carries no SVG parser.
// allowBitmap lets a caller that cannot represent a raster bitmap
// (VectorPaths) refuse SourceSBIX/SourceCBDT during selection rather
// than silently producing blank output, per spec.md §4.5.
func glyphSourceFor(font *textshape.LoadedFont, gid gofont.GID, prefs []textshape.GlyphSource, allowBitmap bool) (resolvedGlyphSource, bool, []textshape.Warning) {
	for _, src := range prefs {
		switch src {
		case textshape.SourceCOLRv0, textshape.SourceCOLRv1:
			if layers, ok := font.GlyphColorLayers(gid); ok && len(layers) > 0 {
				return resolvedGlyphSource{Source: src, Layers: layers}, true, nil
			}
		case textshape.SourceSVG:
			if outline, ok := font.GlyphSVGOutline(gid); ok {
				return resolvedGlyphSource{Source: textshape.SourceSVG, Outline: outline}, true, nil
			}
		case textshape.SourceSBIX, textshape.SourceCBDT:
			if !allowBitmap {
				continue
			}
			if bm, ok := font.GlyphBitmapData(gid); ok {
				return resolvedGlyphSource{Source: src, Bitmap: bm, HasBitmap: true}, true, nil
			}
		case textshape.SourceOutline:
			if outline, ok := font.GlyphOutline(gid); ok {
				return resolvedGlyphSource{Source: textshape.SourceOutline, Outline: outline}, true, nil
			}
		}
	}
	if outline, ok := font.GlyphOutline(gid); ok {
		return resolvedGlyphSource{Source: textshape.SourceOutline, Outline: outline}, true, nil
	}
	return resolvedGlyphSource{}, false, []textshape.Warning{{
		Kind:    textshape.KindGlyphSourceUnavailable,
		Message: "no decodable glyph source available; substituting .notdef",
	}}
}
