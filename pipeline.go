// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"golang.org/x/image/math/fixed"

	"github.com/inkwell/textshape/internal/fontstore"
	"github.com/inkwell/textshape/unit"
)

// Builder configures a Pipeline (spec.md §4.7, §9's "explicit, injected
// context" guidance): which named shaper, rasterizer and exporter to
// use, which font store and caches to share across calls, and the
// default render/export parameters. Build falls back to the package-wide
// store when none is injected; the backends and render parameters come
// from NewBuilder (full/cpu-scanline/png and DefaultRenderParams), and a
// zero Builder selects no backends at all.
type Builder struct {
	store          *fontstore.Store
	shapeCache     *ShapeCache
	glyphCache     *GlyphCache
	shaperName     string
	rasterizerName string
	exporterName   string
	renderParams   RenderParams
	itemizeHints   ItemizeHints
}

// NewBuilder returns a Builder preconfigured with this module's default
// backends and cache sizes (spec.md §6).
func NewBuilder() *Builder {
	return &Builder{
		shaperName:     "full",
		rasterizerName: "cpu-scanline",
		exporterName:   "png",
		renderParams:   DefaultRenderParams(),
	}
}

// WithStore injects an explicit font store instead of the package
// default.
func (b *Builder) WithStore(store *fontstore.Store) *Builder {
	b.store = store
	return b
}

// WithShapeCache attaches a shaping-result cache. An attached cache is
// used even when RenderParams.ShapingCache is false; with nil, Build
// allocates a default cache if RenderParams.ShapingCache is true.
func (b *Builder) WithShapeCache(c *ShapeCache) *Builder {
	b.shapeCache = c
	return b
}

// WithGlyphCache attaches a glyph-bitmap cache. An attached cache is
// used even when RenderParams.GlyphCache is false; with nil, Build
// allocates a default cache if RenderParams.GlyphCache is true.
func (b *Builder) WithGlyphCache(c *GlyphCache) *Builder {
	b.glyphCache = c
	return b
}

// WithShaper selects the named Shaper backend (spec.md §6's closed set:
// identity, full, unicode-preprocessing, platform-A, platform-B, or any
// name registered via RegisterShaper).
func (b *Builder) WithShaper(name string) *Builder {
	b.shaperName = name
	return b
}

// WithRasterizer selects the named Rasterizer backend.
func (b *Builder) WithRasterizer(name string) *Builder {
	b.rasterizerName = name
	return b
}

// WithExporter selects the named Exporter backend.
func (b *Builder) WithExporter(name string) *Builder {
	b.exporterName = name
	return b
}

// WithRenderParams overrides the default render parameters.
func (b *Builder) WithRenderParams(p RenderParams) *Builder {
	b.renderParams = p
	return b
}

// WithItemizeHints overrides the default (empty) itemization hints.
func (b *Builder) WithItemizeHints(h ItemizeHints) *Builder {
	b.itemizeHints = h
	return b
}

// Build finalizes the configuration into a Pipeline, using the default
// font store when none was injected and allocating a cache for each one
// that wasn't explicitly attached and whose RenderParams toggle is on.
func (b *Builder) Build() *Pipeline {
	store := b.store
	if store == nil {
		store = DefaultStore()
	}
	shapeCache := b.shapeCache
	if shapeCache == nil && b.renderParams.ShapingCache {
		shapeCache = NewShapeCache(4096)
	}
	glyphCache := b.glyphCache
	if glyphCache == nil && b.renderParams.GlyphCache {
		glyphCache = NewGlyphCache(64<<20, 8192)
	}
	return &Pipeline{
		store:          store,
		shapeCache:     shapeCache,
		glyphCache:     glyphCache,
		shaperName:     b.shaperName,
		rasterizerName: b.rasterizerName,
		exporterName:   b.exporterName,
		renderParams:   b.renderParams,
		itemizeHints:   b.itemizeHints,
	}
}

// Pipeline runs the full S1-S5 control flow of spec.md §4.7 against a
// fixed backend selection and cache set. A Pipeline is safe for
// concurrent use: every field it holds (store, ShapeCache, GlyphCache,
// registered backends) is itself concurrency-safe.
type Pipeline struct {
	store          *fontstore.Store
	shapeCache     *ShapeCache
	glyphCache     *GlyphCache
	shaperName     string
	rasterizerName string
	exporterName   string
	renderParams   RenderParams
	itemizeHints   ItemizeHints
}

// Process runs S1 Itemize, S2 Resolve, S3 Shape, S4 Rasterize and S5
// Export against text with a single font, producing the final encoded
// bytes (spec.md §4.7). Multiple itemized runs are composited
// left-to-right onto one shared baseline, in logical run order; callers
// that need explicit run-level control (mixed fonts, independent
// placement) should call Itemize, ShapeWith, RenderWith and ExportWith
// directly instead.
func (p *Pipeline) Process(text string, spec FontSpec, exportFormat string) ([]byte, []Warning, error) {
	font, err := LoadFontWith(p.store, spec)
	if err != nil {
		return nil, nil, err
	}

	runs, err := Itemize(text, p.itemizeHints)
	if err != nil {
		return nil, nil, err
	}

	renderParams := p.renderParams
	if renderParams.PixelSize <= 0 && spec.Size > 0 {
		// FontSpec.Size is in typographic points (spec.md §3); resolve it
		// to device pixels at the configured DPI rather than leaving it
		// unused, since RenderParams.PixelSize is what every downstream
		// stage actually consumes.
		renderParams.PixelSize = float64(unit.Metric{DPI: renderParams.DPI}.Px(unit.Pt(float32(spec.Size))))
	}

	var warnings []Warning
	var outputs []RenderOutput
	var results []ShapingResult

	if fused, ok := lookupFusedRasterizer(p.rasterizerName); ok {
		for _, run := range runs {
			out, ws, err := fused.FusedRender(run, font, renderParams)
			warnings = append(warnings, ws...)
			if err != nil {
				return nil, warnings, err
			}
			outputs = append(outputs, out)
		}
	} else {
		for _, run := range runs {
			result, ws, err := ShapeWith(p.shaperName, p.shapeCache, run, font, renderParams.PixelSize, spec.Features)
			warnings = append(warnings, ws...)
			if err != nil {
				return nil, warnings, err
			}
			results = append(results, result)

			out, ws, err := RenderWith(p.rasterizerName, p.glyphCache, result, font, renderParams)
			warnings = append(warnings, ws...)
			if err != nil {
				return nil, warnings, err
			}
			outputs = append(outputs, out)
		}
	}

	merged, err := mergeOutputs(outputs, renderParams)
	if err != nil {
		return nil, warnings, err
	}
	if len(results) > 0 {
		merged.Results = results
	}
	specCopy := spec
	merged.Font = &specCopy

	encoded, err := ExportWith(p.exporterName, merged, ExportOptions{Format: exportFormat})
	if err != nil {
		return nil, warnings, err
	}
	return encoded, warnings, nil
}

func lookupFusedRasterizer(name string) (FusedShaperRasterizer, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := rasterizerRegistry[name]
	if !ok {
		return nil, false
	}
	fused, ok := r.(FusedShaperRasterizer)
	return fused, ok
}

// mergeOutputs concatenates per-run render outputs along the writing
// direction onto one shared baseline (spec.md §4.7's multi-run
// composition): rasters are placed side by side at a common baseline_y,
// vector paths are translated by the accumulated run width, and
// shaping-data outputs simply pool their Results.
func mergeOutputs(outputs []RenderOutput, params RenderParams) (RenderOutput, error) {
	if len(outputs) == 0 {
		return RenderOutput{}, NewError(StagePipeline, KindInputError, "no runs to render", nil)
	}
	if len(outputs) == 1 {
		return outputs[0], nil
	}
	switch {
	case outputs[0].Raster != nil:
		return mergeRasters(outputs, params)
	case len(outputs[0].Paths) > 0:
		return mergePaths(outputs), nil
	default:
		var merged RenderOutput
		for _, o := range outputs {
			merged.Results = append(merged.Results, o.Results...)
		}
		return merged, nil
	}
}

func mergePaths(outputs []RenderOutput) RenderOutput {
	var merged RenderOutput
	offset := fixed.Int26_6(0)
	for _, o := range outputs {
		merged.Paths = append(merged.Paths, translatePaths(o.Paths, offset)...)
		merged.Results = append(merged.Results, o.Results...)
		offset += pathsWidth(o.Paths)
	}
	return merged
}

func pathsWidth(paths []Path) fixed.Int26_6 {
	var maxX fixed.Int26_6
	for _, p := range paths {
		for _, pt := range p.Points {
			if pt.X > maxX {
				maxX = pt.X
			}
		}
	}
	return maxX
}

func translatePaths(paths []Path, dx fixed.Int26_6) []Path {
	if dx == 0 {
		return paths
	}
	out := make([]Path, len(paths))
	for i, p := range paths {
		np := Path{Verbs: p.Verbs, Fill: p.Fill, Points: make([]fixed.Point26_6, len(p.Points))}
		for j, pt := range p.Points {
			np.Points[j] = fixed.Point26_6{X: pt.X + dx, Y: pt.Y}
		}
		out[i] = np
	}
	return out
}

func mergeRasters(outputs []RenderOutput, params RenderParams) (RenderOutput, error) {
	totalWidth := 0
	maxHeight := 0
	maxBaseline := 0
	for _, o := range outputs {
		if o.Raster == nil {
			return RenderOutput{}, NewError(StagePipeline, KindInternal, "mixed raster and non-raster run outputs", nil)
		}
		totalWidth += o.Raster.Width
		if o.Raster.Height > maxHeight {
			maxHeight = o.Raster.Height
		}
		if o.Raster.BaselineY > maxBaseline {
			maxBaseline = o.Raster.BaselineY
		}
	}
	out := &Raster{
		Width:     totalWidth,
		Height:    maxHeight,
		Format:    outputs[0].Raster.Format,
		BaselineY: maxBaseline,
	}
	out.Stride = out.Width * bytesPerPixel(out.Format)
	out.Pixels = make([]byte, out.Stride*out.Height)
	fillBackground(out, params.Background)

	x := 0
	for _, o := range outputs {
		r := o.Raster
		dy := maxBaseline - r.BaselineY
		blitRaster(out, r, x, dy)
		x += r.Width
	}
	return RenderOutput{Raster: out}, nil
}

func bytesPerPixel(f PixelFormat) int {
	switch f {
	case FormatRGBA8:
		return 4
	case FormatA8:
		return 1
	default:
		return 1
	}
}

func fillBackground(r *Raster, bg RGBA) {
	if r.Format != FormatRGBA8 || (bg == RGBA{}) {
		return
	}
	for i := 0; i+4 <= len(r.Pixels); i += 4 {
		r.Pixels[i], r.Pixels[i+1], r.Pixels[i+2], r.Pixels[i+3] = bg.R, bg.G, bg.B, bg.A
	}
}

func blitRaster(dst, src *Raster, dx, dy int) {
	bpp := bytesPerPixel(dst.Format)
	for y := 0; y < src.Height; y++ {
		dyy := y + dy
		if dyy < 0 || dyy >= dst.Height {
			continue
		}
		srcRow := src.Pixels[y*src.Stride : y*src.Stride+src.Width*bpp]
		dstStart := dyy*dst.Stride + dx*bpp
		if dstStart < 0 || dstStart+len(srcRow) > len(dst.Pixels) {
			continue
		}
		copy(dst.Pixels[dstStart:dstStart+len(srcRow)], srcRow)
	}
}
