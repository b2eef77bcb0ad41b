// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import "fmt"

// RenderWith implements spec.md §4.4's render operation against a named
// rasterizer backend: it validates that result.FontKey matches font's
// key (spec.md §9's open question — this module resolves it by
// rejecting the mismatch rather than proceeding) and then delegates to
// the backend, which is responsible for consulting the glyph-bitmap
// cache per spec.md §4.4 step 2.
func RenderWith(backend string, cache *GlyphCache, result ShapingResult, font *LoadedFont, params RenderParams) (RenderOutput, []Warning, error) {
	if font == nil {
		return RenderOutput{}, nil, NewError(StageRasterize, KindInputError, "nil font", nil)
	}
	if result.FontKey != font.Key() {
		return RenderOutput{}, nil, NewError(StageRasterize, KindInputError,
			fmt.Sprintf("shaping result font_key %v does not match render font_key %v", result.FontKey, font.Key()), nil)
	}
	r, err := lookupRasterizer(backend)
	if err != nil {
		return RenderOutput{}, nil, err
	}
	return r.Render(result, font, params, cache)
}

// ExportWith implements spec.md §4.6's export operation against a named
// exporter backend, refusing unsupported (backend, format) combinations
// rather than silently falling back (spec.md §4.6).
func ExportWith(backend string, output RenderOutput, options ExportOptions) ([]byte, error) {
	e, err := lookupExporter(backend)
	if err != nil {
		return nil, err
	}
	if !e.SupportsFormat(options.Format) {
		return nil, NewError(StageExport, KindUnsupportedFormat,
			fmt.Sprintf("exporter %q does not support format %q", backend, options.Format), nil)
	}
	return e.Export(output, options)
}
