// SPDX-License-Identifier: Unlicense OR MIT

package rasterizers

import textshape "github.com/inkwell/textshape"

func init() {
	textshape.RegisterRasterizer("shaping-data", ShapingData{})
}

// ShapingData is the pseudo-rasterizer for callers that want the
// shaping result itself rather than pixels or paths (spec.md §3's
// RenderOutput "always carries the originating shaping result for
// provenance"): it performs no rasterization work at all, and exists
// so the shaping-data export format (spec.md §4.6) can be reached
// through the same Builder/Pipeline machinery as every other backend.
type ShapingData struct{}

// Render implements textshape.Rasterizer.
func (ShapingData) Render(result textshape.ShapingResult, font *textshape.LoadedFont, params textshape.RenderParams, cache *textshape.GlyphCache) (textshape.RenderOutput, []textshape.Warning, error) {
	return textshape.RenderOutput{Results: []textshape.ShapingResult{result}}, nil, nil
}
