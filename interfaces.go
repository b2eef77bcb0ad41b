// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"fmt"
	"sync"
)

// Shaper maps a text run and a loaded font to a shaping result
// (spec.md §4.3). Implementations must be safe for concurrent calls with
// independent inputs.
type Shaper interface {
	Shape(run Run, font *LoadedFont, pixelSize float64, features []FeatureSetting) (ShapingResult, []Warning, error)
}

// Rasterizer turns a shaping result into a render output (spec.md §4.4).
// Implementations must be safe for concurrent invocation; any mutable
// state (e.g. a glyph cache) must live behind the supplied *GlyphCache,
// which is itself concurrency-safe.
type Rasterizer interface {
	Render(result ShapingResult, font *LoadedFont, params RenderParams, cache *GlyphCache) (RenderOutput, []Warning, error)
}

// Exporter encodes a render output as bytes (spec.md §4.6).
type Exporter interface {
	Export(output RenderOutput, options ExportOptions) ([]byte, error)
	SupportsFormat(format string) bool
}

// ExportOptions carries exporter-specific settings, e.g. PNM subtype or
// whether SVG should embed a raster it cannot otherwise represent.
type ExportOptions struct {
	Format          string
	PNMSubtype      string // "pbm", "pgm", or "ppm"
	EmbedRasterInSVG bool
}

// FusedShaperRasterizer is implemented by backends that can shape and
// rasterize in a single native call, bypassing the shaping-result
// contract and both caches (spec.md §4.7 "fused native pair", §9 "Fused
// native-engine paths").
type FusedShaperRasterizer interface {
	Shaper
	Rasterizer
	// FusedRender shapes and rasterizes run directly, without
	// populating the shaping or glyph-bitmap caches.
	FusedRender(run Run, font *LoadedFont, params RenderParams) (RenderOutput, []Warning, error)
}

var (
	registryMu        sync.RWMutex
	shaperRegistry     = map[string]Shaper{}
	rasterizerRegistry = map[string]Rasterizer{}
	exporterRegistry   = map[string]Exporter{}
)

// RegisterShaper makes a Shaper implementation available under name for
// later selection by a Builder. It is typically called from an init()
// function in a backend package, following the side-effecting
// registration convention used throughout the Go standard library (e.g.
// image.RegisterFormat, sql.Register) and mirrored here so that built-in
// backends live in their own importable packages without creating an
// import cycle with this package.
func RegisterShaper(name string, s Shaper) {
	registryMu.Lock()
	defer registryMu.Unlock()
	shaperRegistry[name] = s
}

// RegisterRasterizer makes a Rasterizer implementation available under
// name.
func RegisterRasterizer(name string, r Rasterizer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	rasterizerRegistry[name] = r
}

// RegisterExporter makes an Exporter implementation available under
// name.
func RegisterExporter(name string, e Exporter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	exporterRegistry[name] = e
}

func lookupShaper(name string) (Shaper, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := shaperRegistry[name]
	if !ok {
		return nil, NewError(StageShape, KindShaperUnavailable, fmt.Sprintf("shaper %q not registered", name), nil)
	}
	return s, nil
}

func lookupRasterizer(name string) (Rasterizer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := rasterizerRegistry[name]
	if !ok {
		return nil, NewError(StageRasterize, KindRasterizerUnavailable, fmt.Sprintf("rasterizer %q not registered", name), nil)
	}
	return r, nil
}

func lookupExporter(name string) (Exporter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := exporterRegistry[name]
	if !ok {
		return nil, NewError(StageExport, KindExporterUnavailable, fmt.Sprintf("exporter %q not registered", name), nil)
	}
	return e, nil
}
