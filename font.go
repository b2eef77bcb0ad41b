// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"strings"
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/opentype/api"

	"github.com/inkwell/textshape/internal/fontstore"
)

var (
	defaultStoreOnce sync.Once
	defaultStore     *fontstore.Store
)

// DefaultStore returns the package-wide font store used by LoadFont when
// no explicit store is supplied, per the "thin convenience wrapper"
// guidance of spec.md §9 (prefer an explicit, injected context; provide a
// default for callers that don't care).
func DefaultStore() *fontstore.Store {
	defaultStoreOnce.Do(func() {
		defaultStore = fontstore.NewStore(4096, 512<<20)
	})
	return defaultStore
}

// RegisterFamilyPath associates a family name with a font file on disk in
// the default store.
func RegisterFamilyPath(family, path string) { DefaultStore().RegisterFamilyPath(family, path) }

// RegisterFamilyBytes associates a family name with in-memory font bytes
// in the default store.
func RegisterFamilyBytes(family string, data []byte) {
	DefaultStore().RegisterFamilyBytes(family, data)
}

// LoadedFont is the shared, immutable handle produced by LoadFont
// (spec.md §3 "Loaded font"). All of its query methods are read-only and
// safe for concurrent use.
type LoadedFont struct {
	inner *fontstore.LoadedFont
	key   FontKey
}

// Key returns the stable font_key used for cache keying.
func (f *LoadedFont) Key() FontKey { return f.key }

// UnitsPerEm returns the font's design units-per-em.
func (f *LoadedFont) UnitsPerEm() int32 { return f.inner.UnitsPerEm }

// Warnings returns non-fatal issues recorded while resolving this font,
// such as clamped variation coordinates.
func (f *LoadedFont) Warnings() []Warning {
	ws := make([]Warning, 0, len(f.inner.Warnings))
	for _, w := range f.inner.Warnings {
		ws = append(ws, Warning{Kind: KindVariationOutOfRange, Message: w})
	}
	return ws
}

// Face exposes the underlying go-text/typesetting face for use by shaper
// and rasterizer backends living in their own packages (spec.md §9's
// registration-based backend split: backends import this package for
// its data contract, so the face itself must be reachable through an
// exported accessor rather than a private field).
func (f *LoadedFont) Face() gofont.Face { return f.inner.Face }

// cmapFace is the optional capability a gofont.Face may implement to map
// codepoints to glyph ids, used by the identity shaper (spec.md §4.3).
type cmapFace interface {
	NominalGlyph(ch rune) (gofont.GID, bool)
}

// NominalGlyph looks up the glyph id for a codepoint, following the
// font's cmap. It reports false if the font has no mapping for r.
func (f *LoadedFont) NominalGlyph(r rune) (gofont.GID, bool) {
	cf, ok := f.inner.Face.(cmapFace)
	if !ok {
		return 0, false
	}
	return cf.NominalGlyph(r)
}

type hAdvanceFace interface {
	HorizontalAdvance(gid gofont.GID) float32
}

// Advance returns the glyph's advance width in font units.
func (f *LoadedFont) Advance(gid gofont.GID) float32 {
	af, ok := f.inner.Face.(hAdvanceFace)
	if !ok {
		return 0
	}
	return af.HorizontalAdvance(gid)
}

type lineMetricsFace interface {
	LineMetrics() (ascent, descent, lineGap float32)
}

// LineMetrics returns the font's ascent, descent and line gap in font
// units at the font's design size.
func (f *LoadedFont) LineMetrics() (ascent, descent, lineGap float32) {
	mf, ok := f.inner.Face.(lineMetricsFace)
	if !ok {
		upem := float32(f.UnitsPerEm())
		// Conservative fallback consistent with common OpenType defaults
		// when the face exposes no hhea/OS2 metrics.
		return 0.8 * upem, 0.2 * upem, 0
	}
	return mf.LineMetrics()
}

// GlyphOutline returns the glyph's monochrome outline, if the font
// provides one.
func (f *LoadedFont) GlyphOutline(gid gofont.GID) (api.GlyphOutline, bool) {
	data := f.inner.Face.GlyphData(gid)
	outline, ok := data.(api.GlyphOutline)
	return outline, ok
}

// GlyphBitmapData returns the glyph's embedded bitmap strike (sbix or
// CBDT/EBDT), if the font provides one at this glyph id.
func (f *LoadedFont) GlyphBitmapData(gid gofont.GID) (api.GlyphBitmap, bool) {
	data := f.inner.Face.GlyphData(gid)
	bm, ok := data.(api.GlyphBitmap)
	return bm, ok
}

// GlyphSVGOutline returns the monochrome outline fallback a
// SVG-in-OpenType glyph carries alongside its embedded SVG document
// (spec.md §4.5 "SVG-in-OpenType"). This package has no SVG parser, so
// rasterizers render SourceSVG through this fallback outline instead of
// the SVG document itself, the same substitution ebiten's text/v2
// go-text glyph source makes (api.GlyphSVG.Outline.Segments).
func (f *LoadedFont) GlyphSVGOutline(gid gofont.GID) (api.GlyphOutline, bool) {
	data := f.inner.Face.GlyphData(gid)
	svg, ok := data.(api.GlyphSVG)
	if !ok {
		return api.GlyphOutline{}, false
	}
	return svg.Outline, true
}

// ColorLayer is one layer of a COLR color glyph: a regular outline glyph
// plus a palette-resolved color.
type ColorLayer struct {
	GID   gofont.GID
	Color RGBA
}

// colorFace is the optional capability a gofont.Face may implement to
// expose COLR/CPAL layered color glyphs.
type colorFace interface {
	GlyphColorLayers(gid gofont.GID) ([]ColorLayer, bool)
}

// GlyphColorLayers returns the resolved COLR layer stack for gid, if the
// font has one (spec.md §4.5 "layered-color outline").
func (f *LoadedFont) GlyphColorLayers(gid gofont.GID) ([]ColorLayer, bool) {
	cf, ok := f.inner.Face.(colorFace)
	if !ok {
		return nil, false
	}
	return cf.GlyphColorLayers(gid)
}

// LoadFont implements spec.md §4.2's resolve operation against the
// default font store.
func LoadFont(spec FontSpec) (*LoadedFont, error) {
	return LoadFontWith(DefaultStore(), spec)
}

// LoadFontWith is LoadFont against an explicit store, for callers that
// want an injected context instead of the package default (spec.md §9).
func LoadFontWith(store *fontstore.Store, spec FontSpec) (*LoadedFont, error) {
	req := fontstore.ResolveRequest{
		Family:    spec.Family,
		Path:      spec.Path,
		FaceIndex: spec.FaceIndex,
		Strict:    spec.Strict,
	}
	for _, v := range spec.Variations {
		req.Variations = append(req.Variations, fontstore.VariationCoord{Axis: v.Axis, Value: v.Value})
	}
	inner, err := store.Resolve(req)
	if err != nil {
		return nil, NewError(StageFont, classifyFontError(err), "resolve font", err)
	}
	return &LoadedFont{
		inner: inner,
		key: FontKey{
			source:     inner.Key.Source,
			faceIndex:  inner.Key.FaceIndex,
			variations: inner.Key.Variations,
		},
	}, nil
}

func classifyFontError(err error) Kind {
	// fontstore wraps font-not-found and parse errors with distinct
	// substrings; a richer implementation could use typed errors, but a
	// single wrapped error keeps fontstore decoupled from this package's
	// Kind enum while still letting callers recover the right kind here.
	msg := err.Error()
	switch {
	case containsAny(msg, "font-not-found", "not registered", "no such file"):
		return KindFontNotFound
	case containsAny(msg, "failed parsing"):
		return KindParseError
	case containsAny(msg, "out of range"):
		return KindVariationOutOfRange
	default:
		return KindInternal
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
