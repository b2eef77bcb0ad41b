// SPDX-License-Identifier: Unlicense OR MIT

package fontstore

import (
	"bytes"
	"fmt"

	gofont "github.com/go-text/typesetting/font"
)

// LoadedFont is the shared, immutable handle produced by Resolve: raw
// font bytes (owned via RefCountedBytes), the resolved face, units-per-em,
// and the glyph-data queries that both the shaper and the rasterizer
// depend on (spec.md §3 "Loaded font"). All methods are read-only and
// safe for concurrent use, since the underlying gofont.Face is immutable
// once parsed.
type LoadedFont struct {
	Key        Key
	bytes      *RefCountedBytes
	Face       gofont.Face
	FaceIndex  int
	Variations []VariationCoord
	UnitsPerEm int32
	Warnings   []string
}

// Bytes returns the backing reference-counted buffer. Callers that need
// to keep the font alive beyond the store's own reference should call
// Acquire on it.
func (f *LoadedFont) Bytes() *RefCountedBytes { return f.bytes }

// ParseFace parses the first face of a font file from raw bytes,
// grounded in gioui.org/font/opentype.Parse's use of gofont.ParseTTF.
// Collections are not split into their faces: any faceIndex other than
// 0 is rejected with an error.
func ParseFace(src []byte, faceIndex int) (gofont.Face, error) {
	if faceIndex != 0 {
		return nil, fmt.Errorf("fontstore: failed parsing font face %d: only face 0 is supported", faceIndex)
	}
	face, err := gofont.ParseTTF(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("fontstore: failed parsing font face %d: %w", faceIndex, err)
	}
	return face, nil
}

// AxisRange describes one variation axis's valid range, used to clamp
// caller-requested coordinates (spec.md §4.2).
type AxisRange struct {
	Tag          [4]byte
	Min, Default, Max float32
}

// axesOf returns the variation axes declared by face, if it exposes any.
// Faces that do not implement variableFace (static fonts) report no axes,
// so every requested coordinate is simply ignored as "unknown axis" per
// spec.md §4.2.
func axesOf(face gofont.Face) []AxisRange {
	vf, ok := face.(variableFace)
	if !ok {
		return nil
	}
	return vf.VariationAxes()
}

// variableFace is implemented by faces that expose OpenType variation
// axes. Not every gofont.Face implementation needs to satisfy it; static
// (non-variable) fonts simply don't.
type variableFace interface {
	VariationAxes() []AxisRange
	SetVariations(coords []VariationCoord)
}

// resolveVariations clamps each requested coordinate to its axis's
// declared range, dropping coordinates for axes the font doesn't have,
// and applies the result to the face in place. It returns human-readable
// warnings for every coordinate that was clamped, and an error only when
// strict is true and at least one coordinate required clamping
// (spec.md §4.2, §7 KindVariationOutOfRange).
func resolveVariations(face gofont.Face, requested []VariationCoord, strict bool) ([]VariationCoord, []string, error) {
	axes := axesOf(face)
	if len(axes) == 0 || len(requested) == 0 {
		return nil, nil, nil
	}
	byTag := make(map[[4]byte]AxisRange, len(axes))
	for _, a := range axes {
		byTag[a.Tag] = a
	}
	resolved := make([]VariationCoord, 0, len(requested))
	var warnings []string
	for _, c := range requested {
		axis, ok := byTag[c.Axis]
		if !ok {
			// Unknown axis: ignored, not an error (spec.md §4.2).
			continue
		}
		v := c.Value
		clamped := false
		if v < axis.Min {
			v = axis.Min
			clamped = true
		} else if v > axis.Max {
			v = axis.Max
			clamped = true
		}
		if clamped {
			if strict {
				return nil, nil, fmt.Errorf("fontstore: variation axis %q value %g out of range [%g,%g]", axis.Tag[:], c.Value, axis.Min, axis.Max)
			}
			warnings = append(warnings, fmt.Sprintf("variation axis %q clamped %g to %g", axis.Tag[:], c.Value, v))
		}
		resolved = append(resolved, VariationCoord{Axis: c.Axis, Value: v})
	}
	if vf, ok := face.(variableFace); ok && len(resolved) > 0 {
		vf.SetVariations(resolved)
	}
	return resolved, warnings, nil
}
