// SPDX-License-Identifier: Unlicense OR MIT

package fontstore

import (
	"fmt"
)

// ResolveRequest mirrors the caller-facing font spec (textshape.FontSpec)
// without creating an import cycle between the root package and this
// internal one.
type ResolveRequest struct {
	Family     string
	Path       string
	FaceIndex  int
	Variations []VariationCoord
	Strict     bool
}

// Resolve implements spec.md §4.2's resolve operation: it loads font
// bytes (registered family or explicit path), validates the face index,
// resolves variation coordinates against the font's axes, and returns a
// shared handle keyed by a stable Key. A previously resolved request
// with an identical Key returns the cached handle instead of re-parsing.
func (s *Store) Resolve(req ResolveRequest) (*LoadedFont, error) {
	path, data, sourceID, err := s.resolveSource(req.Family, req.Path)
	if err != nil {
		return nil, fmt.Errorf("fontstore: %w", err)
	}

	variations := CanonicalVariations(req.Variations)
	key := Key{Source: sourceID, FaceIndex: req.FaceIndex, Variations: variations}
	if cached, ok := s.Get(key); ok {
		return cached, nil
	}

	var rcb *RefCountedBytes
	if data != nil {
		rcb = NewRefCountedBytesFromMemory(data)
	} else {
		rcb, err = LoadRefCountedBytesFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("fontstore: font-not-found: %w", err)
		}
	}

	face, err := ParseFace(rcb.Bytes(), req.FaceIndex)
	if err != nil {
		rcb.Release()
		return nil, err
	}

	resolved, warnings, err := resolveVariations(face, req.Variations, req.Strict)
	if err != nil {
		rcb.Release()
		return nil, err
	}

	lf := &LoadedFont{
		Key:        key,
		bytes:      rcb,
		Face:       face,
		FaceIndex:  req.FaceIndex,
		Variations: resolved,
		UnitsPerEm: int32(face.Upem()),
		Warnings:   warnings,
	}
	s.Put(key, lf, int64(len(rcb.Bytes())))
	return lf, nil
}
