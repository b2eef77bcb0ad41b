// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import "fmt"

// ShapeWith implements spec.md §4.3's shape operation against a named
// backend and an explicit shaping cache: it consults the cache first
// (keyed on text, font_key, script, direction, language, size, feature
// fingerprint, and backend name so that results from different shapers
// never alias), and on a miss calls the selected Shaper and inserts the
// result. Safe for concurrent calls, since ShapeCache and every
// registered Shaper are themselves concurrency-safe.
func ShapeWith(backend string, cache *ShapeCache, run Run, font *LoadedFont, pixelSize float64, features []FeatureSetting) (ShapingResult, []Warning, error) {
	if font == nil {
		return ShapingResult{}, nil, NewError(StageShape, KindInputError, "nil font", nil)
	}
	s, err := lookupShaper(backend)
	if err != nil {
		return ShapingResult{}, nil, err
	}

	fp := FingerprintFeatures(features)
	var key shapeCacheKey
	useCache := cache != nil
	if useCache {
		key = shapeCacheKey{
			text:      run.Text,
			fontKey:   font.Key(),
			script:    run.Script,
			direction: run.Direction,
			language:  run.Language,
			pixelSize: pixelSize,
			features:  fp,
			backend:   backend,
		}
		if cached, ok := cache.get(key); ok {
			return cached, nil, nil
		}
	}

	result, warnings, err := s.Shape(run, font, pixelSize, features)
	if err != nil {
		return ShapingResult{}, warnings, err
	}
	if result.FontKey != font.Key() {
		return ShapingResult{}, warnings, NewError(StageShape, KindInternal,
			fmt.Sprintf("shaper %q returned a result for a different font_key than it was given", backend), nil)
	}
	if result.Direction != run.Direction {
		return ShapingResult{}, warnings, NewError(StageShape, KindInternal,
			fmt.Sprintf("shaper %q returned direction %v for a %v run", backend, result.Direction, run.Direction), nil)
	}
	result.Features = fp
	if useCache {
		cache.put(key, result)
	}
	return result, warnings, nil
}
