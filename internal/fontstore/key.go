// SPDX-License-Identifier: Unlicense OR MIT

package fontstore

import (
	"fmt"
	"sort"
	"strings"
)

// Key stably identifies a loaded font by source identity, face index and
// resolved variation coordinates (spec.md §3 font_key). It is a plain
// comparable string-backed value so it can key the shaping cache, the
// glyph-bitmap cache, and this store's own map.
type Key struct {
	Source     string
	FaceIndex  int
	Variations string
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%d@%s", k.Source, k.FaceIndex, k.Variations)
}

// VariationCoord is one resolved (axis tag, value) pair.
type VariationCoord struct {
	Axis  [4]byte
	Value float32
}

// CanonicalVariations renders a sorted, order-independent string
// representation of resolved variation coordinates, so that two
// equivalent variation requests (regardless of the order axes were
// specified in) produce the same Key.
func CanonicalVariations(coords []VariationCoord) string {
	if len(coords) == 0 {
		return ""
	}
	sorted := make([]VariationCoord, len(coords))
	copy(sorted, coords)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i].Axis[:]) < string(sorted[j].Axis[:])
	})
	var b strings.Builder
	for i, c := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%g", c.Axis[:], c.Value)
	}
	return b.String()
}
