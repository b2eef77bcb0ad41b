// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"fmt"
	"sort"
	"strings"
)

// FingerprintFeatures computes a canonicalized, order-independent digest
// of a feature map: tags sorted, values appended (spec.md §4.3). Two
// feature maps that produce identical shaping are required to yield the
// same fingerprint; sorting by tag and deduplicating is sufficient
// because OpenType feature application has no meaningful notion of
// "which duplicate wins" beyond last-one, which this function preserves
// by keeping the last value seen for a repeated tag.
func FingerprintFeatures(features []FeatureSetting) string {
	if len(features) == 0 {
		return ""
	}
	byTag := make(map[[4]byte]uint32, len(features))
	order := make([][4]byte, 0, len(features))
	for _, f := range features {
		if _, seen := byTag[f.Tag]; !seen {
			order = append(order, f.Tag)
		}
		byTag[f.Tag] = f.Value
	}
	sort.Slice(order, func(i, j int) bool {
		return string(order[i][:]) < string(order[j][:])
	})
	var b strings.Builder
	for i, tag := range order {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%d", tag[:], byTag[tag])
	}
	return b.String()
}
