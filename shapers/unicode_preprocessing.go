// SPDX-License-Identifier: Unlicense OR MIT

package shapers

import (
	"golang.org/x/text/unicode/norm"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterShaper("unicode-preprocessing", NewUnicodePreprocessing())
}

// UnicodePreprocessing adds Unicode-level normalization ahead of the
// full shaper (spec.md §4.3's "unicode-preprocessing + full" variant),
// for callers that hand it runs which may not have passed through this
// module's own itemizer (e.g. runs assembled by a caller from an
// external source and therefore not guaranteed to already be NFC). Bidi
// and script splitting are the itemizer's job (internal/unicode); this
// shaper assumes the run it receives is already uniform-direction, the
// same assumption Full makes.
type UnicodePreprocessing struct {
	full *Full
}

// NewUnicodePreprocessing constructs a preprocessing shaper wrapping a
// private Full instance.
func NewUnicodePreprocessing() *UnicodePreprocessing {
	return &UnicodePreprocessing{full: NewFull()}
}

// Shape implements textshape.Shaper.
func (u *UnicodePreprocessing) Shape(run textshape.Run, font *textshape.LoadedFont, pixelSize float64, features []textshape.FeatureSetting) (textshape.ShapingResult, []textshape.Warning, error) {
	normalized := run
	normalized.Text = norm.NFC.String(run.Text)
	return u.full.Shape(normalized, font, pixelSize, features)
}
