// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import "github.com/inkwell/textshape/internal/unicode"

// ItemizeHints are optional caller-supplied hints for Itemize (spec.md
// §4.1): a base paragraph direction for bidi resolution, a preferred
// script or language to attach when detection is ambiguous, and whether
// to Unicode-normalize the input before splitting.
type ItemizeHints struct {
	BaseDirection     *Direction
	PreferredScript   string
	PreferredLanguage string
	Normalize         bool
}

// Itemize splits text into maximal runs of uniform script and direction
// (spec.md §4.1 S1). Malformed UTF-8 input is its sole fatal error;
// everything else downgrades to a best-effort itemization.
func Itemize(text string, hints ItemizeHints) ([]Run, error) {
	var baseDir *unicode.Direction
	if hints.BaseDirection != nil {
		d := unicode.LTR
		if *hints.BaseDirection == RTL {
			d = unicode.RTL
		}
		baseDir = &d
	}
	runs, err := unicode.Itemize(text, unicode.Hints{
		BaseDirection:     baseDir,
		PreferredScript:   hints.PreferredScript,
		PreferredLanguage: hints.PreferredLanguage,
		Normalize:         hints.Normalize,
	})
	if err != nil {
		return nil, NewError(StageUnicode, KindInputError, "itemize", err)
	}
	out := make([]Run, len(runs))
	for i, r := range runs {
		dir := LTR
		if r.Direction == unicode.RTL {
			dir = RTL
		}
		out[i] = Run{
			Text:      r.Text,
			Script:    r.Script,
			Direction: dir,
			Language:  r.Language,
			ByteStart: r.ByteStart,
			ByteEnd:   r.ByteEnd,
		}
	}
	return out, nil
}
