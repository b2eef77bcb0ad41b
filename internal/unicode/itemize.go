// SPDX-License-Identifier: Unlicense OR MIT

// Package unicode implements Unicode itemization (spec.md §4.1): splitting
// raw text into runs of uniform script and direction. The script-merging
// and bidi-splitting logic is grounded in gioui.org/text's
// shaperImpl.splitByScript and shaperImpl.splitBidi, generalized from
// operating on shaping.Input values tied to a single font face to
// operating on plain byte ranges independent of any font.
package unicode

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
)

// Direction mirrors textshape.Direction without importing the root
// package, to avoid an import cycle.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// Run is one itemized run: a uniform-script, uniform-direction slice of
// the input, located by byte offset.
type Run struct {
	Text       string
	Script     string
	Direction  Direction
	Language   string
	ByteStart  int
	ByteEnd    int
}

// Hints are optional caller-supplied itemization hints (spec.md §4.1).
type Hints struct {
	BaseDirection   *Direction
	PreferredScript string
	PreferredLanguage string
	Normalize       bool
}

// Itemize splits text into runs of uniform script and direction. It
// fails with an error describing malformed UTF-8 input; it never fails
// on hint/detection mismatches, since such mismatches are resolved by
// preferring the detected properties (the hint is advisory only, per
// spec.md §4.1's "non-recoverable" qualifier: a hint cannot make valid
// text invalid).
func Itemize(text string, hints Hints) ([]Run, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("itemize: invalid UTF-8 input")
	}
	if hints.Normalize {
		text = norm.NFC.String(text)
	}
	if text == "" {
		return []Run{{Text: "", Script: "", Direction: baseDirection(hints), ByteStart: 0, ByteEnd: 0}}, nil
	}

	byScript := splitByScript(text)
	runs := make([]Run, 0, len(byScript))
	for _, s := range byScript {
		runs = append(runs, splitByBidi(s, hints)...)
	}
	for i := range runs {
		if hints.PreferredLanguage != "" && runs[i].Language == "" {
			runs[i].Language = hints.PreferredLanguage
		}
		if hints.PreferredScript != "" && runs[i].Script == "Common" {
			runs[i].Script = hints.PreferredScript
		}
	}
	return runs, nil
}

type scriptSpan struct {
	text      string
	script    string
	byteStart int
	byteEnd   int
}

// splitByScript merges adjacent runes of the same script into spans,
// treating Common and Inherited script runes as belonging to the script
// of the rune before them (runs of them at the very start of the text
// form their own "Common" span), mirroring gioui.org/text's
// splitByScript loop.
func splitByScript(text string) []scriptSpan {
	var spans []scriptSpan
	var cur scriptSpan
	first := true
	pos := 0
	for _, r := range text {
		w := utf8.RuneLen(r)
		sc := scriptName(language.LookupScript(r))
		if sc == "Common" || sc == "Inherited" {
			if first {
				// Leading common runes get their own span once a real
				// script is discovered; until then, tentatively "Common".
				sc = "Common"
			} else {
				sc = cur.script
			}
		}
		if first {
			cur = scriptSpan{text: text, script: sc, byteStart: pos, byteEnd: pos + w}
			first = false
		} else if sc == cur.script {
			cur.byteEnd = pos + w
		} else {
			spans = append(spans, cur)
			cur = scriptSpan{text: text, script: sc, byteStart: pos, byteEnd: pos + w}
		}
		pos += w
	}
	if !first {
		spans = append(spans, cur)
	}
	return spans
}

func scriptName(s language.Script) string {
	if s == 0 {
		return "Common"
	}
	return s.String()
}

// splitByBidi resolves bidi runs within a single script span using UAX
// #9 via golang.org/x/text/unicode/bidi, mirroring gioui.org/text's
// shaperImpl.splitBidi.
func splitByBidi(s scriptSpan, hints Hints) []Run {
	segment := s.text[s.byteStart:s.byteEnd]
	if segment == "" {
		return nil
	}
	def := bidi.LeftToRight
	if hints.BaseDirection != nil && *hints.BaseDirection == RTL {
		def = bidi.RightToLeft
	}
	var p bidi.Paragraph
	p.SetString(segment, bidi.DefaultDirection(def))
	order, err := p.Order()
	if err != nil {
		return []Run{{
			Text: segment, Script: s.script, Direction: baseDirection(hints),
			ByteStart: s.byteStart, ByteEnd: s.byteEnd,
		}}
	}
	var runs []Run
	byteOffset := s.byteStart
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		runText := run.String()
		dir := LTR
		if run.Direction() == bidi.RightToLeft {
			dir = RTL
		}
		runs = append(runs, Run{
			Text:      runText,
			Script:    s.script,
			Direction: dir,
			ByteStart: byteOffset,
			ByteEnd:   byteOffset + len(runText),
		})
		byteOffset += len(runText)
	}
	return runs
}

func baseDirection(hints Hints) Direction {
	if hints.BaseDirection != nil {
		return *hints.BaseDirection
	}
	return LTR
}
