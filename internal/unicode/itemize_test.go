// SPDX-License-Identifier: Unlicense OR MIT

package unicode

import "testing"

func TestItemizeEmptyText(t *testing.T) {
	runs, err := Itemize("", Hints{})
	if err != nil {
		t.Fatalf("Itemize(\"\") error: %v", err)
	}
	if len(runs) != 1 || runs[0].Text != "" {
		t.Fatalf("Itemize(\"\") = %+v, want one empty run", runs)
	}
}

func TestItemizeInvalidUTF8(t *testing.T) {
	_, err := Itemize("abc\xff\xfe", Hints{})
	if err == nil {
		t.Fatal("Itemize with invalid UTF-8 should fail")
	}
}

func TestItemizePreservesBytes(t *testing.T) {
	cases := []string{
		"Hi",
		"Hello, world!",
		"Hello, 你好",
		"مرحبا",
		"Hello مرحبا 你好",
	}
	for _, text := range cases {
		runs, err := Itemize(text, Hints{})
		if err != nil {
			t.Fatalf("Itemize(%q) error: %v", text, err)
		}
		var rebuilt []byte
		for _, r := range runs {
			if r.ByteStart != len(rebuilt) {
				t.Fatalf("Itemize(%q): run %+v does not start where the previous run ended (at %d)", text, r, len(rebuilt))
			}
			rebuilt = append(rebuilt, text[r.ByteStart:r.ByteEnd]...)
		}
		if string(rebuilt) != text {
			t.Fatalf("Itemize(%q): runs do not partition the input; got %q", text, rebuilt)
		}
	}
}

func TestItemizeMixedScriptProducesMultipleRuns(t *testing.T) {
	text := "Hello, 你好"
	runs, err := Itemize(text, Hints{})
	if err != nil {
		t.Fatalf("Itemize error: %v", err)
	}
	if len(runs) < 2 {
		t.Fatalf("Itemize(%q) = %d runs, want at least 2", text, len(runs))
	}
}

func TestItemizeRTLDirection(t *testing.T) {
	text := "مرحبا"
	runs, err := Itemize(text, Hints{})
	if err != nil {
		t.Fatalf("Itemize error: %v", err)
	}
	found := false
	for _, r := range runs {
		if r.Direction == RTL {
			found = true
		}
	}
	if !found {
		t.Fatalf("Itemize of an Arabic string runs = %+v, want at least one RTL run", runs)
	}
}

func TestItemizePreferredLanguageHint(t *testing.T) {
	runs, err := Itemize("Hi", Hints{PreferredLanguage: "en"})
	if err != nil {
		t.Fatalf("Itemize error: %v", err)
	}
	for _, r := range runs {
		if r.Language != "en" {
			t.Fatalf("run %+v did not inherit the preferred language hint", r)
		}
	}
}

func TestItemizeBaseDirectionHint(t *testing.T) {
	rtl := RTL
	runs, err := Itemize("123", Hints{BaseDirection: &rtl})
	if err != nil {
		t.Fatalf("Itemize error: %v", err)
	}
	if len(runs) == 0 {
		t.Fatal("Itemize returned no runs")
	}
}

func TestItemizeNormalize(t *testing.T) {
	// "e" (U+0065) followed by a combining acute accent (U+0301) should
	// normalize to the single precomposed rune U+00E9 when Normalize is
	// requested.
	decomposed := "é"
	runs, err := Itemize(decomposed, Hints{Normalize: true})
	if err != nil {
		t.Fatalf("Itemize error: %v", err)
	}
	var rebuilt string
	for _, r := range runs {
		rebuilt += r.Text
	}
	if rebuilt == decomposed {
		t.Fatalf("Itemize with Normalize=true did not normalize %q", decomposed)
	}
	if rebuilt != "é" {
		t.Fatalf("Itemize with Normalize=true produced %q, want %q", rebuilt, "é")
	}
}
