// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/inkwell/textshape/internal/fontstore"
)

func newTestFontStore() *fontstore.Store {
	return fontstore.NewStore(64, 64<<20)
}

func TestLoadFontWithByFamily(t *testing.T) {
	store := newTestFontStore()
	store.RegisterFamilyBytes("Go Regular", goregular.TTF)
	lf, err := LoadFontWith(store, FontSpec{Family: "Go Regular", Size: 16})
	if err != nil {
		t.Fatalf("LoadFontWith error: %v", err)
	}
	if lf.UnitsPerEm() <= 0 {
		t.Fatalf("UnitsPerEm() = %d, want > 0", lf.UnitsPerEm())
	}
	if lf.Key().String() == "" {
		t.Fatal("Key().String() is empty")
	}
}

func TestLoadFontWithUnknownFamily(t *testing.T) {
	store := newTestFontStore()
	_, err := LoadFontWith(store, FontSpec{Family: "Nope"})
	if err == nil {
		t.Fatal("expected an error for an unregistered family")
	}
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *StageError", err)
	}
	if se.Kind != KindFontNotFound {
		t.Fatalf("Kind = %v, want KindFontNotFound", se.Kind)
	}
}

func TestLoadFontWithSharesStoreCache(t *testing.T) {
	store := newTestFontStore()
	store.RegisterFamilyBytes("Go Regular", goregular.TTF)
	a, err := LoadFontWith(store, FontSpec{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("LoadFontWith error: %v", err)
	}
	b, err := LoadFontWith(store, FontSpec{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("LoadFontWith error: %v", err)
	}
	if a.Key() != b.Key() {
		t.Fatalf("expected identical font_key for identical requests, got %v and %v", a.Key(), b.Key())
	}
}

func TestLoadFontWithNominalGlyph(t *testing.T) {
	store := newTestFontStore()
	store.RegisterFamilyBytes("Go Regular", goregular.TTF)
	lf, err := LoadFontWith(store, FontSpec{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("LoadFontWith error: %v", err)
	}
	gid, ok := lf.NominalGlyph('A')
	if !ok {
		t.Fatal("NominalGlyph('A') reported no mapping")
	}
	if gid == 0 {
		t.Fatal("NominalGlyph('A') returned the notdef glyph")
	}
}
