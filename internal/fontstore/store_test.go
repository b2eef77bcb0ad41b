// SPDX-License-Identifier: Unlicense OR MIT

package fontstore

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func newTestStore() *Store {
	return NewStore(64, 64<<20)
}

func TestStoreResolveByFamily(t *testing.T) {
	s := newTestStore()
	s.RegisterFamilyBytes("Go Regular", goregular.TTF)
	lf, err := s.Resolve(ResolveRequest{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if lf.UnitsPerEm <= 0 {
		t.Fatalf("UnitsPerEm = %d, want > 0", lf.UnitsPerEm)
	}
	if lf.Bytes().RefCount() < 1 {
		t.Fatalf("RefCount() = %d, want >= 1", lf.Bytes().RefCount())
	}
}

func TestStoreResolveUnregisteredFamily(t *testing.T) {
	s := newTestStore()
	if _, err := s.Resolve(ResolveRequest{Family: "Nonexistent"}); err == nil {
		t.Fatal("expected an error resolving an unregistered family")
	}
}

func TestStoreResolveCachesByKey(t *testing.T) {
	s := newTestStore()
	s.RegisterFamilyBytes("Go Regular", goregular.TTF)
	first, err := s.Resolve(ResolveRequest{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	second, err := s.Resolve(ResolveRequest{Family: "Go Regular"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if first != second {
		t.Fatal("two identical resolve requests should return the same shared *LoadedFont")
	}
}

func TestStoreResolveRecordsFaceIndex(t *testing.T) {
	s := newTestStore()
	s.RegisterFamilyBytes("Go Regular", goregular.TTF)
	a, err := s.Resolve(ResolveRequest{Family: "Go Regular", FaceIndex: 0})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if a.Key.FaceIndex != 0 {
		t.Fatalf("FaceIndex = %d, want 0", a.Key.FaceIndex)
	}
}
