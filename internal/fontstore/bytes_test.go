// SPDX-License-Identifier: Unlicense OR MIT

package fontstore

import "testing"

func TestRefCountedBytesFromMemoryStartsAtOne(t *testing.T) {
	b := NewRefCountedBytesFromMemory([]byte("hello"))
	if b.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", b.RefCount())
	}
	if string(b.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "hello")
	}
}

func TestRefCountedBytesAcquireRelease(t *testing.T) {
	b := NewRefCountedBytesFromMemory([]byte("hello"))
	b.Acquire()
	if b.RefCount() != 2 {
		t.Fatalf("RefCount() after Acquire = %d, want 2", b.RefCount())
	}
	b.Release()
	if b.RefCount() != 1 {
		t.Fatalf("RefCount() after one Release = %d, want 1", b.RefCount())
	}
	if b.Bytes() == nil {
		t.Fatal("Bytes() went nil while a reference was still outstanding")
	}
	b.Release()
	if b.RefCount() != 0 {
		t.Fatalf("RefCount() after final Release = %d, want 0", b.RefCount())
	}
	if b.Bytes() != nil {
		t.Fatal("Bytes() should be nil once the last reference is released")
	}
}

func TestLoadRefCountedBytesFromFileMissing(t *testing.T) {
	if _, err := LoadRefCountedBytesFromFile("/nonexistent/path/does-not-exist.ttf"); err == nil {
		t.Fatal("expected an error loading a nonexistent font file")
	}
}
