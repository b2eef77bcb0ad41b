// SPDX-License-Identifier: Unlicense OR MIT

// Package fontstore implements the font store and loader described in
// spec.md §4.2: resolving font specs to shared, immutable loaded-font
// handles, owning font bytes via reference counting, and satisfying
// concurrent glyph-data queries. It is grounded in gioui.org/font/opentype
// (Face parsing over github.com/go-text/typesetting/font) and in
// gioui.org/text/lru.go's doubly-linked-list LRU, generalized from a
// single-goroutine cache to a sharded, mutex-protected one per spec.md §5.
package fontstore

import (
	"os"
	"sync/atomic"
)

// RefCountedBytes owns font source bytes behind a reference count, so
// that glyph-outline and bitmap readers can hold borrowed slices without
// copying, and so the bytes outlive every LoadedFont that shares them
// (spec.md §3 "Ownership").
type RefCountedBytes struct {
	data    []byte
	path    string
	mapped  bool
	refs    int32
	release func()
}

// NewRefCountedBytesFromMemory wraps an in-memory buffer with an initial
// reference count of 1.
func NewRefCountedBytesFromMemory(data []byte) *RefCountedBytes {
	return &RefCountedBytes{data: data, refs: 1}
}

// LoadRefCountedBytesFromFile loads font bytes from disk. Implementations
// that can memory-map do so transparently; this implementation reads the
// full file into memory, which is a correct (if not maximally efficient)
// substitute for a platform mmap, and keeps the font-not-found/parse-error
// failure modes identical regardless of loading strategy.
func LoadRefCountedBytesFromFile(path string) (*RefCountedBytes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &RefCountedBytes{data: data, path: path, refs: 1}, nil
}

// Bytes returns the borrowed byte slice. The returned slice is valid for
// as long as the caller holds a reference via Acquire/Release.
func (b *RefCountedBytes) Bytes() []byte { return b.data }

// Acquire increments the reference count and returns b for chaining.
func (b *RefCountedBytes) Acquire() *RefCountedBytes {
	atomic.AddInt32(&b.refs, 1)
	return b
}

// Release decrements the reference count. When it reaches zero the
// underlying memory is eligible for garbage collection (and, for a real
// mmap-backed implementation, would be unmapped here).
func (b *RefCountedBytes) Release() {
	if atomic.AddInt32(&b.refs, -1) == 0 {
		b.data = nil
		if b.release != nil {
			b.release()
		}
	}
}

// RefCount reports the current outstanding reference count. The font
// store uses this to refuse eviction of entries with outstanding shared
// references (spec.md §3 "Font store" invariant).
func (b *RefCountedBytes) RefCount() int32 {
	return atomic.LoadInt32(&b.refs)
}
