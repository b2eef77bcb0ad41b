// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import "testing"

func TestGlyphCacheGetPutRoundTrip(t *testing.T) {
	c := NewGlyphCache(1<<20, 1024)
	key := GlyphCacheKey{FontKey: FontKey{}, GID: 7, PixelSize: 16, RenderMode: AAGray}
	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	bm := GlyphBitmap{Width: 4, Height: 4, Stride: 4, Pixels: make([]byte, 16)}
	c.Put(key, bm)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got.Width != 4 || got.Height != 4 {
		t.Fatalf("got %+v, want 4x4", got)
	}
}

func TestGlyphCacheDistinguishesSubpixelPhase(t *testing.T) {
	c := NewGlyphCache(1<<20, 1024)
	base := GlyphCacheKey{FontKey: FontKey{}, GID: 1, PixelSize: 16, RenderMode: AASubpixel}
	k1, k2 := base, base
	k1.SubpixelPhaseX = 0
	k2.SubpixelPhaseX = 2
	c.Put(k1, GlyphBitmap{Pixels: []byte{1}})
	if _, ok := c.Get(k2); ok {
		t.Fatal("distinct subpixel phases must not alias in the cache")
	}
}

func TestGlyphCacheEvictsOnByteBudget(t *testing.T) {
	// A 10-byte budget per shard, tiny enough that two 8-byte glyphs
	// landing in the same shard force eviction of the first.
	c := NewGlyphCache(int64(glyphCacheShards)*10, 1<<20)
	key1 := GlyphCacheKey{GID: 1}
	key2 := GlyphCacheKey{GID: 2}
	// Adjacent GIDs are not guaranteed to share a shard, so instead
	// verify the aggregate byte budget is respected globally.
	c.Put(key1, GlyphBitmap{Pixels: make([]byte, 8)})
	c.Put(key2, GlyphBitmap{Pixels: make([]byte, 8)})
	var total int64
	for _, sh := range c.shards {
		sh.mu.Lock()
		total += sh.bytesUsed
		sh.mu.Unlock()
	}
	if total > int64(glyphCacheShards)*10 {
		t.Fatalf("bytesUsed = %d, exceeds the aggregate budget %d", total, int64(glyphCacheShards)*10)
	}
}

func TestGlyphCacheEvictsOnEntryCount(t *testing.T) {
	c := NewGlyphCache(1<<30, glyphCacheShards) // 1 entry per shard
	for i := 0; i < 256; i++ {
		key := GlyphCacheKey{GID: uint32(i), FontKey: FontKey{}}
		c.Put(key, GlyphBitmap{Pixels: []byte{byte(i)}})
	}
	total := 0
	for _, sh := range c.shards {
		sh.mu.Lock()
		total += len(sh.entries)
		sh.mu.Unlock()
	}
	if total > glyphCacheShards {
		t.Fatalf("cache holds %d entries, more than 1 per shard (%d)", total, glyphCacheShards)
	}
}
