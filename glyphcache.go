// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"container/list"
	"hash/maphash"
	"sync"
)

const glyphCacheShards = 32

// GlyphCacheKey mirrors spec.md §3's glyph-bitmap cache key: glyph id,
// font_key, pixel size, render mode, and subpixel phase.
type GlyphCacheKey struct {
	FontKey        FontKey
	GID            uint32
	PixelSize      float32
	RenderMode     AntiAliasing
	SubpixelPhaseX int8 // phase in 1/4-pixel steps, 0-3
	SubpixelPhaseY int8
	Source         GlyphSource
}

// GlyphCache is the glyph-bitmap cache of spec.md §3/§4.4: an
// LRU-bounded, sharded, concurrency-safe map from glyph cache key to
// GlyphBitmap, bounded by aggregate pixel bytes plus entry count
// (spec.md §5). It generalizes gioui.org/text/lru.go's bitmapShapeCache
// from one goroutine to glyphCacheShards independently locked shards, per
// spec.md §9's "single global mutex is a measurable bottleneck"
// guidance.
type GlyphCache struct {
	seed       maphash.Seed
	shards     [glyphCacheShards]*glyphShard
	maxBytes   int64
	maxEntries int
}

type glyphShard struct {
	mu        sync.Mutex
	entries   map[GlyphCacheKey]*list.Element
	order     *list.List
	bytesUsed int64
	maxBytes  int64
	maxEntries int
}

type glyphCacheElem struct {
	key GlyphCacheKey
	val GlyphBitmap
}

// NewGlyphCache constructs a glyph-bitmap cache bounded by aggregate
// pixel bytes and total entry count.
func NewGlyphCache(maxBytes int64, maxEntries int) *GlyphCache {
	c := &GlyphCache{seed: maphash.MakeSeed(), maxBytes: maxBytes, maxEntries: maxEntries}
	perShardBytes := maxBytes / glyphCacheShards
	perShardEntries := maxEntries / glyphCacheShards
	if perShardEntries < 1 {
		perShardEntries = 1
	}
	for i := range c.shards {
		c.shards[i] = &glyphShard{
			entries:    make(map[GlyphCacheKey]*list.Element),
			order:      list.New(),
			maxBytes:   perShardBytes,
			maxEntries: perShardEntries,
		}
	}
	return c
}

func (c *GlyphCache) shardFor(k GlyphCacheKey) *glyphShard {
	var h maphash.Hash
	h.SetSeed(c.seed)
	h.WriteString(k.FontKey.String())
	var buf [4]byte
	be32(buf[:], k.GID)
	h.Write(buf[:])
	return c.shards[h.Sum64()%glyphCacheShards]
}

func be32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// Get returns the cached bitmap for key, if present.
func (c *GlyphCache) Get(key GlyphCacheKey) (GlyphBitmap, bool) {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	el, ok := sh.entries[key]
	if !ok {
		return GlyphBitmap{}, false
	}
	sh.order.MoveToBack(el)
	return el.Value.(*glyphCacheElem).val, true
}

// Put inserts bm under key, evicting least-recently-used entries until
// the owning shard is back within its byte and entry bounds.
func (c *GlyphCache) Put(key GlyphCacheKey, bm GlyphBitmap) {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	size := int64(len(bm.Pixels))
	if el, ok := sh.entries[key]; ok {
		old := el.Value.(*glyphCacheElem).val
		sh.bytesUsed += size - int64(len(old.Pixels))
		el.Value.(*glyphCacheElem).val = bm
		sh.order.MoveToBack(el)
	} else {
		el := sh.order.PushBack(&glyphCacheElem{key: key, val: bm})
		sh.entries[key] = el
		sh.bytesUsed += size
	}
	for (len(sh.entries) > sh.maxEntries || sh.bytesUsed > sh.maxBytes) && sh.order.Len() > 0 {
		front := sh.order.Front()
		ge := front.Value.(*glyphCacheElem)
		sh.order.Remove(front)
		delete(sh.entries, ge.key)
		sh.bytesUsed -= int64(len(ge.val.Pixels))
	}
}
