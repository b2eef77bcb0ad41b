// SPDX-License-Identifier: Unlicense OR MIT

package textshape

import (
	"container/list"
	"hash/maphash"
	"sync"
)

const shapeCacheShards = 16

// shapeCacheKey mirrors spec.md §3's shaping-cache key: text, font_key,
// script, direction, language, size, feature fingerprint, and backend
// tag (so results from different shapers never alias, per spec.md §4.3).
type shapeCacheKey struct {
	text      string
	fontKey   FontKey
	script    string
	direction Direction
	language  string
	pixelSize float64
	features  string
	backend   string
}

// ShapeCache is the shaping-result cache of spec.md §3/§4.3: an
// LRU-bounded, sharded, concurrency-safe map from shape key to
// ShapingResult. It generalizes gioui.org/text/lru.go's layoutCache
// (a single doubly-linked-list LRU) into independently locked shards.
type ShapeCache struct {
	seed       maphash.Seed
	shards     [shapeCacheShards]*shapeShard
	maxEntries int
}

type shapeShard struct {
	mu      sync.Mutex
	entries map[shapeCacheKey]*list.Element
	order   *list.List
	max     int
}

type shapeCacheElem struct {
	key shapeCacheKey
	val ShapingResult
}

// NewShapeCache constructs a shaping-result cache bounded by maxEntries
// total entries (spec.md §5 "Shaping-result cache is bounded by entry
// count").
func NewShapeCache(maxEntries int) *ShapeCache {
	c := &ShapeCache{seed: maphash.MakeSeed(), maxEntries: maxEntries}
	perShard := maxEntries / shapeCacheShards
	if perShard < 1 {
		perShard = 1
	}
	for i := range c.shards {
		c.shards[i] = &shapeShard{
			entries: make(map[shapeCacheKey]*list.Element),
			order:   list.New(),
			max:     perShard,
		}
	}
	return c
}

func (c *ShapeCache) shardFor(k shapeCacheKey) *shapeShard {
	var h maphash.Hash
	h.SetSeed(c.seed)
	h.WriteString(k.text)
	h.WriteString(k.fontKey.String())
	h.WriteString(k.script)
	h.WriteString(k.language)
	h.WriteString(k.features)
	h.WriteString(k.backend)
	return c.shards[h.Sum64()%shapeCacheShards]
}

func (c *ShapeCache) get(k shapeCacheKey) (ShapingResult, bool) {
	sh := c.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	el, ok := sh.entries[k]
	if !ok {
		return ShapingResult{}, false
	}
	sh.order.MoveToBack(el)
	return el.Value.(*shapeCacheElem).val, true
}

func (c *ShapeCache) put(k shapeCacheKey, v ShapingResult) {
	sh := c.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if el, ok := sh.entries[k]; ok {
		el.Value.(*shapeCacheElem).val = v
		sh.order.MoveToBack(el)
		return
	}
	el := sh.order.PushBack(&shapeCacheElem{key: k, val: v})
	sh.entries[k] = el
	if len(sh.entries) > sh.max {
		oldest := sh.order.Front()
		sh.order.Remove(oldest)
		delete(sh.entries, oldest.Value.(*shapeCacheElem).key)
	}
}
