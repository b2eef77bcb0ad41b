// SPDX-License-Identifier: Unlicense OR MIT

package fontstore

import (
	"container/list"
	"fmt"
	"hash/maphash"
	"sync"
)

const shardCount = 16

// Store is the process-wide, concurrent, LRU-bounded font store of
// spec.md §4.2: it maps a Key to a shared *LoadedFont, shards its
// internal map to reduce contention (spec.md §5, §9 "single global lock
// is not acceptable"), and refuses to evict entries with outstanding
// shared references. It generalizes gioui.org/text/lru.go's
// doubly-linked-list LRU from one goroutine to shardCount independently
// locked shards.
type Store struct {
	shards      [shardCount]*shard
	seed        maphash.Seed
	maxEntries  int
	maxBytes    int64

	mu       sync.RWMutex
	families map[string]familySource
}

type familySource struct {
	path string
	data []byte
}

type shard struct {
	mu         sync.Mutex
	entries    map[Key]*list.Element
	order      *list.List // back = most recently used
	bytesUsed  int64
	maxEntries int
	maxBytes   int64
}

type shardEntry struct {
	key  Key
	font *LoadedFont
	size int64
}

// NewStore constructs a font store bounded by total entry count and
// aggregate byte size across all shards.
func NewStore(maxEntries int, maxBytes int64) *Store {
	s := &Store{
		seed:       maphash.MakeSeed(),
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		families:   make(map[string]familySource),
	}
	perShardEntries := maxEntries / shardCount
	if perShardEntries < 1 {
		perShardEntries = 1
	}
	perShardBytes := maxBytes / shardCount
	for i := range s.shards {
		s.shards[i] = &shard{
			entries:    make(map[Key]*list.Element),
			order:      list.New(),
			maxEntries: perShardEntries,
			maxBytes:   perShardBytes,
		}
	}
	return s
}

// RegisterFamilyPath associates a family name with a font file on disk.
func (s *Store) RegisterFamilyPath(family, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.families[family] = familySource{path: path}
}

// RegisterFamilyBytes associates a family name with in-memory font bytes.
func (s *Store) RegisterFamilyBytes(family string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.families[family] = familySource{data: data}
}

func (s *Store) resolveSource(family, path string) (string, []byte, string, error) {
	if path != "" {
		return path, nil, path, nil
	}
	s.mu.RLock()
	fs, ok := s.families[family]
	s.mu.RUnlock()
	if !ok {
		return "", nil, "", fmt.Errorf("fontstore: family %q not registered", family)
	}
	if fs.data != nil {
		return "", fs.data, "mem:" + family, nil
	}
	return fs.path, nil, fs.path, nil
}

func (s *Store) shardFor(k Key) *shard {
	var h maphash.Hash
	h.SetSeed(s.seed)
	h.WriteString(k.String())
	return s.shards[h.Sum64()%shardCount]
}

// Get returns the cached font for key, if present, bumping its
// recency.
func (s *Store) Get(key Key) (*LoadedFont, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	el, ok := sh.entries[key]
	if !ok {
		return nil, false
	}
	sh.order.MoveToBack(el)
	return el.Value.(*shardEntry).font, true
}

// Put inserts font under key, evicting least-recently-used entries with
// no outstanding references until the shard is back within its bounds.
// Entries with outstanding references (RefCount() > 1, i.e. someone
// besides the store itself still holds the bytes) are never evicted,
// per spec.md §3's font-store invariant.
func (s *Store) Put(key Key, font *LoadedFont, size int64) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if el, ok := sh.entries[key]; ok {
		sh.order.MoveToBack(el)
		el.Value.(*shardEntry).font = font
		return
	}
	el := sh.order.PushBack(&shardEntry{key: key, font: font, size: size})
	sh.entries[key] = el
	sh.bytesUsed += size
	sh.evictLocked()
}

func (sh *shard) evictLocked() {
	for (len(sh.entries) > sh.maxEntries || sh.bytesUsed > sh.maxBytes) && sh.order.Len() > 0 {
		// Oldest entry without an outstanding reference; entries still
		// referenced elsewhere are skipped, never evicted.
		var victim *list.Element
		for el := sh.order.Front(); el != nil; el = el.Next() {
			if el.Value.(*shardEntry).font.Bytes().RefCount() <= 1 {
				victim = el
				break
			}
		}
		if victim == nil {
			return
		}
		se := victim.Value.(*shardEntry)
		sh.order.Remove(victim)
		delete(sh.entries, se.key)
		sh.bytesUsed -= se.size
		se.font.Bytes().Release()
	}
}
