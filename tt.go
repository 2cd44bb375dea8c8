package main

import (
	"sync"
	"sync/atomic"
)

type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLower
	TTUpper
)

type TTEntry struct {
	Key      uint64
	Depth    int
	Value    float64
	Flag     TTFlag
	BestMove Move
	Gen      uint32
	Valid    bool
}

// TranspositionTable is a fixed-size, set-associative cache of search
// results keyed by position hash. Striped locks keep concurrent searches
// (game AI plus any background proposer) from serializing on one mutex.
type TranspositionTable struct {
	mask        uint64
	buckets     int
	entries     []TTEntry
	stripeLocks []sync.RWMutex
	stripeMask  uint64
	gen         atomic.Uint32
	count       atomic.Int64
}

func NewTranspositionTable(size uint64, buckets int) *TranspositionTable {
	if buckets <= 0 {
		buckets = 2
	}
	if size < 1 {
		size = 1
	}
	if (size & (size - 1)) != 0 {
		size = nextPowerOfTwo(size)
	}
	maxStripes := 64
	if int(size) < maxStripes {
		maxStripes = int(size)
	}
	stripes := 1
	for stripes*2 <= maxStripes {
		stripes *= 2
	}
	tt := &TranspositionTable{
		mask:        size - 1,
		buckets:     buckets,
		entries:     make([]TTEntry, int(size)*buckets),
		stripeLocks: make([]sync.RWMutex, stripes),
		stripeMask:  uint64(stripes - 1),
	}
	tt.gen.Store(1)
	return tt
}

func (tt *TranspositionTable) NextGeneration() {
	gen := tt.gen.Add(1)
	if gen == 0 {
		tt.gen.CompareAndSwap(0, 1)
	}
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.stripeLocks {
		tt.stripeLocks[i].Lock()
	}
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.count.Store(0)
	tt.gen.Store(1)
	for i := range tt.stripeLocks {
		tt.stripeLocks[i].Unlock()
	}
}

func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	lock := &tt.stripeLocks[key&tt.stripeMask]
	lock.RLock()
	defer lock.RUnlock()
	start := tt.bucketIndex(key)
	for i := 0; i < tt.buckets; i++ {
		entry := tt.entries[start+i]
		if entry.Valid && entry.Key == key {
			return entry, true
		}
	}
	return TTEntry{}, false
}

// Store keeps the deepest entry per key; among strangers it evicts the
// shallowest entry of the oldest generation. Returns whether an existing
// entry was replaced.
func (tt *TranspositionTable) Store(key uint64, depth int, value float64, flag TTFlag, best Move) bool {
	lock := &tt.stripeLocks[key&tt.stripeMask]
	lock.Lock()
	defer lock.Unlock()
	gen := tt.gen.Load()
	start := tt.bucketIndex(key)
	victim := -1
	victimDepth := 0
	victimAge := uint32(0)
	for i := 0; i < tt.buckets; i++ {
		idx := start + i
		entry := tt.entries[idx]
		if entry.Valid && entry.Key == key {
			if depth >= entry.Depth {
				tt.entries[idx] = TTEntry{Key: key, Depth: depth, Value: value, Flag: flag, BestMove: best, Gen: gen, Valid: true}
			}
			return true
		}
		if !entry.Valid {
			if victim == -1 || tt.entries[victim].Valid {
				victim = idx
			}
			continue
		}
		age := gen - entry.Gen
		if victim == -1 || (tt.entries[victim].Valid && (age > victimAge || (age == victimAge && entry.Depth < victimDepth))) {
			victim = idx
			victimDepth = entry.Depth
			victimAge = age
		}
	}
	if victim < 0 {
		return false
	}
	replaced := tt.entries[victim].Valid
	if !replaced {
		tt.count.Add(1)
	}
	tt.entries[victim] = TTEntry{Key: key, Depth: depth, Value: value, Flag: flag, BestMove: best, Gen: gen, Valid: true}
	return replaced
}

func (tt *TranspositionTable) Count() int {
	return int(tt.count.Load())
}

func (tt *TranspositionTable) Capacity() int {
	return len(tt.entries)
}

func (tt *TranspositionTable) bucketIndex(key uint64) int {
	return int(key&tt.mask) * tt.buckets
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}
