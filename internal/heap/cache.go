package heap

// charCacheSize covers byte values 0..255 plus the 256 end-of-stream
// sentinel.
const charCacheSize = 257

// CharCache maps byte values 0..255 and the end-of-stream sentinel 256
// to canonical Church-numeral graphs. Entries are populated eagerly so
// the I/O fast path never allocates, and are treated as GC roots because
// reduction can rewrite an entry in place (spec.md §4.3).
type CharCache struct {
	entries [charCacheSize]*Cell
}

func newCharCache(h *Heap) *CharCache {
	cc := &CharCache{}
	st := h.Statics
	cc.entries[0] = st.KI
	cc.entries[1] = st.I
	for i := 2; i < charCacheSize; i++ {
		// ccc[i] = S2(SKSK, ccc[i-1]); these live in the arena (not
		// static) because, per spec.md §4.3, reduction can destructively
		// rewrite a cache entry, e.g. when it becomes the head of a
		// LazyRead rewrite and is subsequently mutated further.
		c := h.Alloc()
		c.Tag = S2
		c.Arg1 = st.SKSK
		c.Arg2 = cc.entries[i-1]
		cc.entries[i] = c
	}
	return cc
}

// Get returns the canonical Church numeral for n, which must be in
// [0, 256].
func (cc *CharCache) Get(n int) *Cell {
	return cc.entries[n]
}

// Decode reports the byte/sentinel value n such that Get(n) originally
// produced cell, by identity. It is used only by tests to verify the
// round-trip property in spec.md §8; production code never needs to go
// from cell back to n.
func (cc *CharCache) Decode(cell *Cell) (int, bool) {
	for i, e := range cc.entries {
		if e == cell {
			return i, true
		}
	}
	return 0, false
}
