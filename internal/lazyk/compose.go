package lazyk

import "github.com/cielavenir/lazyk/internal/heap"

// Compose combines multiple parsed source fragments in Unix pipe order:
// the first-given fragment runs first against the raw input, and each
// later fragment wraps the accumulated result as the new outermost
// function, per spec.md §6's compose(f, g) = S2(K1(f), g) applied with
// f = the later fragment and g = everything built so far. A single
// fragment is returned unchanged.
func Compose(h *heap.Heap, fragments []*heap.Cell) (*heap.Cell, error) {
	if len(fragments) == 0 {
		return h.Statics.I, nil
	}
	result := fragments[0]
	for i := 1; i < len(fragments); i++ {
		var err error
		result, err = composeTwo(h, fragments, i, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// composeTwo builds S2(K1(fragments[i]), result), wrapping result with
// fragments[i] as the new outer function. fragments (which still holds
// every fragment not yet folded in) and result are rooted together
// across the allocation, since fragments is an ordinary Go slice the
// collector cannot see on its own.
func composeTwo(h *heap.Heap, fragments []*heap.Cell, i int, result *heap.Cell) (*heap.Cell, error) {
	rest, err := checkRooted(h, 2, fragments, result)
	if err != nil {
		return nil, err
	}
	result = rest[0]
	f := fragments[i]

	k1f := h.Alloc()
	k1f.Tag = heap.K1
	k1f.Arg1 = f

	c := h.Alloc()
	c.Tag = heap.S2
	c.Arg1 = k1f
	c.Arg2 = result
	return c, nil
}
