// Package reduce implements the normal-order graph-reduction engine and
// the Church-numeral I/O driver described in spec.md §4.4-4.5. The
// teacher (cauefcr-HVM's runtime.go) drives its own spine walk with an
// explicit Stk rather than the pointer-threading spec.md §4.4.1
// describes literally; this port follows the teacher's shape, which
// spec.md §9 explicitly sanctions ("An implementation may instead use
// an explicit ancestor stack... the observable behavior must be
// identical").
package reduce

import (
	"io"

	"github.com/cielavenir/lazyk/internal/heap"
)

// Evaluator bundles the heap and the byte source that LazyRead forces
// against. Per spec.md §5/§9 it carries no package-level state, so a
// caller may run several independent evaluators (e.g. one per test).
type Evaluator struct {
	Heap *heap.Heap
	In   io.Reader
}

// New constructs an Evaluator over h, reading LazyRead bytes from in.
func New(h *heap.Heap, in io.Reader) *Evaluator {
	return &Evaluator{Heap: h, In: in}
}

// WHNF reduces root to weak head normal form: it rewrites the graph in
// place and returns the resulting cell, whose tag is guaranteed not to
// be A.
//
// The spine is walked with an explicit ancestor stack of application
// cells rather than by C-stack recursion, so C-stack use is O(1); the
// ancestor stack itself lives in ordinary Go memory (not the heap), so
// every allocating step below roots the whole stack across any
// operation that might trigger GC, exactly as check_rooted does for the
// single pointers it covers in the source design.
func (ev *Evaluator) WHNF(root *heap.Cell) (*heap.Cell, error) {
	stack := make([]*heap.Cell, 0, 64)
	cur := root

	for {
		// Compress I1 chains: an I1(x) cell means the same thing as x;
		// follow the chain to its end and overwrite the outermost I1's
		// child with the terminal node (path compression). Pure sharing
		// optimization, no allocation.
		for cur.Tag == heap.I1 {
			target := cur.Arg1
			for target.Tag == heap.I1 {
				target = target.Arg1
			}
			cur.Arg1 = target
			cur = target
		}

		if cur.Tag == heap.A {
			stack = append(stack, cur)
			cur = cur.Arg1
			continue
		}

		if len(stack) == 0 {
			return cur, nil
		}

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		result, err := ev.step(e, cur, stack)
		if err != nil {
			return nil, err
		}
		ev.Heap.Stats.Rewrites++
		cur = result
	}
}

// checkRooted reserves n cells, rooting the ancestor stack plus any
// extra live pointers across a possible collection, and reports the
// (possibly relocated) extras. stack is updated in place.
func checkRooted(h *heap.Heap, n int, stack []*heap.Cell, extra ...*heap.Cell) ([]*heap.Cell, error) {
	if len(stack)+len(extra) == 0 {
		return extra, h.Check(n)
	}
	all := make([]*heap.Cell, 0, len(stack)+len(extra))
	all = append(all, stack...)
	all = append(all, extra...)
	relocated, err := h.CheckRooted(n, all...)
	copy(stack, relocated[:len(stack)])
	rest := relocated[len(stack):]
	if err != nil {
		return rest, err
	}
	return rest, nil
}

// step performs one primitive rewrite of the application cell e = A(lhs,
// e.Arg2), per the table in spec.md §4.4.2. It returns the cell at
// which reduction should continue.
func (ev *Evaluator) step(e, lhs *heap.Cell, stack []*heap.Cell) (*heap.Cell, error) {
	switch lhs.Tag {
	case heap.I:
		rhs := e.Arg2
		e.Tag = heap.I1
		e.Arg1 = rhs
		e.Arg2 = nil
		return e.Arg1, nil

	case heap.K:
		rhs := e.Arg2
		e.Tag = heap.K1
		e.Arg1 = rhs
		e.Arg2 = nil
		return e, nil

	case heap.K1:
		x := lhs.Arg1
		e.Tag = heap.I1
		e.Arg1 = x
		e.Arg2 = nil
		return x, nil

	case heap.S:
		rhs := e.Arg2
		e.Tag = heap.S1
		e.Arg1 = rhs
		e.Arg2 = nil
		return e, nil

	case heap.S1:
		x := lhs.Arg1
		rhs := e.Arg2
		e.Tag = heap.S2
		e.Arg1 = x
		e.Arg2 = rhs
		return e, nil

	case heap.S2:
		return ev.stepS2(e, lhs, stack)

	case heap.LazyRead:
		return ev.stepLazyRead(e, lhs, stack)

	case heap.Inc:
		return ev.stepInc(e, stack)

	case heap.Num:
		return nil, &FormatError{Msg: "attempted to apply a number"}

	default:
		return nil, &InternalError{Msg: "impossible tag in primitive rewrite: " + lhs.Tag.String()}
	}
}

// stepS2 rewrites e = A(S2(x, y), rhs) to A(A(x, rhs), A(y, rhs)),
// duplicating rhs by sharing (both branches reference the same cell).
func (ev *Evaluator) stepS2(e, lhs *heap.Cell, stack []*heap.Cell) (*heap.Cell, error) {
	h := ev.Heap
	x, y, rhs := lhs.Arg1, lhs.Arg2, e.Arg2

	extra, err := checkRooted(h, 2, stack, e, x, y, rhs)
	if err != nil {
		return nil, err
	}
	e, x, y, rhs = extra[0], extra[1], extra[2], extra[3]

	left := h.Alloc()
	left.Tag = heap.A
	left.Arg1 = x
	left.Arg2 = rhs

	right := h.Alloc()
	right.Tag = heap.A
	right.Arg1 = y
	right.Arg2 = rhs

	e.Tag = heap.A
	e.Arg1 = left
	e.Arg2 = right
	return e, nil
}

// stepLazyRead consumes one byte from the input stream (or produces 256
// at end of stream) and rewrites the LazyRead cell itself into
// S2(S2(I, K1(ccc[b])), K1(LazyRead')), the cons cell of ccc[b] and a
// fresh LazyRead, then falls through to the S2
// rewrite using the updated head. Rewriting the LazyRead cell in place,
// rather than e, is essential: every other holder of the reference
// observes the same byte.
func (ev *Evaluator) stepLazyRead(e, lhs *heap.Cell, stack []*heap.Cell) (*heap.Cell, error) {
	h := ev.Heap

	var buf [1]byte
	b := 256
	if n, _ := ev.In.Read(buf[:]); n == 1 {
		b = int(buf[0])
	}

	extra, err := checkRooted(h, 6, stack, e, lhs)
	if err != nil {
		return nil, err
	}
	e, lhs = extra[0], extra[1]

	st := h.Statics
	ccc := h.Cache.Get(b)

	k1ccc := h.Alloc()
	k1ccc.Tag = heap.K1
	k1ccc.Arg1 = ccc

	left := h.Alloc()
	left.Tag = heap.S2
	left.Arg1 = st.I
	left.Arg2 = k1ccc

	fresh := h.Alloc()
	fresh.Tag = heap.LazyRead

	k1fresh := h.Alloc()
	k1fresh.Tag = heap.K1
	k1fresh.Arg1 = fresh

	lhs.Tag = heap.S2
	lhs.Arg1 = left
	lhs.Arg2 = k1fresh

	return ev.stepS2(e, lhs, stack)
}

// stepInc forces e.Arg2 to WHNF (bounded recursion on the emitted
// integer's magnitude, per spec.md §4.4.2/§9), demands a Num, and
// rewrites e to Num(n+1).
func (ev *Evaluator) stepInc(e *heap.Cell, stack []*heap.Cell) (*heap.Cell, error) {
	h := ev.Heap
	rhs := e.Arg2

	// The outer ancestor stack lives outside the heap's root table; it
	// must be rooted for the full duration of the nested WHNF call,
	// not just around one allocation, since that call may collect
	// arbitrarily many times.
	pinned := append(append([]*heap.Cell{}, stack...), e, rhs)
	base := h.Roots.Push(pinned)
	result, err := ev.WHNF(rhs)
	relocated := h.Roots.Pop(base, len(pinned))
	copy(stack, relocated[:len(stack)])
	e = relocated[len(stack)]

	if err != nil {
		return nil, err
	}
	if result.Tag != heap.Num {
		return nil, &FormatError{Msg: "result was not a number"}
	}
	n := result.NumVal
	if n == 1<<63-1 {
		return nil, &FormatError{Msg: "integer overflow in Inc"}
	}
	e.Tag = heap.Num
	e.NumVal = n + 1
	e.Arg1 = nil
	e.Arg2 = nil
	return e, nil
}
