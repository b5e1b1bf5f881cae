package reduce

import (
	"io"

	"github.com/cielavenir/lazyk/internal/heap"
)

// Run drives the top-level Church-numeral I/O loop described in
// spec.md §4.5: build the top-level root A(program, LazyRead), then
// repeatedly extract car(top), decode it to a byte via Inc, write it (or
// stop if it decodes to >= 256), and replace top by cdr(top).
//
// It returns the process exit code: 0 on a clean end of output,
// value-256 when the program requests an early exit by emitting a
// Church numeral above the sentinel, or a non-nil error for any of the
// exit-3/exit-4 conditions in spec.md §7 (the caller maps these to exit
// codes; Run itself never terminates the process).
func Run(h *heap.Heap, program *heap.Cell, in io.Reader, out io.Writer) (int, error) {
	ev := New(h, in)

	lazyRead := h.Alloc()
	lazyRead.Tag = heap.LazyRead

	top := h.Alloc()
	top.Tag = heap.A
	top.Arg1 = program
	top.Arg2 = lazyRead
	h.Roots.Top = top

	for {
		if err := h.Check(1); err != nil {
			return 0, err
		}
		car := h.Alloc()
		car.Tag = heap.A
		car.Arg1 = h.Roots.Top
		car.Arg2 = h.Statics.K

		relocated, err := h.CheckRooted(2, car)
		if err != nil {
			return 0, err
		}
		car = relocated[0]

		head := h.Alloc()
		head.Tag = heap.A
		head.Arg1 = car
		head.Arg2 = h.Statics.Inc

		decoder := h.Alloc()
		decoder.Tag = heap.A
		decoder.Arg1 = head
		decoder.Arg2 = h.Statics.Num0
		h.Roots.Decode = decoder

		result, err := ev.WHNF(decoder)
		if err != nil {
			return 0, err
		}
		if result.Tag != heap.Num {
			return 0, &FormatError{Msg: "result was not a number"}
		}
		value := result.NumVal
		h.Roots.Decode = nil

		if value >= 256 {
			return int(value - 256), nil
		}

		if _, err := out.Write([]byte{byte(value)}); err != nil {
			return 0, err
		}

		if err := h.Check(1); err != nil {
			return 0, err
		}
		newTop := h.Alloc()
		newTop.Tag = heap.A
		newTop.Arg1 = h.Roots.Top
		newTop.Arg2 = h.Statics.KI
		h.Roots.Top = newTop
	}
}
