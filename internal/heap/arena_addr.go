package heap

import "unsafe"

// uintptrOffset returns the cell index of c counted from base, or a
// negative number if c lies before base or is not on a cell boundary.
// It does not know the slice length: the caller checks the upper bound.
// The teacher (runtime.go) reaches for the unsafe package to compute
// Sizeof for its packed-pointer arithmetic; InArena needs the same kind
// of raw address comparison to distinguish an arena-resident cell from a
// static atom or a pointer into the retired arena.
func uintptrOffset(c, base *Cell) int64 {
	size := unsafe.Sizeof(*base)
	cAddr := uintptr(unsafe.Pointer(c))
	baseAddr := uintptr(unsafe.Pointer(base))
	if cAddr < baseAddr {
		return -1
	}
	diff := cAddr - baseAddr
	if diff%size != 0 {
		return -1
	}
	return int64(diff / size)
}
