package reduce

import "fmt"

// FormatError covers the exit-code-3 family from spec.md §7: a result
// that reduces to something other than a number where a number was
// required, applying a Num as a function, or integer overflow in Inc.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "invalid output format (" + e.Msg + ")" }

// InternalError covers the exit-code-4 family: an impossible tag
// reached in the primitive rewrite table, an invariant violation the
// reducer itself cannot recover from.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return fmt.Sprintf("internal error: %s", e.Msg) }
