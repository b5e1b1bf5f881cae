package cli

import (
	"errors"

	"github.com/cielavenir/lazyk/internal/diag"
	"github.com/cielavenir/lazyk/internal/heap"
	"github.com/cielavenir/lazyk/internal/reduce"
)

// ExitCode maps an error returned by Load/reduce.Run to the process
// exit code table in spec.md §7. Only cmd/lazyk calls this: the rest of
// the module returns plain errors so it stays usable as a library.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var sourceErr *diag.SourceError
	if errors.As(err, &sourceErr) {
		return 1
	}
	if errors.Is(err, ErrNoSource) {
		return 1
	}

	var formatErr *reduce.FormatError
	if errors.As(err, &formatErr) {
		return 3
	}

	var internalErr *reduce.InternalError
	if errors.As(err, &internalErr) {
		return 4
	}

	var oomErr *heap.OutOfMemoryError
	if errors.As(err, &oomErr) {
		return 4
	}

	return 1
}
