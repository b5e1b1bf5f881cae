// Package cli implements the Lazy K command-line surface described in
// spec.md §6: positional source files, -e for an inline program, a bare
// "-" operand for standard input, and -b accepted and ignored. It is
// grounded on michaelmacinnis-oh's internal/system/options package,
// which wraps github.com/docopt/docopt-go around a usage docstring; the
// one deliberate departure from that file's style is returning a
// value-typed Options rather than package-level globals, so this
// package stays testable without mutating process state (recorded in
// DESIGN.md).
package cli

import (
	"github.com/docopt/docopt-go"
)

const usage = `lazyk

Usage:
  lazyk [-b] [-e PROGRAM] [--] [SOURCE...]
  lazyk -h

Arguments:
  SOURCE   Path to a Lazy K source file. A bare "-" reads from standard
           input. Multiple sources pipe in argument order: each later
           SOURCE (and -e's PROGRAM, always last) wraps the ones before
           it, the same way piping commands through a shell does.

Options:
  -e PROGRAM   Evaluate PROGRAM as an additional source fragment.
  -b           Accepted for compatibility with other Lazy K interpreters;
               binary mode is always in effect. Has no other effect.
  -h, --help   Display this help.
`

// Options is the parsed command line.
type Options struct {
	Sources []string // file paths, "-" for stdin
	Inline  string   // -e PROGRAM, "" if absent
	HasInline bool
	Binary  bool // -b; accepted, has no behavioral effect
}

// Parse parses argv (excluding the program name, as os.Args[1:]) using
// the docopt usage grammar above.
func Parse(argv []string) (*Options, error) {
	parsed, err := docopt.ParseArgs(usage, argv, "")
	if err != nil {
		return nil, err
	}

	opts := &Options{}

	if sources, ok := parsed["SOURCE"].([]string); ok {
		opts.Sources = sources
	}

	if program, ok := parsed["-e"].(string); ok {
		opts.Inline = program
		opts.HasInline = true
	}

	if b, ok := parsed["-b"].(bool); ok {
		opts.Binary = b
	}

	return opts, nil
}
