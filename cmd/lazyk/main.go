// Command lazyk interprets a Lazy K program: it reads combinator source
// from one or more fragments, composes them, and drives the graph
// reducer against standard input and standard output until the output
// stream's Church-numeral end-of-stream sentinel is produced.
package main

import (
	"log"
	"os"

	"github.com/cielavenir/lazyk/internal/cli"
	"github.com/cielavenir/lazyk/internal/heap"
	"github.com/cielavenir/lazyk/internal/reduce"
)

// defaultHeapCells sizes each arena generously enough that ordinary
// programs never see a mid-parse collection (the parser does check and
// can collect, like the reducer, but only pathologically large source
// text exhausts an arena this size before parsing finishes; see
// DESIGN.md) and that typical reductions run for a long time between
// collections.
const defaultHeapCells = 1 << 20

func main() {
	log.SetFlags(0)
	log.SetPrefix("lazyk: ")

	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	h := heap.New(defaultHeapCells)

	program, input, err := cli.Load(h, opts, cli.StdinIsTerminal, os.Stdin)
	if err != nil {
		log.Println(err)
		os.Exit(cli.ExitCode(err))
	}

	code, err := reduce.Run(h, program, input, os.Stdout)
	if err != nil {
		log.Println(err)
		os.Exit(cli.ExitCode(err))
	}

	os.Exit(code)
}
