package reduce

import "github.com/cielavenir/lazyk/internal/heap"

// referenceWHNF is the "reference stack-based recursive evaluator" that
// spec.md §8 calls for: the same primitive-rewrite table as WHNF, but
// driven by ordinary Go recursion instead of an explicit ancestor stack,
// in the style of sillsm-lillambda's Reduce() method. It is safe only on
// terms small enough that no collection occurs mid-reduction, since it
// passes a nil ancestor stack to step and so cannot root a reduction in
// progress on the Go call stack across a collection; production code
// must use Evaluator.WHNF, not this.
func (ev *Evaluator) referenceWHNF(cur *heap.Cell) (*heap.Cell, error) {
	for cur.Tag == heap.I1 {
		target := cur.Arg1
		for target.Tag == heap.I1 {
			target = target.Arg1
		}
		cur.Arg1 = target
		cur = target
	}

	if cur.Tag != heap.A {
		return cur, nil
	}

	lhs, err := ev.referenceWHNF(cur.Arg1)
	if err != nil {
		return nil, err
	}

	result, err := ev.step(cur, lhs, nil)
	if err != nil {
		return nil, err
	}

	return ev.referenceWHNF(result)
}
