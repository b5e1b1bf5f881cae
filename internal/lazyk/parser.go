// Package lazyk implements the surface-syntax parser for Lazy K source
// text. spec.md §1 scopes this as an external collaborator with "no
// interesting algorithm"; it is a small hand-written recursive-descent
// reader, in the style of daios-ai-msg's lexer.go/parser.go (also
// hand-written recursive descent, for a much larger grammar) rather than
// a parser-combinator or generated-lexer library, since nothing in the
// retrieval pack reaches for one at this grammar size.
package lazyk

import (
	"fmt"

	"github.com/cielavenir/lazyk/internal/diag"
	"github.com/cielavenir/lazyk/internal/heap"
)

// iotaMode tracks whether the parser is inside a '*'-prefixed
// expression, where 'i' denotes Iota rather than I (spec.md §6).
type iotaMode bool

const (
	backtickMode iotaMode = false
	asteriskMode iotaMode = true
)

type parser struct {
	src []byte
	pos int
	h   *heap.Heap

	// pending holds every cell already built that an enclosing parseExpr
	// frame still needs once the recursive call it is waiting on
	// returns. Since a Go call-stack local is invisible to the
	// collector, each frame pushes what it is holding before recursing
	// further and re-reads it (in case a collection relocated it) before
	// popping, mirroring the ancestor-stack rooting discipline in
	// internal/reduce.
	pending []*heap.Cell
}

// checkRooted reserves n cells, rooting stack (updated in place with any
// relocated values) plus extra, and reports the (possibly relocated)
// extras. Identical in shape to internal/reduce's helper of the same
// name; kept local to this package rather than shared, since the two
// packages pin different things (an ancestor stack there, a parser's
// pending-cell stack here).
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
	return rest, err
}

// Parse reads a whole Lazy K program from src: a left-associated fold
// of every top-level expression up to end of input, the way
// original_source/lazy.cpp's parse_manual_close(stream, EOF) reads a
// whole program rather than a single parenthesized group. A source
// that is empty (once comments and whitespace are discarded) folds to
// the identity combinator, matching that function's `if (e == 0) e =
// &cI;` default.
func Parse(h *heap.Heap, src []byte) (*heap.Cell, error) {
	p := &parser{src: src, h: h}
	return p.foldExprs(func() bool {
		p.skipSpace()
		return !p.eof()
	})
}

// ParsePrefix reads a left-associated fold of the top-level
// expressions at the start of src, stopping as soon as what follows no
// longer looks like the start of another expression (or at EOF), and
// returns the fold along with the number of bytes consumed. Used when
// src is standard input shared between the program's own source text
// and its runtime input stream (spec.md §6's "-" convention): whatever
// ParsePrefix does not consume becomes the first bytes LazyRead will
// read, so unlike Parse it must not demand the rest of src also be
// valid Lazy K syntax.
func ParsePrefix(h *heap.Heap, src []byte) (*heap.Cell, int, error) {
	p := &parser{src: src, h: h}
	e, err := p.foldExprs(func() bool {
		p.skipSpace()
		return !p.eof() && p.atExprStart()
	})
	if err != nil {
		return nil, 0, err
	}
	return e, p.pos, nil
}

// atExprStart reports whether the next byte could begin a parseExpr
// production: a backtick/asterisk application, a parenthesized list, a
// digit-run numeral, or a recognized atom letter. Deliberately narrower
// than isAlpha: an arbitrary letter (e.g. the 'h' starting "hello") is
// not a valid atom, and ParsePrefix must stop before it rather than
// hand it to parseAtom and fail the whole parse.
func (p *parser) atExprStart() bool {
	switch p.peek() {
	case '`', '*', '(', '0', '1', 'S', 's', 'K', 'k', 'I', 'i':
		return true
	default:
		return false
	}
}

// foldExprs reads a left-associated sequence of top-level expressions,
// always in backtick mode regardless of any enclosing asterisk context
// (original_source/lazy.cpp's parse_manual_close always calls
// parse_expr(f, peek, false)), stopping as soon as more reports false.
// An empty sequence folds to the identity combinator.
func (p *parser) foldExprs(more func() bool) (*heap.Cell, error) {
	var result *heap.Cell
	for more() {
		if result == nil {
			e, err := p.parseExpr(backtickMode)
			if err != nil {
				return nil, err
			}
			result = e
			continue
		}
		p.pending = append(p.pending, result)
		next, err := p.parseExpr(backtickMode)
		result = p.pending[len(p.pending)-1]
		p.pending = p.pending[:len(p.pending)-1]
		if err != nil {
			return nil, err
		}
		result, err = p.app(result, next)
		if err != nil {
			return nil, err
		}
	}
	if result == nil {
		return p.h.Statics.I, nil
	}
	return result, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &diag.SourceError{
		Msg:    fmt.Sprintf(format, args...),
		Source: p.src,
		Offset: p.pos,
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	return c
}

func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		case isSpace(c):
			p.pos++
		default:
			return
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit01(c byte) bool { return c == '0' || c == '1' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parseExpr reads one expression: a backtick application, an asterisk
// application, a parenthesized application list, an atom, or a digit-run
// numeral literal.
func (p *parser) parseExpr(mode iotaMode) (*heap.Cell, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	c := p.peek()
	switch {
	case c == '`':
		p.advance()
		f, err := p.parseExpr(mode)
		if err != nil {
			return nil, err
		}
		p.pending = append(p.pending, f)
		x, err := p.parseExpr(mode)
		f = p.pending[len(p.pending)-1]
		p.pending = p.pending[:len(p.pending)-1]
		if err != nil {
			return nil, err
		}
		return p.app(f, x)

	case c == '*':
		p.advance()
		f, err := p.parseExpr(asteriskMode)
		if err != nil {
			return nil, err
		}
		p.pending = append(p.pending, f)
		x, err := p.parseExpr(asteriskMode)
		f = p.pending[len(p.pending)-1]
		p.pending = p.pending[:len(p.pending)-1]
		if err != nil {
			return nil, err
		}
		return p.app(f, x)

	case c == '(':
		p.advance()
		result, err := p.foldExprs(func() bool {
			p.skipSpace()
			return !p.eof() && p.peek() != ')'
		})
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated parenthesized list")
		}
		p.advance() // consume ')'
		return result, nil

	case isDigit01(c):
		return p.parseNumeral()

	case isAlpha(c):
		return p.parseAtom(mode)

	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

// parseNumeral folds a maximal run of 0/1 digits into a combinator,
// starting from I: digit 0 maps e -> A(A(e, S), K); digit 1 maps
// e -> A(S, A(K, e)). Literal digits denote I regardless of the
// enclosing iota mode; only the lowercase letter i is mode-sensitive.
func (p *parser) parseNumeral() (*heap.Cell, error) {
	e := p.h.Statics.I
	for !p.eof() && isDigit01(p.peek()) {
		d := p.advance()
		var err error
		if d == '0' {
			e, err = p.app(e, p.h.Statics.S)
			if err != nil {
				return nil, err
			}
			e, err = p.app(e, p.h.Statics.K)
		} else {
			var inner *heap.Cell
			inner, err = p.app(p.h.Statics.K, e)
			if err != nil {
				return nil, err
			}
			e, err = p.app(p.h.Statics.S, inner)
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (p *parser) parseAtom(mode iotaMode) (*heap.Cell, error) {
	c := p.advance()
	switch c {
	case 'S', 's':
		return p.h.Statics.S, nil
	case 'K', 'k':
		return p.h.Statics.K, nil
	case 'I':
		return p.h.Statics.I, nil
	case 'i':
		if mode == asteriskMode {
			return p.h.Statics.Iota, nil
		}
		return p.h.Statics.I, nil
	default:
		p.pos--
		return nil, p.errorf("unexpected atom %q", c)
	}
}

// app allocates A(f, x), first verifying (and if necessary collecting
// for) one cell of space. p.pending is rooted alongside f and x so a
// mid-parse collection cannot strand a pointer some enclosing frame is
// still holding on the Go call stack.
func (p *parser) app(f, x *heap.Cell) (*heap.Cell, error) {
	extra, err := checkRooted(p.h, 1, p.pending, f, x)
	if err != nil {
		return nil, err
	}
	f, x = extra[0], extra[1]

	c := p.h.Alloc()
	c.Tag = heap.A
	c.Arg1 = f
	c.Arg2 = x
	return c, nil
}
