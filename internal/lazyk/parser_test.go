package lazyk

import (
	"testing"

	"github.com/cielavenir/lazyk/internal/heap"
)

func TestParseAtoms(t *testing.T) {
	h := heap.New(1024)
	cases := map[string]*heap.Cell{
		"S": h.Statics.S,
		"s": h.Statics.S,
		"K": h.Statics.K,
		"k": h.Statics.K,
		"I": h.Statics.I,
	}
	for src, want := range cases {
		got, err := Parse(h, []byte(src))
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %v, want the static atom", src, got.Tag)
		}
	}
}

func TestParseLowercaseIIsIdentityOutsideAsteriskMode(t *testing.T) {
	h := heap.New(1024)
	got, err := Parse(h, []byte("i"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != h.Statics.I {
		t.Fatalf("bare 'i' outside asterisk mode must be I, got %v", got.Tag)
	}
}

func TestParseLowercaseIIsIotaInAsteriskMode(t *testing.T) {
	h := heap.New(1024)
	got, err := Parse(h, []byte("*ii"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A {
		t.Fatalf("expected an application cell, got %v", got.Tag)
	}
	if got.Arg1 != h.Statics.Iota || got.Arg2 != h.Statics.Iota {
		t.Fatalf("*ii should apply Iota to Iota, both operands forced into asterisk mode")
	}
}

func TestParseBacktickApplicationIsLeftToRight(t *testing.T) {
	h := heap.New(1024)
	// `` SKK == A(A(S,K),K)
	got, err := Parse(h, []byte("``SKK"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A || got.Arg2 != h.Statics.K {
		t.Fatalf("unexpected shape for ``SKK: %v", got.Tag)
	}
	inner := got.Arg1
	if inner.Tag != heap.A || inner.Arg1 != h.Statics.S || inner.Arg2 != h.Statics.K {
		t.Fatalf("expected A(S,K) as the left child, got tag %v", inner.Tag)
	}
}

func TestParseParenthesizedListIsLeftAssociated(t *testing.T) {
	h := heap.New(1024)
	got, err := Parse(h, []byte("(S K K)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A || got.Arg2 != h.Statics.K {
		t.Fatalf("unexpected shape for (S K K): %v", got.Tag)
	}
	inner := got.Arg1
	if inner.Tag != heap.A || inner.Arg1 != h.Statics.S || inner.Arg2 != h.Statics.K {
		t.Fatalf("expected A(S,K) as the left child, got tag %v", inner.Tag)
	}
}

func TestParseDigitRunNumeralStructure(t *testing.T) {
	h := heap.New(1024)
	// "01": start from I, apply digit 0 (e -> A(A(e,S),K)), then digit 1
	// (e -> A(S,A(K,e))): A(S, A(K, A(A(I,S), K)))
	got, err := Parse(h, []byte("01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A || got.Arg1 != h.Statics.S {
		t.Fatalf("expected A(S, ...) at the top, got %v", got.Tag)
	}
	mid := got.Arg2
	if mid.Tag != heap.A || mid.Arg1 != h.Statics.K {
		t.Fatalf("expected A(K, ...) in the middle, got %v", mid.Tag)
	}
	inner := mid.Arg2
	if inner.Tag != heap.A || inner.Arg2 != h.Statics.K {
		t.Fatalf("expected A(_, K) innermost, got %v", inner.Tag)
	}
	base := inner.Arg1
	if base.Tag != heap.A || base.Arg1 != h.Statics.I || base.Arg2 != h.Statics.S {
		t.Fatalf("expected A(I, S) at the base, got %v", base.Tag)
	}
}

func TestParseDigitsAlwaysDenoteIEvenInAsteriskMode(t *testing.T) {
	h := heap.New(1024)
	got, err := Parse(h, []byte("*0i"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0 folds from I to A(A(I,S),K); the second operand i must be Iota.
	if got.Tag != heap.A || got.Arg2 != h.Statics.Iota {
		t.Fatalf("second operand of *0i should be Iota, got %v", got.Arg2.Tag)
	}
}

func TestParseSkipsCommentsAndWhitespace(t *testing.T) {
	h := heap.New(1024)
	src := "  # a comment\n `  S # trailing\n K K\n"
	got, err := Parse(h, []byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The backtick application `S K is followed by a second top-level K,
	// which Parse folds in: A(A(S, K), K).
	if got.Tag != heap.A || got.Arg2 != h.Statics.K {
		t.Fatalf("unexpected parse of commented source: %v", got.Tag)
	}
	inner := got.Arg1
	if inner.Tag != heap.A || inner.Arg1 != h.Statics.S || inner.Arg2 != h.Statics.K {
		t.Fatalf("expected A(S, K) as the left child, got tag %v", inner.Tag)
	}
}

func TestParseBareJuxtapositionOfTwoAtomsFoldsLeftAssociated(t *testing.T) {
	h := heap.New(1024)
	// "SK" is not trailing garbage after a complete program: it is two
	// top-level atoms juxtaposed without backticks, folding to A(S, K)
	// exactly as original_source/lazy.cpp's parse_manual_close(stream,
	// EOF) would left-fold them via partial_apply.
	got, err := Parse(h, []byte("SK"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A || got.Arg1 != h.Statics.S || got.Arg2 != h.Statics.K {
		t.Fatalf("expected A(S, K), got %v", got.Tag)
	}
}

func TestParseBareJuxtapositionOfFourAtomsFoldsLeftAssociated(t *testing.T) {
	h := heap.New(1024)
	// "SKKI" == ((S K) K) I
	got, err := Parse(h, []byte("SKKI"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A || got.Arg2 != h.Statics.I {
		t.Fatalf("expected A(_, I) at the top, got %v", got.Tag)
	}
	mid := got.Arg1
	if mid.Tag != heap.A || mid.Arg2 != h.Statics.K {
		t.Fatalf("expected A(_, K) in the middle, got %v", mid.Tag)
	}
	base := mid.Arg1
	if base.Tag != heap.A || base.Arg1 != h.Statics.S || base.Arg2 != h.Statics.K {
		t.Fatalf("expected A(S, K) at the base, got %v", base.Tag)
	}
}

func TestParseEmptyProgramIsIdentity(t *testing.T) {
	h := heap.New(1024)
	got, err := Parse(h, []byte("  # just a comment\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != h.Statics.I {
		t.Fatalf("an empty program should fold to the static I atom, got %v", got.Tag)
	}
}

func TestParseEmptyParenListIsIdentity(t *testing.T) {
	h := heap.New(1024)
	got, err := Parse(h, []byte("()"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != h.Statics.I {
		t.Fatalf("() should default to the static I atom, got %v", got.Tag)
	}
}

func TestParseParenElementsAlwaysUseBacktickMode(t *testing.T) {
	h := heap.New(1024)
	// *(i)I: the (i) is reached through a '*' prefix, but
	// parse_manual_close always parses list elements with iota mode
	// forced off, so the i inside the parens means I, not Iota.
	got, err := Parse(h, []byte("*(i)I"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != heap.A || got.Arg1 != h.Statics.I || got.Arg2 != h.Statics.I {
		t.Fatalf("expected A(I, I), got %v", got.Tag)
	}
}

func TestParseRejectsUnknownAtom(t *testing.T) {
	h := heap.New(1024)
	_, err := Parse(h, []byte("Q"))
	if err == nil {
		t.Fatalf("expected an error for an unknown atom")
	}
}

func TestParseRejectsUnterminatedApplication(t *testing.T) {
	h := heap.New(1024)
	_, err := Parse(h, []byte("`S"))
	if err == nil {
		t.Fatalf("expected an error for a truncated backtick application")
	}
}

func TestParsePrefixLeavesTrailerUnconsumed(t *testing.T) {
	h := heap.New(1024)
	src := []byte("Ihello world")
	expr, consumed, err := ParsePrefix(h, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr != h.Statics.I {
		t.Fatalf("expected the parsed expression to be I")
	}
	if consumed != 1 {
		t.Fatalf("expected 1 byte consumed, got %d", consumed)
	}
	if string(src[consumed:]) != "hello world" {
		t.Fatalf("unexpected trailer: %q", src[consumed:])
	}
}

func TestComposeEmptyIsIdentity(t *testing.T) {
	h := heap.New(1024)
	got, err := Compose(h, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != h.Statics.I {
		t.Fatalf("Compose of no fragments should be the static I atom")
	}
}

func TestComposeSingleFragmentIsUnwrapped(t *testing.T) {
	h := heap.New(1024)
	got, err := Compose(h, []*heap.Cell{h.Statics.K})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != h.Statics.K {
		t.Fatalf("Compose of a single fragment should return it unchanged")
	}
}

func TestComposeTwoFragmentsWrapsFirstWithSecond(t *testing.T) {
	h := heap.New(1024)
	first := h.Statics.S
	second := h.Statics.K
	got, err := Compose(h, []*heap.Cell{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Unix pipe order: first runs against raw input, second wraps it as
	// the new outer function: S2(K1(second), first).
	if got.Tag != heap.S2 {
		t.Fatalf("expected an S2 cell, got %v", got.Tag)
	}
	if got.Arg2 != first {
		t.Fatalf("right operand of the composition should be the first fragment")
	}
	k1second := got.Arg1
	if k1second.Tag != heap.K1 || k1second.Arg1 != second {
		t.Fatalf("left operand should be K1(second), got %v", k1second.Tag)
	}
}
