package ir

// Every builder in this file takes an upstream Program (nil means "start a
// new sequence") and returns the extended Program. Builders that wrap a
// sub-combinator (Label, Traverse, Choice, Repeat, Times, Lookahead,
// Eventually) take that sub-combinator as an explicit, independently built
// Program argument rather than implicitly capturing "everything built so
// far" on upstream — see DESIGN.md's Open Question note on this choice.
// Plain sequencing of bound nodes is upstream-chaining; combining two
// already-built Programs is ordinary slice concatenation (see Seq).

// Seq concatenates programs in order. Sequencing needs no dedicated IR node
// since Program is already an ordered sequence.
func Seq(progs ...Program) Program {
	var out Program
	for _, p := range progs {
		out = append(out, p...)
	}
	return out
}

// BinSegment matches one codepoint in one of the inclusive ranges and not
// in any exclusive range, interpreted per modifier.
func BinSegment(upstream Program, inclusive, exclusive []Range, modifier Modifier) (Program, error) {
	for _, r := range inclusive {
		if r.Low > r.High {
			return nil, buildErrorf("BinSegment", "inclusive range %d..%d has low > high", r.Low, r.High)
		}
	}
	for _, r := range exclusive {
		if r.Low > r.High {
			return nil, buildErrorf("BinSegment", "exclusive range %d..%d has low > high", r.Low, r.High)
		}
	}
	node := &Node{
		Kind:       KindBinSegment,
		Inclusive:  inclusive,
		Exclusive:  exclusive,
		Modifier:   modifier,
		Provenance: "BinSegment",
	}
	return append(upstream, node), nil
}

// AsciiChar matches a single byte in [lo, hi].
func AsciiChar(upstream Program, lo, hi byte) (Program, error) {
	p, err := BinSegment(upstream, []Range{{Low: int(lo), High: int(hi)}}, nil, Integer)
	if err != nil {
		return nil, err
	}
	p[len(p)-1].Provenance = "AsciiChar"
	return p, nil
}

// Utf8Char matches a single Unicode codepoint in [lo, hi], encoded as UTF-8.
func Utf8Char(upstream Program, lo, hi rune) (Program, error) {
	p, err := BinSegment(upstream, []Range{{Low: int(lo), High: int(hi)}}, nil, Utf8)
	if err != nil {
		return nil, err
	}
	p[len(p)-1].Provenance = "Utf8Char"
	return p, nil
}

// Utf16Char matches a single codepoint in [lo, hi] under UTF-16 code unit
// accounting (surrogate pairs count as two units).
func Utf16Char(upstream Program, lo, hi rune) (Program, error) {
	p, err := BinSegment(upstream, []Range{{Low: int(lo), High: int(hi)}}, nil, Utf16)
	if err != nil {
		return nil, err
	}
	p[len(p)-1].Provenance = "Utf16Char"
	return p, nil
}

// Utf32Char matches a single codepoint in [lo, hi] as a fixed 4-byte unit.
func Utf32Char(upstream Program, lo, hi rune) (Program, error) {
	p, err := BinSegment(upstream, []Range{{Low: int(lo), High: int(hi)}}, nil, Utf32)
	if err != nil {
		return nil, err
	}
	p[len(p)-1].Provenance = "Utf32Char"
	return p, nil
}

// StringLiteral matches an exact literal byte sequence.
func StringLiteral(upstream Program, literal []byte) (Program, error) {
	if len(literal) == 0 {
		return nil, buildErrorf("StringLiteral", "literal must not be empty")
	}
	node := &Node{Kind: KindString, Literal: literal, Provenance: "StringLiteral"}
	return append(upstream, node), nil
}

// NBytes matches any n bytes, n >= 1.
func NBytes(upstream Program, n int) (Program, error) {
	if n < 1 {
		return nil, buildErrorf("NBytes", "n must be >= 1, got %d", n)
	}
	node := &Node{Kind: KindBytes, ByteCount: n, Provenance: "NBytes"}
	return append(upstream, node), nil
}

// EOS asserts the input is fully consumed. The compiler rejects a program
// where EOS does not appear at the logical end, since that can only be
// determined once the whole program is closed.
func EOS(upstream Program) (Program, error) {
	node := &Node{Kind: KindEOS, Provenance: "EOS"}
	return append(upstream, node), nil
}

// Label replaces the failure reason produced anywhere inside body, at
// body's own entry offset, with "expected " + text.
func Label(upstream Program, body Program, text string) (Program, error) {
	if len(body) == 0 {
		return nil, buildErrorf("Label", "body must not be empty")
	}
	if text == "" {
		return nil, buildErrorf("Label", "text must not be empty")
	}
	node := &Node{Kind: KindLabel, Inner: body, LabelText: text, Provenance: "Label"}
	return append(upstream, node), nil
}

// Traverse splices ops after (Post), before (Pre), or instead of (Constant)
// body's accumulator/context effects.
func Traverse(upstream Program, body Program, phase Phase, ops []TraverseOp) (Program, error) {
	if len(ops) == 0 {
		return nil, buildErrorf("Traverse", "ops must not be empty")
	}
	node := &Node{
		Kind:          KindTraverse,
		Inner: body,
		TraversePhase: phase,
		Ops:           ops,
		Provenance:    "Traverse",
	}
	return append(upstream, node), nil
}

// Choice tries alternatives in order, first match wins.
func Choice(upstream Program, alternatives ...Program) (Program, error) {
	return choiceImpl(upstream, nil, alternatives)
}

// ChoiceWeighted is like Choice but records positive integer weights used
// by the generator; it does not change parse-time semantics.
func ChoiceWeighted(upstream Program, weights []int, alternatives ...Program) (Program, error) {
	if len(weights) != len(alternatives) {
		return nil, buildErrorf("ChoiceWeighted", "weight count %d does not match alternative count %d", len(weights), len(alternatives))
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, buildErrorf("ChoiceWeighted", "weights must be positive, got %d", w)
		}
	}
	return choiceImpl(upstream, weights, alternatives)
}

func choiceImpl(upstream Program, weights []int, alternatives []Program) (Program, error) {
	if len(alternatives) < 2 {
		return nil, buildErrorf("Choice", "need at least 2 alternatives, got %d", len(alternatives))
	}
	node := &Node{
		Kind:         KindChoice,
		Alternatives: alternatives,
		Weights:      weights,
		Provenance:   "Choice",
	}
	return append(upstream, node), nil
}

// Repeat matches body zero or more times, stopping on the first failure of
// body (zero matches is success).
func Repeat(upstream Program, body Program) (Program, error) {
	return RepeatWhile(upstream, body, nil, nil)
}

// RepeatWhile is Repeat with an explicit continuation callback and an
// optional generator repetition-count hint.
func RepeatWhile(upstream Program, body Program, while RepeatWhileFunc, genTimes *IntRange) (Program, error) {
	if len(body) == 0 {
		return nil, buildErrorf("Repeat", "body must not be empty")
	}
	node := &Node{
		Kind:      KindRepeat,
		Body:      body,
		WhileCall: while,
		GenTimes:  genTimes,
		Provenance: "Repeat",
	}
	return append(upstream, node), nil
}

// Times matches body up to max times, exiting early on body's failure.
func Times(upstream Program, body Program, max int) (Program, error) {
	if len(body) == 0 {
		return nil, buildErrorf("Times", "body must not be empty")
	}
	if max < 0 {
		return nil, buildErrorf("Times", "max must be >= 0, got %d", max)
	}
	node := &Node{Kind: KindTimes, Body: body, MaxTimes: max, Provenance: "Times"}
	return append(upstream, node), nil
}

// Lookahead asserts body matches (Positive) or does not match (Negative)
// without consuming input or affecting acc/ctx.
func Lookahead(upstream Program, body Program, sense Sense) (Program, error) {
	if len(body) == 0 {
		return nil, buildErrorf("Lookahead", "body must not be empty")
	}
	node := &Node{Kind: KindLookahead, Inner: body, LookaheadSense: sense, Provenance: "Lookahead"}
	return append(upstream, node), nil
}

// Eventually discards bytes one at a time until body matches, or fails at
// end of input.
func Eventually(upstream Program, body Program) (Program, error) {
	if len(body) == 0 {
		return nil, buildErrorf("Eventually", "body must not be empty")
	}
	node := &Node{Kind: KindEventually, EventuallyBody: body, Provenance: "Eventually"}
	return append(upstream, node), nil
}

// Parsec calls a local, same-registry named combinator.
func Parsec(upstream Program, name string) (Program, error) {
	if name == "" {
		return nil, buildErrorf("Parsec", "name must not be empty")
	}
	node := &Node{Kind: KindParsec, Call: Target{Name: name}, Provenance: "Parsec"}
	return append(upstream, node), nil
}

// ParsecIn calls a named combinator exported by another module (registry),
// resolved when that registry is linked in at Build time.
func ParsecIn(upstream Program, module, name string) (Program, error) {
	if module == "" || name == "" {
		return nil, buildErrorf("ParsecIn", "module and name must not be empty")
	}
	node := &Node{Kind: KindParsec, Call: Target{Module: module, Name: name}, Provenance: "ParsecIn"}
	return append(upstream, node), nil
}
