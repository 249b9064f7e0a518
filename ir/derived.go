package ir

// Derived builders are implemented in terms of the primitives in
// builder.go — none of them is given special treatment by the compiler.

// Optional matches x if possible, otherwise matches nothing.
// optional(x) ≡ choice([x, empty]).
func Optional(upstream Program, x Program) (Program, error) {
	return Choice(upstream, x, Program{})
}

// Duplicate matches body exactly n times in sequence. Because Program is
// stored in logical order, "repeated n times" is literal concatenation —
// no loop construct is needed, and the result is observationally identical
// to writing body out n times by hand.
func Duplicate(upstream Program, body Program, n int) (Program, error) {
	if n < 0 {
		return nil, buildErrorf("Duplicate", "n must be >= 0, got %d", n)
	}
	if n > 0 && len(body) == 0 {
		return nil, buildErrorf("Duplicate", "body must not be empty when n > 0")
	}
	out := upstream
	for i := 0; i < n; i++ {
		out = append(out, body...)
	}
	return out, nil
}

// digitClass matches a single ASCII decimal digit.
func digitClass() Program {
	p, _ := AsciiChar(nil, '0', '9')
	return p
}

// Integer matches exactly n decimal digits and folds them into a single
// integer token: acc[0]*10^(n-1) + ... + acc[n-1].
func Integer(upstream Program, n int) (Program, error) {
	if n < 1 {
		return nil, buildErrorf("Integer", "n must be >= 1, got %d", n)
	}
	body, err := Duplicate(nil, digitClass(), n)
	if err != nil {
		return nil, err
	}
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpFoldDigits, DigitCount: n}})
}

// IntegerRange matches min mandatory digits followed by up to (max-min)
// optional digits, folding whatever number of digits actually matched.
func IntegerRange(upstream Program, min, max int) (Program, error) {
	if min < 0 {
		return nil, buildErrorf("IntegerRange", "min must be >= 0, got %d", min)
	}
	if max <= min {
		return nil, buildErrorf("IntegerRange", "max (%d) must be > min (%d)", max, min)
	}
	mandatory, err := Duplicate(nil, digitClass(), min)
	if err != nil {
		return nil, err
	}
	body := mandatory
	if max-min > 0 {
		body, err = Times(body, digitClass(), max-min)
		if err != nil {
			return nil, err
		}
	}
	if len(body) == 0 {
		return nil, buildErrorf("IntegerRange", "resulting body is empty")
	}
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpFoldDigits, DigitCount: 0}})
}

// AsciiString matches between min and max ASCII bytes in [lo, hi] and
// concatenates them into a single string token.
func AsciiString(upstream Program, lo, hi byte, min, max int) (Program, error) {
	return stringOfClass(upstream, func() (Program, error) { return AsciiChar(nil, lo, hi) }, min, max)
}

// Utf8String is AsciiString's UTF-8 analogue: it matches between min and
// max codepoints in [lo, hi] and concatenates their UTF-8 encodings.
func Utf8String(upstream Program, lo, hi rune, min, max int) (Program, error) {
	return stringOfClass(upstream, func() (Program, error) { return Utf8Char(nil, lo, hi) }, min, max)
}

func stringOfClass(upstream Program, class func() (Program, error), min, max int) (Program, error) {
	if min < 0 {
		return nil, buildErrorf("String", "min must be >= 0, got %d", min)
	}
	if max < min {
		return nil, buildErrorf("String", "max (%d) must be >= min (%d)", max, min)
	}
	unit, err := class()
	if err != nil {
		return nil, err
	}
	mandatory, err := Duplicate(nil, unit, min)
	if err != nil {
		return nil, err
	}
	body := mandatory
	if max-min > 0 {
		unit2, err := class()
		if err != nil {
			return nil, err
		}
		body, err = Times(body, unit2, max-min)
		if err != nil {
			return nil, err
		}
	}
	if len(body) == 0 {
		return nil, buildErrorf("String", "resulting body is empty (min and max both 0)")
	}
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpConcatBytes}})
}

// Wrap replaces body's accumulator with a single token: [reverse(acc)].
func Wrap(upstream Program, body Program) (Program, error) {
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpWrap}})
}

// Tag replaces body's accumulator with a single (tag, reverse(acc)) pair.
func Tag(upstream Program, body Program, tag any) (Program, error) {
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpTag, TagValue: tag}})
}

// UnwrapAndTag asserts body produced exactly one token and replaces the
// accumulator with a single (tag, that_token) pair, failing loudly with a
// parse-time failure otherwise.
func UnwrapAndTag(upstream Program, body Program, tag any) (Program, error) {
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpUnwrapAndTag, TagValue: tag}})
}

// Ignore discards body's tokens entirely.
func Ignore(upstream Program, body Program) (Program, error) {
	return Traverse(upstream, body, Constant, []TraverseOp{{Kind: OpIgnore}})
}

// Replace discards body's tokens and substitutes a single fixed value.
func Replace(upstream Program, body Program, value any) (Program, error) {
	return Traverse(upstream, body, Constant, []TraverseOp{{Kind: OpReplace, ReplaceValue: value}})
}

// ByteOffsetOf pairs body's (reversed) tokens with the byte offset observed
// after body finished.
func ByteOffsetOf(upstream Program, body Program) (Program, error) {
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpByteOffset}})
}

// LineOf pairs body's (reversed) tokens with the line observed after body
// finished.
func LineOf(upstream Program, body Program) (Program, error) {
	return Traverse(upstream, body, Post, []TraverseOp{{Kind: OpLine}})
}

// LookaheadNot is sugar for Lookahead(upstream, body, Negative).
func LookaheadNot(upstream Program, body Program) (Program, error) {
	return Lookahead(upstream, body, Negative)
}
