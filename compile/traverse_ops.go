package compile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/ir"
)

// Tagged is the token produced by the tag/unwrap_and_tag derived builders:
// a (tag, value) pair.
type Tagged struct {
	Tag   any
	Value any
}

// Positioned is the token produced by byte_offset/line: a value paired
// with the position observed when its body finished.
type Positioned struct {
	Value  any
	Offset int
	Line   int
}

// applyOpsToProduced runs ops over just the tokens a traverse's body
// produced (the internal reverse-order slice, head = most recent),
// returning a replacement for that slice. This is how Post and Constant
// traverses are applied: the caller re-prepends the result onto whatever
// accumulator preceded the traverse.
func applyOpsToProduced(ops []ir.TraverseOp, produced []any, rest []byte, ctx combo.Context, pos combo.Position) ([]any, combo.Context, error) {
	cur := produced
	for _, op := range ops {
		if op.Kind == ir.OpCustom {
			newAcc, newCtx, err := op.Func(rest, cur, ctx, pos.Line, pos.Offset)
			if err != nil {
				return nil, nil, err
			}
			cur, ctx = newAcc, newCtx
			continue
		}
		next, err := applyBuiltin(op, cur, pos)
		if err != nil {
			return nil, nil, err
		}
		cur = next
	}
	return cur, ctx, nil
}

// applyOps is the Pre-phase variant: ops see and replace the whole
// accumulator. No derived builder in this package emits a Pre traverse
// with a built-in op, but the path is implemented for completeness and
// for user-supplied OpCustom traverses.
func applyOps(ops []ir.TraverseOp, rest []byte, acc []any, ctx combo.Context, pos combo.Position) ([]any, combo.Context, error) {
	return applyOpsToProduced(ops, acc, rest, ctx, pos)
}

func applyBuiltin(op ir.TraverseOp, produced []any, pos combo.Position) ([]any, error) {
	switch op.Kind {
	case ir.OpFoldDigits:
		v := 0
		for _, tok := range combo.Reversed(produced) {
			d, ok := tok.(rune)
			if !ok || d < '0' || d > '9' {
				return nil, fmt.Errorf("fold_digits: non-digit token %v", tok)
			}
			v = v*10 + int(d-'0')
		}
		return []any{v}, nil
	case ir.OpConcatBytes:
		var b strings.Builder
		for _, tok := range combo.Reversed(produced) {
			r, ok := tok.(rune)
			if !ok {
				return nil, fmt.Errorf("concat_bytes: non-codepoint token %v", tok)
			}
			b.WriteRune(r)
		}
		return []any{b.String()}, nil
	case ir.OpWrap:
		return []any{combo.Reversed(produced)}, nil
	case ir.OpTag:
		return []any{Tagged{Tag: op.TagValue, Value: combo.Reversed(produced)}}, nil
	case ir.OpUnwrapAndTag:
		if len(produced) != 1 {
			return nil, fmt.Errorf("unwrap_and_tag: expected exactly one token, got %d", len(produced))
		}
		return []any{Tagged{Tag: op.TagValue, Value: produced[0]}}, nil
	case ir.OpIgnore:
		return nil, nil
	case ir.OpReplace:
		return []any{op.ReplaceValue}, nil
	case ir.OpByteOffset:
		return []any{Positioned{Value: valueOf(produced), Offset: pos.Offset}}, nil
	case ir.OpLine:
		return []any{Positioned{Value: valueOf(produced), Line: pos.Line}}, nil
	default:
		return nil, fmt.Errorf("unknown traverse op kind %v", op.Kind)
	}
}

func valueOf(produced []any) any {
	rev := combo.Reversed(produced)
	if len(rev) == 1 {
		return rev[0]
	}
	return rev
}

// encodeCodepoint returns r's UTF-8 encoding, the same bytes concat_bytes
// writes for each codepoint token. Nothing in this module calls it.
func encodeCodepoint(r rune) []byte {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, r)
	return buf[:n]
}
