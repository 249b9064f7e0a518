package compile

import (
	"fmt"
	"unicode/utf8"

	"github.com/dhamidi/combo/ir"
)

// matchBinSegment attempts to match a single codepoint at the head of
// input according to n's modifier and range lists. It returns the matched
// codepoint, the number of bytes it occupied, and whether it matched.
func matchBinSegment(n *ir.Node, input []byte) (rune, int, bool) {
	cp, size, ok := decodeCodepoint(n.Modifier, input)
	if !ok {
		return 0, 0, false
	}
	if !inRanges(cp, n.Inclusive, n.Exclusive) {
		return 0, 0, false
	}
	return cp, size, true
}

func decodeCodepoint(mod ir.Modifier, input []byte) (rune, int, bool) {
	switch mod {
	case ir.Integer:
		if len(input) < 1 {
			return 0, 0, false
		}
		return rune(input[0]), 1, true
	case ir.Utf8:
		if len(input) == 0 {
			return 0, 0, false
		}
		r, size := utf8.DecodeRune(input)
		if r == utf8.RuneError && size <= 1 {
			return 0, 0, false
		}
		return r, size, true
	case ir.Utf16:
		if len(input) < 2 {
			return 0, 0, false
		}
		hi := uint16(input[0])<<8 | uint16(input[1])
		if hi >= 0xD800 && hi <= 0xDBFF {
			if len(input) < 4 {
				return 0, 0, false
			}
			lo := uint16(input[2])<<8 | uint16(input[3])
			if lo < 0xDC00 || lo > 0xDFFF {
				return 0, 0, false
			}
			cp := 0x10000 + (rune(hi)-0xD800)<<10 + (rune(lo) - 0xDC00)
			return cp, 4, true
		}
		return rune(hi), 2, true
	case ir.Utf32:
		if len(input) < 4 {
			return 0, 0, false
		}
		cp := rune(input[0])<<24 | rune(input[1])<<16 | rune(input[2])<<8 | rune(input[3])
		return cp, 4, true
	default:
		return 0, 0, false
	}
}

func inRanges(cp rune, inclusive, exclusive []ir.Range) bool {
	included := len(inclusive) == 0
	for _, r := range inclusive {
		if int(cp) >= r.Low && int(cp) <= r.High {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, r := range exclusive {
		if int(cp) >= r.Low && int(cp) <= r.High {
			return false
		}
	}
	return true
}

// defaultReason produces the human-readable failure reason for a bound
// node, used unless a surrounding Label replaces it.
func defaultReason(n *ir.Node) string {
	switch n.Kind {
	case ir.KindBinSegment:
		kind := "byte"
		switch n.Modifier {
		case ir.Utf8, ir.Utf16, ir.Utf32:
			kind = "character"
		}
		if len(n.Inclusive) == 1 && len(n.Exclusive) == 0 {
			r := n.Inclusive[0]
			if r.Low == r.High {
				return fmt.Sprintf("expected %s %q", kind, rune(r.Low))
			}
			return fmt.Sprintf("expected %s in the range %q to %q", kind, rune(r.Low), rune(r.High))
		}
		return fmt.Sprintf("expected %s matching bin_segment", kind)
	case ir.KindString:
		return fmt.Sprintf("expected a string %q", n.Literal)
	case ir.KindBytes:
		return fmt.Sprintf("expected %d more bytes", n.ByteCount)
	case ir.KindEOS:
		return "expected end of string"
	default:
		return "expected match"
	}
}
