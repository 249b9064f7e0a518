package compile

import (
	"bytes"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/ir"
)

// fuseBound compiles a maximal run of bound nodes into a single guarded
// pattern match over the head of input: a concatenated byte pattern whose
// size is known at compile time. The match is all-or-nothing: it is
// evaluated against a read-only cursor
// into s.Input first, and s itself (position, accumulator) is only
// advanced once every node in the run has matched. A failure partway
// through therefore reports s's original entry position, not wherever the
// scan happened to stop.
func fuseBound(nodes []*ir.Node) stage {
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		rest := s.Input
		toks := make([]any, 0, len(nodes))
		for _, n := range nodes {
			switch n.Kind {
			case ir.KindBinSegment:
				cp, size, ok := matchBinSegment(n, rest)
				if !ok {
					return nil, fail(defaultReason(n), s)
				}
				rest = rest[size:]
				toks = append(toks, cp)
			case ir.KindString:
				if !bytes.HasPrefix(rest, n.Literal) {
					return nil, fail(defaultReason(n), s)
				}
				rest = rest[len(n.Literal):]
				toks = append(toks, string(n.Literal))
			case ir.KindBytes:
				if len(rest) < n.ByteCount {
					return nil, fail(defaultReason(n), s)
				}
				chunk := append([]byte(nil), rest[:n.ByteCount]...)
				rest = rest[n.ByteCount:]
				toks = append(toks, chunk)
			case ir.KindEOS:
				if len(rest) != 0 {
					return nil, fail("expected end of string", s)
				}
			}
		}
		cur := *s
		cur.Pos = cur.Pos.AdvanceBytes(cur.Input[:len(cur.Input)-len(rest)])
		cur.Input = rest
		for _, tok := range toks {
			cur = cur.Push(tok)
		}
		return &cur, nil
	}
}
