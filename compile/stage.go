// Package compile lowers a combinator IR program (package ir) into a set
// of mutually calling recognizer clauses ("stages") and installs them as a
// callable *Parser. Rather than emitting generated Go source at build
// time, stages are compiled into a small closure-based interpreter. The
// fused-match invariant (any maximal run of bound nodes executes in one
// guarded step) is preserved structurally: fuse.go groups adjacent bound
// nodes into a single stage before the general per-node compiler ever
// sees them.
package compile

import (
	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/ir"
)

// stage is one compiled clause: it consumes a State and returns either the
// next state or a failure, threading (input, acc, ctx, position) through
// a chain of stage_k(...) -> stage_{k+1}(...) | failure(...) calls.
type stage func(s *combo.State) (*combo.State, *combo.Failure)

// isBound reports whether a node kind belongs to the fusable, fixed-shape
// group of primitives that fuseBound can combine into one guarded match.
func isBound(k ir.Kind) bool {
	switch k {
	case ir.KindBinSegment, ir.KindString, ir.KindBytes, ir.KindEOS:
		return true
	default:
		return false
	}
}

// compileCtx carries per-compilation state: the parsec name table (built
// two-pass, since parsec calls may be forward or self references), the
// linked external registries for cross-module calls, and build options.
type compileCtx struct {
	opts    options
	lookup  func(name string) (stage, bool)
	linked  func(module, name string) (stage, bool)
}

// compileProgram lowers an ir.Program into a single stage that runs each
// node in sequence, fusing maximal runs of bound nodes as it goes.
func compileProgram(prog ir.Program, cx *compileCtx) stage {
	var stages []stage
	i := 0
	for i < len(prog) {
		if isBound(prog[i].Kind) {
			j := i
			for j < len(prog) && isBound(prog[j].Kind) {
				j++
			}
			stages = append(stages, fuseBound(prog[i:j]))
			i = j
			continue
		}
		stages = append(stages, compileNode(prog[i], cx))
		i++
	}
	return sequence(stages)
}

// sequence composes stages so the whole run fails as soon as any stage
// does, threading State through unchanged otherwise.
func sequence(stages []stage) stage {
	switch len(stages) {
	case 0:
		return func(s *combo.State) (*combo.State, *combo.Failure) { return s, nil }
	case 1:
		return stages[0]
	}
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		cur := s
		for _, st := range stages {
			next, err := st(cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil
	}
}

func compileNode(n *ir.Node, cx *compileCtx) stage {
	switch n.Kind {
	case ir.KindLabel:
		return compileLabel(n, cx)
	case ir.KindTraverse:
		return compileTraverse(n, cx)
	case ir.KindChoice:
		return compileChoice(n, cx)
	case ir.KindRepeat:
		return compileRepeat(n, cx)
	case ir.KindTimes:
		return compileTimes(n, cx)
	case ir.KindLookahead:
		return compileLookahead(n, cx)
	case ir.KindEventually:
		return compileEventually(n, cx)
	case ir.KindParsec:
		return compileParsec(n, cx)
	default:
		panic("compile: unreachable node kind " + n.Kind.String())
	}
}

func fail(reason string, s *combo.State) *combo.Failure {
	return &combo.Failure{
		Reason: reason,
		Rest:   s.Input,
		Ctx:    s.Ctx,
		Pos:    s.Pos,
	}
}
