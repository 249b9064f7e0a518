package compile

import (
	"fmt"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/ir"
)

// compileLabel implements the Label rule: on a body failure at the
// label's own entry offset, the reason is replaced outright by
// "expected " + text. The one exception is a failure that already came
// from another label (tracked via Failure.Kind, set below) — nesting two
// labels this way composes their reasons with ", followed by" instead of
// discarding the inner one.
func compileLabel(n *ir.Node, cx *compileCtx) stage {
	body := compileProgram(n.Inner, cx)
	text := n.LabelText
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		entryOffset := s.Pos.Offset
		next, err := body(s)
		if err == nil {
			return next, nil
		}
		if err.Pos.Offset != entryOffset {
			return nil, err
		}
		reason := combo.Labeled(text)
		if err.Kind == "label" {
			reason = combo.JoinLabels(reason, trimExpected(err.Reason))
		}
		return nil, &combo.Failure{Reason: reason, Rest: err.Rest, Ctx: err.Ctx, Pos: err.Pos, Kind: "label"}
	}
}

func trimExpected(reason string) string {
	const prefix = "expected "
	if len(reason) > len(prefix) && reason[:len(prefix)] == prefix {
		return reason[len(prefix):]
	}
	return reason
}

func compileTraverse(n *ir.Node, cx *compileCtx) stage {
	body := compileProgram(n.Inner, cx)
	ops := n.Ops
	phase := n.TraversePhase
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		switch phase {
		case ir.Pre:
			newAcc, newCtx, err := applyOps(ops, s.Input, s.Acc, s.Ctx, s.Pos)
			if err != nil {
				return nil, fail(err.Error(), s)
			}
			preState := *s
			preState.Acc = newAcc
			preState.Ctx = newCtx
			return body(&preState)
		default: // Post, Constant
			next, err := body(s)
			if err != nil {
				return nil, err
			}
			produced := next.Acc[:len(next.Acc)-len(s.Acc)]
			base := s.Acc
			newProduced, newCtx, aerr := applyOpsToProduced(ops, produced, next.Input, next.Ctx, next.Pos)
			if aerr != nil {
				return nil, fail(aerr.Error(), next)
			}
			result := *next
			result.Acc = append(append([]any(nil), newProduced...), base...)
			result.Ctx = newCtx
			return &result, nil
		}
	}
}

func compileChoice(n *ir.Node, cx *compileCtx) stage {
	alts := make([]stage, len(n.Alternatives))
	for i, alt := range n.Alternatives {
		alts[i] = compileProgram(alt, cx)
	}
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		entryOffset := s.Pos.Offset
		var last *combo.Failure
		for _, alt := range alts {
			next, err := alt(s)
			if err == nil {
				return next, nil
			}
			last = err
			if err.Pos.Offset != entryOffset {
				return nil, err
			}
		}
		return nil, last
	}
}

func compileRepeat(n *ir.Node, cx *compileCtx) stage {
	body := compileProgram(n.Body, cx)
	while := n.WhileCall
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		cur := s
		for {
			next, err := body(cur)
			if err != nil {
				return cur, nil
			}
			decision := ir.Cont
			if while != nil {
				var newCtx map[string]any
				decision, newCtx = while(next.Input, next.Ctx, next.Pos.Line, next.Pos.Offset)
				result := *next
				result.Ctx = newCtx
				next = &result
			}
			cur = next
			if decision == ir.Halt {
				return cur, nil
			}
		}
	}
}

func compileTimes(n *ir.Node, cx *compileCtx) stage {
	body := compileProgram(n.Body, cx)
	max := n.MaxTimes
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		cur := s
		for i := 0; i < max; i++ {
			next, err := body(cur)
			if err != nil {
				return cur, nil
			}
			cur = next
		}
		return cur, nil
	}
}

func compileLookahead(n *ir.Node, cx *compileCtx) stage {
	body := compileProgram(n.Inner, cx)
	sense := n.LookaheadSense
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		side := *s
		side.Ctx = s.Ctx.Clone()
		_, err := body(&side)
		switch sense {
		case ir.Positive:
			if err == nil {
				return s, nil
			}
			return nil, &combo.Failure{Reason: err.Reason, Rest: s.Input, Ctx: s.Ctx, Pos: s.Pos}
		default: // Negative
			if err == nil {
				return nil, fail("unexpected match", s)
			}
			return s, nil
		}
	}
}

func compileEventually(n *ir.Node, cx *compileCtx) stage {
	body := compileProgram(n.EventuallyBody, cx)
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		cur := *s
		for {
			probe := cur
			next, err := body(&probe)
			if err == nil {
				return next, nil
			}
			if len(cur.Input) == 0 {
				return nil, fail("expected "+eventuallyLabel(n)+" eventually", &cur)
			}
			b := cur.Input[0]
			cur.Input = cur.Input[1:]
			cur.Pos = cur.Pos.Advance(b)
		}
	}
}

// eventuallyLabel names what an eventually node is scanning for, used only
// in its failure message once the input is exhausted.
func eventuallyLabel(n *ir.Node) string {
	if len(n.EventuallyBody) == 0 {
		return "match"
	}
	return trimExpected(defaultReason(n.EventuallyBody[0]))
}

func compileParsec(n *ir.Node, cx *compileCtx) stage {
	target := n.Call
	return func(s *combo.State) (*combo.State, *combo.Failure) {
		var targetStage stage
		var ok bool
		if target.Module != "" {
			targetStage, ok = cx.linked(target.Module, target.Name)
		} else {
			targetStage, ok = cx.lookup(target.Name)
		}
		if !ok {
			return nil, fail(fmt.Sprintf("undefined parsec target %q", target.Name), s)
		}
		return targetStage(s)
	}
}
