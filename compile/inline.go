package compile

import "github.com/dhamidi/combo/ir"

// inlineProgram rewrites every local parsec call in prog that names a pure
// redirect (a definition whose entire body is one parsec node) to call
// that redirect's own target instead, following the chain until it lands
// on something else. resolveBody supplies a sibling definition's body by
// name; a name resolveBody doesn't recognize (a cross-module call, or one
// checkParsecTargets already rejected) is left untouched.
func inlineProgram(prog ir.Program, resolveBody func(name string) (ir.Program, bool)) ir.Program {
	out := make(ir.Program, len(prog))
	for i, n := range prog {
		out[i] = inlineNode(n, resolveBody)
	}
	return out
}

func inlineNode(n *ir.Node, resolveBody func(name string) (ir.Program, bool)) *ir.Node {
	cp := *n
	switch n.Kind {
	case ir.KindParsec:
		if n.Call.Module == "" {
			cp.Call = chaseRedirect(n.Call, resolveBody, map[string]bool{})
		}
	case ir.KindLabel, ir.KindTraverse, ir.KindLookahead:
		cp.Inner = inlineProgram(n.Inner, resolveBody)
	case ir.KindChoice:
		alts := make([]ir.Program, len(n.Alternatives))
		for i, alt := range n.Alternatives {
			alts[i] = inlineProgram(alt, resolveBody)
		}
		cp.Alternatives = alts
	case ir.KindRepeat, ir.KindTimes:
		cp.Body = inlineProgram(n.Body, resolveBody)
	case ir.KindEventually:
		cp.EventuallyBody = inlineProgram(n.EventuallyBody, resolveBody)
	}
	return &cp
}

// chaseRedirect follows a chain of pure-redirect definitions to whatever
// they ultimately point at. seen guards against a redirect cycle, which
// resolves to the original target rather than looping forever.
func chaseRedirect(target ir.Target, resolveBody func(name string) (ir.Program, bool), seen map[string]bool) ir.Target {
	if target.Module != "" || seen[target.Name] {
		return target
	}
	body, ok := resolveBody(target.Name)
	if !ok || len(body) != 1 || body[0].Kind != ir.KindParsec {
		return target
	}
	seen[target.Name] = true
	return chaseRedirect(body[0].Call, resolveBody, seen)
}
