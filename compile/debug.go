package compile

import (
	"fmt"
	"strings"

	"github.com/dhamidi/combo/ir"
)

// DumpStages renders the stage graph compile.Compile would produce from
// prog as text. Since stages are Go closures rather than an inspectable
// data structure, the dump walks the IR they were compiled from and
// annotates each node with the compiled shape it lowers to (a fused run,
// or an indirect call). This is what the WithDebug build option writes to
// its target, in place of literal generated source.
func DumpStages(prog ir.Program) string {
	var b strings.Builder
	b.WriteString("stage graph:\n")
	dumpProgram(&b, prog, 1)
	return b.String()
}

func dumpProgram(b *strings.Builder, prog ir.Program, depth int) {
	i := 0
	for i < len(prog) {
		if isBound(prog[i].Kind) {
			j := i
			for j < len(prog) && isBound(prog[j].Kind) {
				j++
			}
			writeIndent(b, depth)
			fmt.Fprintf(b, "fused[%d]:\n", j-i)
			for _, n := range prog[i:j] {
				writeIndent(b, depth+1)
				b.WriteString(n.Kind.String() + "\n")
			}
			i = j
			continue
		}
		dumpNode(b, prog[i], depth)
		i++
	}
}

func dumpNode(b *strings.Builder, n *ir.Node, depth int) {
	writeIndent(b, depth)
	switch n.Kind {
	case ir.KindLabel:
		fmt.Fprintf(b, "label %q:\n", n.LabelText)
		dumpProgram(b, n.Inner, depth+1)
	case ir.KindTraverse:
		fmt.Fprintf(b, "traverse phase=%v ops=%d:\n", n.TraversePhase, len(n.Ops))
		dumpProgram(b, n.Inner, depth+1)
	case ir.KindChoice:
		b.WriteString("choice:\n")
		for i, alt := range n.Alternatives {
			writeIndent(b, depth+1)
			fmt.Fprintf(b, "alt %d:\n", i)
			dumpProgram(b, alt, depth+2)
		}
	case ir.KindRepeat:
		b.WriteString("repeat:\n")
		dumpProgram(b, n.Body, depth+1)
	case ir.KindTimes:
		fmt.Fprintf(b, "times max=%d:\n", n.MaxTimes)
		dumpProgram(b, n.Body, depth+1)
	case ir.KindLookahead:
		fmt.Fprintf(b, "lookahead sense=%v:\n", n.LookaheadSense)
		dumpProgram(b, n.Inner, depth+1)
	case ir.KindEventually:
		b.WriteString("eventually:\n")
		dumpProgram(b, n.EventuallyBody, depth+1)
	case ir.KindParsec:
		if n.Call.Module != "" {
			fmt.Fprintf(b, "call indirect %s.%s\n", n.Call.Module, n.Call.Name)
		} else {
			fmt.Fprintf(b, "call indirect %s\n", n.Call.Name)
		}
	default:
		b.WriteString(n.Kind.String() + "\n")
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}
