package ir

import (
	"fmt"
	"strings"
)

// Pretty renders the program as one line per node, indented by nesting
// depth, in the style of ebnf/parse's CST text dumps. It is meant for
// human inspection rather than as a machine-readable format — use
// MarshalJSON for that. (The "dump" CLI command prints compile.DumpStages,
// not Pretty.)
func (p Program) Pretty() string {
	var b strings.Builder
	writeProgram(&b, p, 0)
	return b.String()
}

func writeProgram(b *strings.Builder, p Program, depth int) {
	for _, n := range p {
		writeNode(b, n, depth)
	}
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	indent(b, depth)
	switch n.Kind {
	case KindBinSegment:
		fmt.Fprintf(b, "bin_segment(%s, inclusive=%v, exclusive=%v)\n", n.Modifier, n.Inclusive, n.Exclusive)
	case KindString:
		fmt.Fprintf(b, "string(%q)\n", n.Literal)
	case KindBytes:
		fmt.Fprintf(b, "bytes(%d)\n", n.ByteCount)
	case KindEOS:
		b.WriteString("eos\n")
	case KindLabel:
		fmt.Fprintf(b, "label(%q)\n", n.LabelText)
		writeProgram(b, n.Inner, depth+1)
	case KindTraverse:
		fmt.Fprintf(b, "traverse(phase=%s, ops=%d)\n", phaseString(n.TraversePhase), len(n.Ops))
		writeProgram(b, n.Inner, depth+1)
	case KindChoice:
		fmt.Fprintf(b, "choice(weights=%v)\n", n.Weights)
		for i, alt := range n.Alternatives {
			indent(b, depth+1)
			fmt.Fprintf(b, "alt[%d]:\n", i)
			writeProgram(b, alt, depth+2)
		}
	case KindRepeat:
		b.WriteString("repeat\n")
		writeProgram(b, n.Body, depth+1)
	case KindTimes:
		fmt.Fprintf(b, "times(max=%d)\n", n.MaxTimes)
		writeProgram(b, n.Body, depth+1)
	case KindLookahead:
		fmt.Fprintf(b, "lookahead(%s)\n", senseString(n.LookaheadSense))
		writeProgram(b, n.Inner, depth+1)
	case KindEventually:
		b.WriteString("eventually\n")
		writeProgram(b, n.EventuallyBody, depth+1)
	case KindParsec:
		if n.Call.Module != "" {
			fmt.Fprintf(b, "parsec(%s.%s)\n", n.Call.Module, n.Call.Name)
		} else {
			fmt.Fprintf(b, "parsec(%s)\n", n.Call.Name)
		}
	default:
		b.WriteString("?\n")
	}
}
