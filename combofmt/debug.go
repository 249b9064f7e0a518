package combofmt

import (
	"fmt"
	"sort"

	"golang.org/x/exp/ebnf"

	"github.com/tliron/commonlog"
)

// DumpGrammar logs one line per production, sorted by name, at Info level
// through logger.
func DumpGrammar(g ebnf.Grammar, logger commonlog.Logger) {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prod := g[name]
		if prod.Expr == nil {
			logger.Warningf("production %q has no body", name)
			continue
		}
		logger.Infof("production %s -> %s", name, describeExpr(prod.Expr))
	}
}

func describeExpr(expr ebnf.Expression) string {
	switch e := expr.(type) {
	case *ebnf.Token:
		return fmt.Sprintf("token %q", trimQuotes(e.String))
	case *ebnf.Range:
		return fmt.Sprintf("range %q…%q", trimQuotes(e.Begin.String), trimQuotes(e.End.String))
	case ebnf.Sequence:
		return fmt.Sprintf("sequence of %d", len(e))
	case ebnf.Alternative:
		return fmt.Sprintf("alternative of %d", len(e))
	case *ebnf.Repetition:
		return "repetition"
	case *ebnf.Option:
		return "option"
	case *ebnf.Group:
		return "group"
	case *ebnf.Name:
		return fmt.Sprintf("name %s", e.String)
	default:
		return fmt.Sprintf("%T", expr)
	}
}
