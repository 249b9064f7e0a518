// Package combofmt loads an EBNF grammar file and lowers it into the
// combinator IR, turning a byte-at-a-time grammar matcher into a builder
// that produces an ir.Program per production, one name per
// registry.Definition.
package combofmt

import (
	"fmt"
	"os"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/combo/ir"
	"github.com/dhamidi/combo/registry"
)

// LoadEBNF reads and parses an EBNF grammar file, the same entry point
// ebnflex.LoadGrammar used to provide golang.org/x/exp/ebnf.Grammar to a
// hand-rolled lexer; here the grammar feeds BuildRegistry instead.
func LoadEBNF(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("combofmt: open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("combofmt: parse grammar: %w", err)
	}
	return grammar, nil
}

// BuildRegistry lowers every production in g into a named combinator and
// links them through a registry.Registry, so that a production which
// refers to another one (by *ebnf.Name) resolves as a local parsec call —
// including forward references and left-recursive-looking cycles, since
// registry.Registry.Build populates its name table before any Parse call
// runs. start names the production that gets a Public entry point; every
// other production is Internal, callable only via parsec.
func BuildRegistry(g ebnf.Grammar, start string) (*registry.Registry, error) {
	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("combofmt: start production %q not found in grammar", start)
	}
	r := registry.New()
	for name, prod := range g {
		if prod.Expr == nil {
			continue
		}
		prog, err := lowerExpr(prod.Expr)
		if err != nil {
			return nil, fmt.Errorf("combofmt: lowering %q: %w", name, err)
		}
		vis := registry.Internal
		if name == start {
			vis = registry.Public
		}
		def := registry.Definition{Name: name, Visibility: vis, Program: prog, ExportMetadata: true}
		if err := r.Define(def); err != nil {
			return nil, fmt.Errorf("combofmt: defining %q: %w", name, err)
		}
	}
	if err := r.Build(); err != nil {
		return nil, fmt.Errorf("combofmt: %w", err)
	}
	return r, nil
}

// lowerExpr translates one EBNF expression node into an ir.Program by
// walking the same case-by-case ebnf.Expression structure a byte-length
// matcher would, but emitting IR instead of scanning bytes directly.
func lowerExpr(expr ebnf.Expression) (ir.Program, error) {
	switch e := expr.(type) {
	case *ebnf.Token:
		return ir.StringLiteral(nil, []byte(trimQuotes(e.String)))

	case *ebnf.Range:
		lo := trimQuotes(e.Begin.String)
		hi := trimQuotes(e.End.String)
		if len(lo) != 1 || len(hi) != 1 {
			return nil, fmt.Errorf("combofmt: range %q…%q must be single characters", lo, hi)
		}
		return ir.AsciiChar(nil, lo[0], hi[0])

	case ebnf.Sequence:
		parts := make([]ir.Program, len(e))
		for i, item := range e {
			p, err := lowerExpr(item)
			if err != nil {
				return nil, err
			}
			parts[i] = p
		}
		return ir.Seq(parts...), nil

	case ebnf.Alternative:
		alts := make([]ir.Program, len(e))
		for i, alt := range e {
			p, err := lowerExpr(alt)
			if err != nil {
				return nil, err
			}
			alts[i] = p
		}
		return ir.Choice(nil, alts...)

	case *ebnf.Repetition:
		body, err := lowerExpr(e.Body)
		if err != nil {
			return nil, err
		}
		return ir.Repeat(nil, body)

	case *ebnf.Option:
		body, err := lowerExpr(e.Body)
		if err != nil {
			return nil, err
		}
		return ir.Optional(nil, body)

	case *ebnf.Group:
		return lowerExpr(e.Body)

	case *ebnf.Name:
		return ir.Parsec(nil, e.String)

	default:
		return nil, fmt.Errorf("combofmt: unsupported EBNF expression %T", expr)
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
