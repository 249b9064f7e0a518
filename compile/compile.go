package compile

import (
	"fmt"
	"io"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/ir"
)

// Option configures a Compile call, following java/parser's
// Option func(*Parser) convention.
type Option func(*options)

type options struct {
	inline           bool
	debug            io.Writer
	exportCombinator bool
	exportMetadata   bool
}

// WithInline enables the inlining pass: pure-redirect parsec stages (a
// local combinator that is nothing but a single parsec call to another
// local combinator) are collapsed at their call sites instead of paying an
// extra indirection on every invocation. The pass needs each sibling
// definition's body, so it runs only under CompileLinkedInlinable; Compile
// and CompileLinked accept the option but do not inline.
func WithInline(enabled bool) Option {
	return func(o *options) { o.inline = enabled }
}

// WithDebug writes a text dump of the compiled stage graph to w, in place
// of literal generated source (see debug.go).
func WithDebug(w io.Writer) Option {
	return func(o *options) { o.debug = w }
}

// WithExportCombinator marks every named combinator in this compilation as
// visible to other registries linking against it (registry.Public).
func WithExportCombinator(enabled bool) Option {
	return func(o *options) { o.exportCombinator = enabled }
}

// WithExportMetadata retains the IR alongside the compiled stage table so
// package generate can walk it after the fact.
func WithExportMetadata(enabled bool) Option {
	return func(o *options) { o.exportMetadata = enabled }
}

// Parser is a compiled combinator, ready to run against input. It is
// immutable after Compile returns and safe for concurrent Parse calls.
type Parser struct {
	entry    stage
	opts     options
	metadata ir.Program // non-nil only when WithExportMetadata was set
}

// Compile lowers a self-contained prog into a runnable *Parser. prog may
// not contain a local (module-less) parsec call: without a surrounding
// name table there is nothing such a call could resolve against, so an
// undefined-target build-time error fires unconditionally for one. Named,
// self-referencing combinators are a registry.Registry concern (see
// CompileLinked); declaring named parsers is a host module's business, not
// the core compiler's.
func Compile(prog ir.Program, opts ...Option) (*Parser, error) {
	return CompileLinked(prog, nil, nil, nil, opts...)
}

// CompileLinked is Compile's registry-aware counterpart. known reports
// whether name is defined anywhere in the surrounding registry, for the
// build-time "undefined name" check; it must be answerable immediately,
// before any sibling definition has finished compiling. lookup and linked
// resolve local and cross-module parsec calls to a compiled *Parser and
// are consulted lazily, inside the compiled stage closures, so
// registry.Registry can pass closures over a table it keeps filling in as
// it compiles the rest of the batch, so long as the table is complete by
// the time anyone calls Parse. CompileLinked does not inline; see
// CompileLinkedInlinable.
func CompileLinked(prog ir.Program, known func(name string) bool, lookup func(name string) (*Parser, bool), linked func(module, name string) (*Parser, bool), opts ...Option) (*Parser, error) {
	return compileLinkedFull(prog, known, lookup, linked, nil, opts...)
}

// CompileLinkedInlinable is CompileLinked plus resolveBody, which lets
// WithInline see through local parsec calls to the Program they name, so
// pure-redirect definitions (a definition whose whole body is a single
// parsec call) collapse at their call sites. It is split out as its
// own entry point so the common case (Compile, and CompileLinked without
// inlining) doesn't need to pass a fourth nil.
func CompileLinkedInlinable(prog ir.Program, known func(name string) bool, lookup func(name string) (*Parser, bool), linked func(module, name string) (*Parser, bool), resolveBody func(name string) (ir.Program, bool), opts ...Option) (*Parser, error) {
	return compileLinkedFull(prog, known, lookup, linked, resolveBody, opts...)
}

func compileLinkedFull(prog ir.Program, known func(name string) bool, lookup func(name string) (*Parser, bool), linked func(module, name string) (*Parser, bool), resolveBody func(name string) (ir.Program, bool), opts ...Option) (*Parser, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkEOSPlacement(prog); err != nil {
		return nil, err
	}
	if err := checkParsecTargets(prog, known); err != nil {
		return nil, err
	}

	if o.inline && resolveBody != nil {
		prog = inlineProgram(prog, resolveBody)
	}

	cx := &compileCtx{
		opts: o,
		lookup: func(name string) (stage, bool) {
			if lookup == nil {
				return nil, false
			}
			p, ok := lookup(name)
			if !ok {
				return nil, false
			}
			return p.entry, true
		},
		linked: func(module, name string) (stage, bool) {
			if linked == nil {
				return nil, false
			}
			p, ok := linked(module, name)
			if !ok {
				return nil, false
			}
			return p.entry, true
		},
	}

	entry := compileProgram(prog, cx)

	p := &Parser{entry: entry, opts: o}
	if o.exportMetadata {
		p.metadata = prog
	}
	if o.debug != nil {
		fmt.Fprint(o.debug, DumpStages(prog))
	}
	return p, nil
}

// Metadata returns the IR this parser was compiled from, or nil unless
// WithExportMetadata was passed to Compile.
func (p *Parser) Metadata() ir.Program {
	return p.metadata
}

// ExportsCombinator reports whether WithExportCombinator was set, which
// registry.Registry reads to decide whether a definition should be
// reachable from other modules' parsec(module, name) calls.
func (p *Parser) ExportsCombinator() bool {
	return p.opts.exportCombinator
}

// ParseOption configures a single Parse call.
type ParseOption func(*combo.State)

// WithInitialOffset starts parsing as though offset bytes had already been
// consumed, without affecting which bytes of input are actually read.
func WithInitialOffset(offset int) ParseOption {
	return func(s *combo.State) { s.Pos.Offset = offset }
}

// WithInitialContext seeds the parse's context map.
func WithInitialContext(ctx combo.Context) ParseOption {
	return func(s *combo.State) { s.Ctx = ctx }
}

// WithInitialLine starts line counting from line instead of line 1.
func WithInitialLine(line int) ParseOption {
	return func(s *combo.State) { s.Pos.Line = line }
}

// Parse runs the compiled parser over input, returning a *combo.Result on
// success or a *combo.Failure (which implements error) otherwise.
func (p *Parser) Parse(input []byte, opts ...ParseOption) (*combo.Result, error) {
	s := &combo.State{
		Input: input,
		Ctx:   combo.Context{},
		Pos:   combo.Position{Line: 1},
	}
	for _, opt := range opts {
		opt(s)
	}

	next, err := p.entry(s)
	if err != nil {
		err.ConsumedBytes = len(input) - len(err.Rest)
		return nil, err
	}
	return &combo.Result{
		Tokens:        combo.Reversed(next.Acc),
		Rest:          next.Input,
		Ctx:           next.Ctx,
		Pos:           next.Pos,
		ConsumedBytes: len(input) - len(next.Input),
	}, nil
}

// checkParsecTargets rejects local (module-less) parsec calls that cannot
// resolve against anything known to the caller. Compile passes a nil
// known, so any local parsec call in a standalone program is rejected
// outright; registry.Registry passes the set of sibling definition names,
// including prog's own, so self- and forward-references are accepted.
// Cross-module calls are left to registry.Registry.Build, which has
// visibility into the linked registry.
func checkParsecTargets(prog ir.Program, known func(name string) bool) error {
	var firstErr error
	walkNodes(prog, func(n *ir.Node) {
		if firstErr != nil || n.Kind != ir.KindParsec || n.Call.Module != "" {
			return
		}
		if known == nil || !known(n.Call.Name) {
			firstErr = fmt.Errorf("compile: undefined local parsec target %q", n.Call.Name)
		}
	})
	return firstErr
}

// checkEOSPlacement enforces that eos only ever occurs as the last node of
// the top-level sequence. This is checked here rather than at build time,
// since a Program built in isolation cannot know whether it will later be
// embedded as a prefix of a larger sequence.
func checkEOSPlacement(prog ir.Program) error {
	for i, n := range prog {
		if n.Kind == ir.KindEOS && i != len(prog)-1 {
			return fmt.Errorf("compile: eos may only appear as the last node of a sequence")
		}
	}
	return nil
}

// walkNodes calls fn for every node reachable from prog, including nodes
// nested inside choice alternatives, repeat/times bodies, and wrapped
// (label/traverse/lookahead/eventually) bodies.
func walkNodes(prog ir.Program, fn func(*ir.Node)) {
	for _, n := range prog {
		fn(n)
		switch n.Kind {
		case ir.KindLabel, ir.KindTraverse, ir.KindLookahead:
			walkNodes(n.Inner, fn)
		case ir.KindChoice:
			for _, alt := range n.Alternatives {
				walkNodes(alt, fn)
			}
		case ir.KindRepeat, ir.KindTimes:
			walkNodes(n.Body, fn)
		case ir.KindEventually:
			walkNodes(n.EventuallyBody, fn)
		}
	}
}
