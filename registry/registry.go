// Package registry implements the named parser table a host module
// declares its combinators through: a set of named definitions, each
// visible internally (only reachable via parsec), as a public entry
// point, or both, resolved against each other and against other modules'
// registries at Build time.
package registry

import (
	"fmt"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/compile"
	"github.com/dhamidi/combo/ir"
)

// Visibility controls whether a Definition gets its own Parse entry point,
// is only reachable from a local parsec call, or both.
type Visibility int

const (
	Internal Visibility = iota
	Public
	PublicAndInternal
)

// Definition is one named combinator in a Registry.
type Definition struct {
	Name           string
	Visibility     Visibility
	Program        ir.Program
	ExportMetadata bool
}

// entry is what Build produces per definition: its compiled *compile.Parser
// plus the visibility it was declared with.
type entry struct {
	def    Definition
	parser *compile.Parser
}

// Registry holds a set of named definitions and, once Build has run, their
// compiled parsers. Recursive and forward-referencing named parsers
// resolve because each parsec(name) call is a stage closure that consults
// Registry's lookup map only when it actually runs, by which point Build
// has finished filling the map in, so forward and self references resolve
// correctly regardless of definition order.
type Registry struct {
	defs    map[string]Definition
	order   []string
	entries map[string]*entry
	linked  map[string]*Registry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		defs:    map[string]Definition{},
		entries: map[string]*entry{},
		linked:  map[string]*Registry{},
	}
}

// Define adds a named combinator to the registry. It returns an error if
// the name is already defined, the same class of build-time authoring
// mistake as a parsec call referencing an undefined name.
func (r *Registry) Define(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("registry: definition name must not be empty")
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("registry: %q is already defined", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Link makes another registry's Public/PublicAndInternal definitions, and
// any definition it built with compile.WithExportCombinator, resolvable
// from this registry's parsec(module, name) calls under module.
func (r *Registry) Link(module string, other *Registry) {
	r.linked[module] = other
}

// Build compiles every definition, wiring local parsec calls (including
// self- and forward-references) against this registry's own name table and
// cross-module parsec calls against whatever was passed to Link.
func (r *Registry) Build(opts ...compile.Option) error {
	known := func(name string) bool {
		_, ok := r.defs[name]
		return ok
	}
	lookup := func(name string) (*compile.Parser, bool) {
		e, ok := r.entries[name]
		if !ok {
			return nil, false
		}
		return e.parser, true
	}
	linked := func(module, name string) (*compile.Parser, bool) {
		other, ok := r.linked[module]
		if !ok {
			return nil, false
		}
		p, ok := other.exported(name)
		return p, ok
	}

	for _, name := range r.order {
		def := r.defs[name]
		defOpts := opts
		if def.ExportMetadata {
			defOpts = append(append([]compile.Option(nil), opts...), compile.WithExportMetadata(true))
		}
		parser, err := compile.CompileLinked(def.Program, known, lookup, linked, defOpts...)
		if err != nil {
			return fmt.Errorf("registry: compiling %q: %w", name, err)
		}
		r.entries[name] = &entry{def: def, parser: parser}
	}
	return nil
}

// exported returns name's compiled parser if it is Public or
// PublicAndInternal, or was compiled with compile.WithExportCombinator, for
// use by another registry's Link'd cross-module parsec calls.
func (r *Registry) exported(name string) (*compile.Parser, bool) {
	e, ok := r.entries[name]
	if !ok || (e.def.Visibility == Internal && !e.parser.ExportsCombinator()) {
		return nil, false
	}
	return e.parser, true
}

// Parse runs the named public definition's compiled parser over input. It
// returns an error if name is not defined or was declared Internal.
func (r *Registry) Parse(name string, input []byte, opts ...compile.ParseOption) (*combo.Result, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("registry: %q was not built (call Build first)", name)
	}
	if e.def.Visibility == Internal {
		return nil, fmt.Errorf("registry: %q is internal, has no entry point", name)
	}
	return e.parser.Parse(input, opts...)
}

// Export returns every Public or PublicAndInternal definition, in
// declaration order, for tooling (cmd/combo, combofmt) that needs to walk
// a module's public surface.
func (r *Registry) Export() []Definition {
	var out []Definition
	for _, name := range r.order {
		def := r.defs[name]
		if def.Visibility != Internal {
			out = append(out, def)
		}
	}
	return out
}

// Metadata returns name's compiled IR, or nil if name is undefined or was
// not compiled with ExportMetadata set.
func (r *Registry) Metadata(name string) ir.Program {
	e, ok := r.entries[name]
	if !ok {
		return nil
	}
	return e.parser.Metadata()
}

// MetadataLookup returns a closure suitable for generate.WithLookup,
// resolving local parsec(name) targets against this registry's exported
// metadata.
func (r *Registry) MetadataLookup() func(name string) (ir.Program, bool) {
	return func(name string) (ir.Program, bool) {
		prog := r.Metadata(name)
		return prog, prog != nil
	}
}

// MetadataLinked returns a closure suitable for generate.WithLinked,
// resolving cross-module parsec(module, name) targets against whatever
// registries were passed to Link.
func (r *Registry) MetadataLinked() func(module, name string) (ir.Program, bool) {
	return func(module, name string) (ir.Program, bool) {
		other, ok := r.linked[module]
		if !ok {
			return nil, false
		}
		if _, exported := other.exported(name); !exported {
			return nil, false
		}
		prog := other.Metadata(name)
		return prog, prog != nil
	}
}
