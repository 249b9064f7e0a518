// Package generate produces random byte strings that a compiled parser
// for the same IR would accept, walking the metadata-exported ir.Program
// directly rather than deriving its own grammar model. It is independent
// of package compile: both consume the same ir.Program, one to recognize,
// this one to emit.
package generate

import (
	cryptorand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"unicode/utf8"

	"github.com/dhamidi/combo/ir"
)

// Option configures a Generate call.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	lookup func(name string) (ir.Program, bool)
	linked func(module, name string) (ir.Program, bool)
}

// WithSeed makes generation reproducible: every choice pick, and every
// repeat/times count, is drawn from a math/rand/v2 source seeded from the
// two given values. bytes(n) always uses crypto/rand regardless, since
// that node kind is documented to draw cryptographically-random bytes.
func WithSeed(seed1, seed2 uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed1, seed2)) }
}

// WithLookup supplies resolution for local parsec(name) targets, backed by
// a registry.Registry's exported metadata.
func WithLookup(lookup func(name string) (ir.Program, bool)) Option {
	return func(o *options) { o.lookup = lookup }
}

// WithLinked supplies resolution for cross-module parsec(module, name)
// targets.
func WithLinked(linked func(module, name string) (ir.Program, bool)) Option {
	return func(o *options) { o.linked = linked }
}

// Generate walks prog and returns one random byte string it would accept.
func Generate(prog ir.Program, opts ...Option) ([]byte, error) {
	o := &options{rng: rand.New(rand.NewPCG(0xC0B0, uint64(len(prog))))}
	for _, opt := range opts {
		opt(o)
	}
	g := &generator{opts: o}
	var out []byte
	for _, n := range prog {
		b, err := g.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Distribution draws an alternative of the choice node n count times,
// without generating the alternatives' bytes, and counts which alternative
// index was picked each time, for verifying that
// weighted choice draws match their declared proportions.
func Distribution(n *ir.Node, count int, opts ...Option) (map[int]int, error) {
	if n.Kind != ir.KindChoice {
		return nil, fmt.Errorf("generate: Distribution requires a choice node, got %s", n.Kind)
	}
	o := &options{rng: rand.New(rand.NewPCG(0xC0B0, uint64(count)))}
	for _, opt := range opts {
		opt(o)
	}
	g := &generator{opts: o}
	dist := make(map[int]int, len(n.Alternatives))
	for i := 0; i < count; i++ {
		idx := g.pickAlternative(n)
		dist[idx]++
	}
	return dist, nil
}

type generator struct {
	opts *options
}

func (g *generator) node(n *ir.Node) ([]byte, error) {
	switch n.Kind {
	case ir.KindString:
		return append([]byte(nil), n.Literal...), nil
	case ir.KindBinSegment:
		return g.binSegment(n)
	case ir.KindBytes:
		buf := make([]byte, n.ByteCount)
		if _, err := cryptorand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate: bytes(%d): %w", n.ByteCount, err)
		}
		return buf, nil
	case ir.KindEOS:
		return nil, nil
	case ir.KindLabel, ir.KindTraverse:
		return g.program(n.Inner)
	case ir.KindLookahead:
		return nil, nil
	case ir.KindChoice:
		idx := g.pickAlternative(n)
		return g.program(n.Alternatives[idx])
	case ir.KindRepeat:
		return g.repeated(n, g.genTimesCount(n.GenTimes, 0, 3))
	case ir.KindTimes:
		return g.repeated(n, g.rangeInt(0, n.MaxTimes))
	case ir.KindEventually:
		return g.program(n.EventuallyBody)
	case ir.KindParsec:
		return g.parsec(n)
	default:
		return nil, fmt.Errorf("generate: unhandled node kind %s", n.Kind)
	}
}

func (g *generator) program(prog ir.Program) ([]byte, error) {
	var out []byte
	for _, n := range prog {
		b, err := g.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (g *generator) repeated(n *ir.Node, times int) ([]byte, error) {
	var out []byte
	for i := 0; i < times; i++ {
		b, err := g.program(n.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (g *generator) genTimesCount(gt *ir.IntRange, defaultMin, defaultMax int) int {
	if gt == nil {
		return g.rangeInt(defaultMin, defaultMax)
	}
	return g.rangeInt(gt.Min, gt.Max)
}

func (g *generator) rangeInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.opts.rng.IntN(max-min+1)
}

func (g *generator) pickAlternative(n *ir.Node) int {
	if len(n.Weights) == 0 {
		return g.opts.rng.IntN(len(n.Alternatives))
	}
	total := 0
	for _, w := range n.Weights {
		total += w
	}
	pick := g.opts.rng.IntN(total)
	for i, w := range n.Weights {
		if pick < w {
			return i
		}
		pick -= w
	}
	return len(n.Weights) - 1
}

// binSegment draws a random codepoint from the union of inclusive ranges
// (0..255 if none declared), rejecting and retrying draws that land in an
// exclusive range, then encodes it per the node's modifier.
func (g *generator) binSegment(n *ir.Node) ([]byte, error) {
	ranges := n.Inclusive
	if len(ranges) == 0 {
		ranges = []ir.Range{{Low: 0, High: 255}}
	}
	for attempt := 0; attempt < 1000; attempt++ {
		cp := g.drawFromRanges(ranges)
		if !excluded(cp, n.Exclusive) {
			return encodeCodepoint(n.Modifier, rune(cp)), nil
		}
	}
	return nil, fmt.Errorf("generate: bin_segment: could not find a codepoint outside excluded ranges after 1000 attempts")
}

func (g *generator) drawFromRanges(ranges []ir.Range) int {
	total := 0
	for _, r := range ranges {
		total += r.High - r.Low + 1
	}
	pick := g.opts.rng.IntN(total)
	for _, r := range ranges {
		width := r.High - r.Low + 1
		if pick < width {
			return r.Low + pick
		}
		pick -= width
	}
	return ranges[len(ranges)-1].Low
}

func excluded(cp int, exclusive []ir.Range) bool {
	for _, r := range exclusive {
		if cp >= r.Low && cp <= r.High {
			return true
		}
	}
	return false
}

func encodeCodepoint(mod ir.Modifier, r rune) []byte {
	switch mod {
	case ir.Utf8:
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, r)
		return buf[:n]
	case ir.Utf16:
		if r < 0x10000 {
			return []byte{byte(r >> 8), byte(r)}
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		return []byte{byte(hi >> 8), byte(hi), byte(lo >> 8), byte(lo)}
	case ir.Utf32:
		return []byte{byte(r >> 24), byte(r >> 16), byte(r >> 8), byte(r)}
	default: // Integer
		return []byte{byte(r)}
	}
}

func (g *generator) parsec(n *ir.Node) ([]byte, error) {
	if n.Call.Module != "" {
		if g.opts.linked == nil {
			return nil, fmt.Errorf("generate: no linked resolver supplied for %s.%s", n.Call.Module, n.Call.Name)
		}
		prog, ok := g.opts.linked(n.Call.Module, n.Call.Name)
		if !ok {
			return nil, fmt.Errorf("generate: %s.%s has no exported metadata", n.Call.Module, n.Call.Name)
		}
		return g.program(prog)
	}
	if g.opts.lookup == nil {
		return nil, fmt.Errorf("generate: local parsec(%q) has no reachable IR", n.Call.Name)
	}
	prog, ok := g.opts.lookup(n.Call.Name)
	if !ok {
		return nil, fmt.Errorf("generate: local parsec(%q) has no reachable IR", n.Call.Name)
	}
	return g.program(prog)
}
