package generate_test

import (
	"bytes"
	"testing"

	"github.com/dhamidi/combo/compile"
	"github.com/dhamidi/combo/generate"
	"github.com/dhamidi/combo/ir"
)

func mustProgram(t *testing.T, p ir.Program, err error) ir.Program {
	t.Helper()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return p
}

func TestStringLiteralGeneratesItself(t *testing.T) {
	prog := mustProgram(t, ir.StringLiteral(nil, []byte("hello")))
	out, err := generate.Generate(prog, generate.WithSeed(1, 2))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("out = %q, want %q", out, "hello")
	}
}

func TestBytesGeneratesRequestedLength(t *testing.T) {
	prog := mustProgram(t, ir.NBytes(nil, 8))
	out, err := generate.Generate(prog, generate.WithSeed(1, 2))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out) != 8 {
		t.Fatalf("len(out) = %d, want 8", len(out))
	}
}

func TestGeneratedOutputRoundTripsThroughCompiledParser(t *testing.T) {
	digit := mustProgram(t, ir.AsciiChar(nil, '0', '9'))
	prog := mustProgram(t, ir.Repeat(nil, digit))

	parser, err := compile.Compile(prog)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for seed := uint64(0); seed < 20; seed++ {
		out, err := generate.Generate(prog, generate.WithSeed(seed, seed+1))
		if err != nil {
			t.Fatalf("generate seed %d: %v", seed, err)
		}
		res, err := parser.Parse(out)
		if err != nil {
			t.Fatalf("parse of generated %q failed: %v", out, err)
		}
		if len(res.Rest) != 0 {
			t.Fatalf("generated %q left unparsed rest %q", out, res.Rest)
		}
	}
}

func TestBinSegmentRespectsExclusion(t *testing.T) {
	seg := mustProgram(t, ir.BinSegment(nil, []ir.Range{{Low: 'a', High: 'z'}}, []ir.Range{{Low: 'm', High: 'm'}}, ir.Integer))
	for seed := uint64(0); seed < 50; seed++ {
		out, err := generate.Generate(seg, generate.WithSeed(seed, seed))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(out) != 1 || out[0] == 'm' {
			t.Fatalf("out = %q, must never be m", out)
		}
	}
}

func TestChoiceWeightedDistributionApproximatesWeights(t *testing.T) {
	a := mustProgram(t, ir.StringLiteral(nil, []byte("a")))
	b := mustProgram(t, ir.StringLiteral(nil, []byte("b")))
	choice := mustProgram(t, ir.ChoiceWeighted(nil, []int{9, 1}, a, b))

	dist, err := generate.Distribution(choice[0], 2000, generate.WithSeed(7, 9))
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	total := dist[0] + dist[1]
	if total != 2000 {
		t.Fatalf("total draws = %d, want 2000", total)
	}
	ratio := float64(dist[0]) / float64(total)
	if ratio < 0.75 || ratio > 0.98 {
		t.Fatalf("alternative 0 ratio = %f, want roughly 0.9", ratio)
	}
}

func TestLookaheadIsSkipped(t *testing.T) {
	look := mustProgram(t, ir.Lookahead(nil, mustProgram(t, ir.StringLiteral(nil, []byte("x"))), ir.Positive))
	rest := mustProgram(t, ir.StringLiteral(nil, []byte("y")))
	prog := ir.Seq(look, rest)

	out, err := generate.Generate(prog, generate.WithSeed(1, 1))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "y" {
		t.Fatalf("out = %q, want %q (lookahead must not emit)", out, "y")
	}
}

func TestEventuallyEmitsInnerOnlyNoPrefix(t *testing.T) {
	inner := mustProgram(t, ir.StringLiteral(nil, []byte("z")))
	prog := mustProgram(t, ir.Eventually(nil, inner))

	out, err := generate.Generate(prog, generate.WithSeed(3, 4))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "z" {
		t.Fatalf("out = %q, want %q with no random preamble", out, "z")
	}
}

func TestLocalParsecWithoutLookupIsAnError(t *testing.T) {
	prog := mustProgram(t, ir.Parsec(nil, "missing"))
	if _, err := generate.Generate(prog); err == nil {
		t.Fatal("expected error for unresolvable local parsec target")
	}
}

func TestParsecResolvesViaLookup(t *testing.T) {
	digit := mustProgram(t, ir.AsciiChar(nil, '0', '9'))
	call := mustProgram(t, ir.Parsec(nil, "digit"))

	lookup := func(name string) (ir.Program, bool) {
		if name == "digit" {
			return digit, true
		}
		return nil, false
	}
	out, err := generate.Generate(call, generate.WithSeed(1, 1), generate.WithLookup(lookup))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out) != 1 || out[0] < '0' || out[0] > '9' {
		t.Fatalf("out = %q, want a single digit", out)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	digit := mustProgram(t, ir.AsciiChar(nil, '0', '9'))
	prog := mustProgram(t, ir.Repeat(nil, digit))

	a, err := generate.Generate(prog, generate.WithSeed(42, 99))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := generate.Generate(prog, generate.WithSeed(42, 99))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("a = %q, b = %q, want equal for the same seed", a, b)
	}
}
