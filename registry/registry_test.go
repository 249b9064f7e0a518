package registry_test

import (
	"testing"

	"github.com/dhamidi/combo/ir"
	"github.com/dhamidi/combo/registry"
)

func mustProgram(t *testing.T, p ir.Program, err error) ir.Program {
	t.Helper()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return p
}

func TestPublicDefinitionParses(t *testing.T) {
	r := registry.New()
	prog := mustProgram(t, ir.StringLiteral(nil, []byte("hi")))
	if err := r.Define(registry.Definition{Name: "greeting", Visibility: registry.Public, Program: prog}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := r.Parse("greeting", []byte("hi"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Tokens) != 1 || res.Tokens[0] != "hi" {
		t.Fatalf("tokens = %v, want [hi]", res.Tokens)
	}
}

func TestInternalDefinitionHasNoEntryPoint(t *testing.T) {
	r := registry.New()
	prog := mustProgram(t, ir.StringLiteral(nil, []byte("x")))
	if err := r.Define(registry.Definition{Name: "helper", Visibility: registry.Internal, Program: prog}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := r.Parse("helper", []byte("x")); err == nil {
		t.Fatal("expected internal definition to have no entry point")
	}
}

func TestDuplicateDefinitionIsBuildError(t *testing.T) {
	r := registry.New()
	prog := mustProgram(t, ir.StringLiteral(nil, []byte("x")))
	if err := r.Define(registry.Definition{Name: "dup", Visibility: registry.Public, Program: prog}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := r.Define(registry.Definition{Name: "dup", Visibility: registry.Public, Program: prog}); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestSelfReferencingRecursiveDefinition(t *testing.T) {
	angleOpen := mustProgram(t, ir.Ignore(nil, mustProgram(t, ir.StringLiteral(nil, []byte("<")))))
	angleClose := mustProgram(t, ir.Ignore(nil, mustProgram(t, ir.StringLiteral(nil, []byte(">")))))
	slashOpen := mustProgram(t, ir.Ignore(nil, mustProgram(t, ir.StringLiteral(nil, []byte("</")))))
	tagName := mustProgram(t, ir.AsciiString(nil, 'a', 'z', 1, 20))

	opening := ir.Seq(angleOpen, tagName, angleClose)
	closing := ir.Seq(slashOpen, tagName, angleClose)

	notLT := mustProgram(t, ir.LookaheadNot(nil, mustProgram(t, ir.StringLiteral(nil, []byte("</")))))
	textByte := mustProgram(t, ir.BinSegment(nil, []ir.Range{{Low: 0, High: 255}}, []ir.Range{{Low: '<', High: '<'}}, ir.Integer))
	textByte2 := mustProgram(t, ir.BinSegment(nil, []ir.Range{{Low: 0, High: 255}}, []ir.Range{{Low: '<', High: '<'}}, ir.Integer))
	textBody := mustProgram(t, ir.Times(textByte, textByte2, 254))
	text := mustProgram(t, ir.Traverse(nil, textBody, ir.Post, []ir.TraverseOp{{Kind: ir.OpConcatBytes}}))

	self := mustProgram(t, ir.Parsec(nil, "element"))
	choice := mustProgram(t, ir.Choice(nil, self, text))
	repeatBody := ir.Seq(notLT, choice)
	repeat := mustProgram(t, ir.Repeat(nil, repeatBody))

	body := ir.Seq(opening, repeat, closing)
	element := mustProgram(t, ir.Wrap(nil, body))

	r := registry.New()
	if err := r.Define(registry.Definition{Name: "element", Visibility: registry.Public, Program: element}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}

	res, err := r.Parse("element", []byte("<foo>bar</foo>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	list, ok := res.Tokens[0].([]any)
	if !ok {
		t.Fatalf("tokens[0] type = %T, want []any", res.Tokens[0])
	}
	want := []any{"foo", "bar", "foo"}
	if len(list) != len(want) {
		t.Fatalf("list = %v, want %v", list, want)
	}
	for i, w := range want {
		if list[i] != w {
			t.Fatalf("list[%d] = %v, want %v", i, list[i], w)
		}
	}
}

func TestMutualForwardReference(t *testing.T) {
	// even := digit | (digit odd) and odd := digit [even], so both
	// entries reference each other regardless of declaration order.
	digit := mustProgram(t, ir.AsciiChar(nil, '0', '9'))
	callOdd := mustProgram(t, ir.Parsec(nil, "odd"))
	evenProg := mustProgram(t, ir.Choice(nil, digit, ir.Seq(digit, callOdd)))

	callEven := mustProgram(t, ir.Parsec(nil, "even"))
	oddProg := ir.Seq(digit, mustProgram(t, ir.Optional(nil, callEven)))

	r := registry.New()
	if err := r.Define(registry.Definition{Name: "even", Visibility: registry.Public, Program: evenProg}); err != nil {
		t.Fatalf("define even: %v", err)
	}
	if err := r.Define(registry.Definition{Name: "odd", Visibility: registry.Public, Program: oddProg}); err != nil {
		t.Fatalf("define odd: %v", err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := r.Parse("even", []byte("12")); err != nil {
		t.Fatalf("parse even: %v", err)
	}
	if _, err := r.Parse("odd", []byte("1")); err != nil {
		t.Fatalf("parse odd: %v", err)
	}
}

func TestCrossRegistryLink(t *testing.T) {
	shared := registry.New()
	digitProg := mustProgram(t, ir.AsciiChar(nil, '0', '9'))
	if err := shared.Define(registry.Definition{Name: "digit", Visibility: registry.Public, Program: digitProg}); err != nil {
		t.Fatalf("define digit: %v", err)
	}
	if err := shared.Build(); err != nil {
		t.Fatalf("build shared: %v", err)
	}

	host := registry.New()
	host.Link("shared", shared)
	callDigit := mustProgram(t, ir.ParsecIn(nil, "shared", "digit"))
	pairProg := ir.Seq(callDigit, callDigit)
	if err := host.Define(registry.Definition{Name: "pair", Visibility: registry.Public, Program: pairProg}); err != nil {
		t.Fatalf("define pair: %v", err)
	}
	if err := host.Build(); err != nil {
		t.Fatalf("build host: %v", err)
	}

	res, err := host.Parse("pair", []byte("42"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Tokens) != 2 || res.Tokens[0] != '4' || res.Tokens[1] != '2' {
		t.Fatalf("tokens = %v, want ['4','2']", res.Tokens)
	}
}

func TestCrossRegistryLinkRejectsInternal(t *testing.T) {
	shared := registry.New()
	digitProg := mustProgram(t, ir.AsciiChar(nil, '0', '9'))
	if err := shared.Define(registry.Definition{Name: "digit", Visibility: registry.Internal, Program: digitProg}); err != nil {
		t.Fatalf("define digit: %v", err)
	}
	if err := shared.Build(); err != nil {
		t.Fatalf("build shared: %v", err)
	}

	host := registry.New()
	host.Link("shared", shared)
	callDigit := mustProgram(t, ir.ParsecIn(nil, "shared", "digit"))
	if err := host.Define(registry.Definition{Name: "wrapper", Visibility: registry.Public, Program: callDigit}); err != nil {
		t.Fatalf("define wrapper: %v", err)
	}
	if err := host.Build(); err != nil {
		t.Fatalf("build host: %v", err)
	}

	if _, err := host.Parse("wrapper", []byte("4")); err == nil {
		t.Fatal("expected internal cross-module target to be unresolvable")
	}
}

func TestExportListsOnlyNonInternal(t *testing.T) {
	r := registry.New()
	pub := mustProgram(t, ir.StringLiteral(nil, []byte("a")))
	internal := mustProgram(t, ir.StringLiteral(nil, []byte("b")))
	if err := r.Define(registry.Definition{Name: "pub", Visibility: registry.Public, Program: pub}); err != nil {
		t.Fatalf("define pub: %v", err)
	}
	if err := r.Define(registry.Definition{Name: "internal", Visibility: registry.Internal, Program: internal}); err != nil {
		t.Fatalf("define internal: %v", err)
	}
	exported := r.Export()
	if len(exported) != 1 || exported[0].Name != "pub" {
		t.Fatalf("export = %v, want only pub", exported)
	}
}

func TestMetadataExportedOnlyWhenRequested(t *testing.T) {
	r := registry.New()
	prog := mustProgram(t, ir.StringLiteral(nil, []byte("x")))
	if err := r.Define(registry.Definition{Name: "plain", Visibility: registry.Public, Program: prog}); err != nil {
		t.Fatalf("define plain: %v", err)
	}
	if err := r.Define(registry.Definition{Name: "withMeta", Visibility: registry.Public, Program: prog, ExportMetadata: true}); err != nil {
		t.Fatalf("define withMeta: %v", err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Metadata("plain") != nil {
		t.Fatal("expected no metadata for plain")
	}
	if r.Metadata("withMeta") == nil {
		t.Fatal("expected metadata for withMeta")
	}
}
