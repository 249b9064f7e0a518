package ir

import "testing"

func TestOptionalIsChoiceWithEmpty(t *testing.T) {
	x, _ := AsciiChar(nil, 'a', 'z')
	p, err := Optional(nil, x)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 1 || p[0].Kind != KindChoice {
		t.Fatalf("expected a single choice node, got %+v", p)
	}
	if len(p[0].Alternatives) != 2 || len(p[0].Alternatives[1]) != 0 {
		t.Fatalf("expected second alternative to be empty, got %+v", p[0].Alternatives)
	}
}

func TestDuplicateRepeatsBody(t *testing.T) {
	digit, _ := AsciiChar(nil, '0', '9')
	p, err := Duplicate(nil, digit, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(p))
	}
}

func TestDuplicateZeroWithNonEmptyBodyIsEmpty(t *testing.T) {
	digit, _ := AsciiChar(nil, '0', '9')
	p, err := Duplicate(nil, digit, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 0 {
		t.Fatalf("expected empty program, got %d nodes", len(p))
	}
}

func TestIntegerFixedWidthProducesFoldDigits(t *testing.T) {
	p, err := Integer(nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 1 || p[0].Kind != KindTraverse {
		t.Fatalf("expected single traverse node, got %+v", p)
	}
	if len(p[0].Ops) != 1 || p[0].Ops[0].Kind != OpFoldDigits || p[0].Ops[0].DigitCount != 2 {
		t.Fatalf("expected fold_digits op with count 2, got %+v", p[0].Ops)
	}
	if len(p[0].Inner) != 2 {
		t.Fatalf("expected 2 digit nodes in body, got %d", len(p[0].Inner))
	}
}

func TestIntegerRangeRejectsMaxLEMin(t *testing.T) {
	if _, err := IntegerRange(nil, 3, 3); err == nil {
		t.Fatal("expected error when max == min")
	}
}

func TestWrapProducesPostTraverse(t *testing.T) {
	x, _ := AsciiChar(nil, 'a', 'z')
	p, err := Wrap(nil, x)
	if err != nil {
		t.Fatal(err)
	}
	if p[0].TraversePhase != Post || p[0].Ops[0].Kind != OpWrap {
		t.Fatalf("expected post wrap op, got %+v", p[0])
	}
}

func TestIgnoreProducesConstantTraverse(t *testing.T) {
	x, _ := AsciiChar(nil, 'a', 'z')
	p, err := Ignore(nil, x)
	if err != nil {
		t.Fatal(err)
	}
	if p[0].TraversePhase != Constant || p[0].Ops[0].Kind != OpIgnore {
		t.Fatalf("expected constant ignore op, got %+v", p[0])
	}
}
