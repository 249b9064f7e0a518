package combo

import "testing"

func TestPositionAdvanceTracksLineAndColumn(t *testing.T) {
	p := Position{Line: 1}
	p = p.AdvanceBytes([]byte("ab\ncd"))
	if p.Line != 2 {
		t.Fatalf("expected line 2, got %d", p.Line)
	}
	if p.Column() != 3 {
		t.Fatalf("expected column 3, got %d", p.Column())
	}
	if p.Offset != 5 {
		t.Fatalf("expected offset 5, got %d", p.Offset)
	}
}

func TestPositionStringFormat(t *testing.T) {
	p := Position{Line: 4, Offset: 10, LineOffset: 8}
	if got, want := p.String(), "4:3"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestContextCloneIsIndependentCopy(t *testing.T) {
	orig := Context{"a": 1}
	clone := orig.Clone()
	clone["a"] = 2
	if orig["a"] != 1 {
		t.Fatalf("clone mutation leaked into original: %v", orig)
	}
}

func TestContextCloneOfNilIsNil(t *testing.T) {
	var c Context
	if c.Clone() != nil {
		t.Fatal("expected nil clone of nil context")
	}
}

func TestStatePushPrependsToAccumulator(t *testing.T) {
	s := State{}
	s = s.Push("a")
	s = s.Push("b")
	if len(s.Acc) != 2 || s.Acc[0] != "b" || s.Acc[1] != "a" {
		t.Fatalf("unexpected accumulator: %v", s.Acc)
	}
}

func TestReversedRestoresProductionOrder(t *testing.T) {
	acc := []any{"c", "b", "a"}
	rev := Reversed(acc)
	if rev[0] != "a" || rev[1] != "b" || rev[2] != "c" {
		t.Fatalf("unexpected reversed order: %v", rev)
	}
}

func TestLabeledPrependsExpected(t *testing.T) {
	if got, want := Labeled("digit"), "expected digit"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJoinLabelsComposesWithFollowedBy(t *testing.T) {
	got := JoinLabels("expected a", "expected b")
	want := "expected a, followed by expected b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFailureErrorIncludesReasonAndPosition(t *testing.T) {
	f := &Failure{Reason: "expected digit", Pos: Position{Line: 1, Offset: 3, LineOffset: 0}}
	if got, want := f.Error(), "expected digit at 1:4"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
