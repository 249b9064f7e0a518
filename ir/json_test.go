package ir

import (
	"encoding/json"
	"testing"
)

func TestProgramMarshalJSONRoundTripsShape(t *testing.T) {
	digit, _ := AsciiChar(nil, '0', '9')
	prog, err := Repeat(nil, digit)
	if err != nil {
		t.Fatal(err)
	}
	prog, err = EOS(prog)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(raw))
	}
	if raw[0]["kind"] != "repeat" {
		t.Fatalf("expected first node kind repeat, got %v", raw[0]["kind"])
	}
	body, ok := raw[0]["body"].([]any)
	if !ok || len(body) != 1 {
		t.Fatalf("expected repeat body with 1 node, got %v", raw[0]["body"])
	}
	if raw[1]["kind"] != "eos" {
		t.Fatalf("expected second node kind eos, got %v", raw[1]["kind"])
	}
}

func TestChoiceJSONIncludesAlternatives(t *testing.T) {
	a, _ := AsciiChar(nil, 'a', 'z')
	b, _ := AsciiChar(nil, '0', '9')
	prog, err := Choice(nil, a, b)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	alts, ok := raw[0]["alternatives"].([]any)
	if !ok || len(alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %v", raw[0]["alternatives"])
	}
}

func TestProgramRoundTripsThroughMarshalUnmarshal(t *testing.T) {
	digit, _ := AsciiChar(nil, '0', '9')
	body, err := Integer(nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := Choice(nil, digit, body)
	if err != nil {
		t.Fatal(err)
	}
	prog, err = Label(prog, digit, "a digit")
	if err != nil {
		t.Fatal(err)
	}
	prog, err = EOS(prog)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatal(err)
	}

	var out Program
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	data2, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(data2) {
		t.Fatalf("round trip mismatch:\nfirst:  %s\nsecond: %s", data, data2)
	}
}

func TestUnmarshalJSONRejectsCustomTraverseOp(t *testing.T) {
	data := []byte(`[{"kind":"traverse","phase":"post","ops":[{"kind":"custom","custom":true}]}]`)
	var out Program
	if err := json.Unmarshal(data, &out); err == nil {
		t.Fatal("expected error unmarshaling a custom traverse op")
	}
}

func TestUnmarshalJSONRejectsUnknownKind(t *testing.T) {
	data := []byte(`[{"kind":"not_a_real_kind"}]`)
	var out Program
	if err := json.Unmarshal(data, &out); err == nil {
		t.Fatal("expected error unmarshaling an unknown node kind")
	}
}
