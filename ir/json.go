package ir

import (
	"encoding/json"
	"fmt"
)

// jsonNode mirrors Node's wire shape. It is a private shadow struct rather
// than struct tags on Node itself, since Node's Go representation (typed
// Kind, []Range) intentionally differs from a plain-data wire shape
// third-party tools should be able to consume without importing this
// package's types.
type jsonNode struct {
	Kind string `json:"kind"`

	Inclusive []jsonRange `json:"inclusive,omitempty"`
	Exclusive []jsonRange `json:"exclusive,omitempty"`
	Modifier  string      `json:"modifier,omitempty"`

	Literal   []byte `json:"literal,omitempty"`
	ByteCount int    `json:"byte_count,omitempty"`

	Label string `json:"label,omitempty"`

	Phase string    `json:"phase,omitempty"`
	Ops   []jsonOp  `json:"ops,omitempty"`
	Body  []jsonNode `json:"body,omitempty"`

	Alternatives [][]jsonNode `json:"alternatives,omitempty"`
	Weights      []int        `json:"weights,omitempty"`

	MaxTimes int           `json:"max_times,omitempty"`
	GenTimes *jsonIntRange `json:"gen_times,omitempty"`

	Sense string `json:"sense,omitempty"`

	Call *jsonTarget `json:"call,omitempty"`
}

type jsonRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

type jsonIntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type jsonOp struct {
	Kind         string `json:"kind"`
	Tag          any    `json:"tag,omitempty"`
	ReplaceValue any    `json:"replace_value,omitempty"`
	DigitCount   int    `json:"digit_count,omitempty"`
	Custom       bool   `json:"custom,omitempty"`
}

type jsonTarget struct {
	Module string `json:"module,omitempty"`
	Name   string `json:"name"`
}

func opKindString(k OpKind) string {
	switch k {
	case OpFoldDigits:
		return "fold_digits"
	case OpConcatBytes:
		return "concat_bytes"
	case OpWrap:
		return "wrap"
	case OpTag:
		return "tag"
	case OpUnwrapAndTag:
		return "unwrap_and_tag"
	case OpIgnore:
		return "ignore"
	case OpReplace:
		return "replace"
	case OpByteOffset:
		return "byte_offset"
	case OpLine:
		return "line"
	default:
		return "custom"
	}
}

func rangesToJSON(rs []Range) []jsonRange {
	if rs == nil {
		return nil
	}
	out := make([]jsonRange, len(rs))
	for i, r := range rs {
		out[i] = jsonRange{Low: r.Low, High: r.High}
	}
	return out
}

func opsToJSON(ops []TraverseOp) []jsonOp {
	if ops == nil {
		return nil
	}
	out := make([]jsonOp, len(ops))
	for i, op := range ops {
		out[i] = jsonOp{
			Kind:         opKindString(op.Kind),
			Tag:          op.TagValue,
			ReplaceValue: op.ReplaceValue,
			DigitCount:   op.DigitCount,
			Custom:       op.Kind == OpCustom,
		}
	}
	return out
}

func programToJSON(p Program) []jsonNode {
	if p == nil {
		return nil
	}
	out := make([]jsonNode, len(p))
	for i, n := range p {
		out[i] = *nodeToJSON(n)
	}
	return out
}

func alternativesToJSON(alts []Program) [][]jsonNode {
	if alts == nil {
		return nil
	}
	out := make([][]jsonNode, len(alts))
	for i, a := range alts {
		out[i] = programToJSON(a)
	}
	return out
}

func nodeToJSON(n *Node) *jsonNode {
	jn := &jsonNode{Kind: n.Kind.String()}

	switch n.Kind {
	case KindBinSegment:
		jn.Inclusive = rangesToJSON(n.Inclusive)
		jn.Exclusive = rangesToJSON(n.Exclusive)
		jn.Modifier = n.Modifier.String()
	case KindString:
		jn.Literal = n.Literal
	case KindBytes:
		jn.ByteCount = n.ByteCount
	case KindEOS:
		// no payload
	case KindLabel:
		jn.Label = n.LabelText
		jn.Body = programToJSON(n.Inner)
	case KindTraverse:
		jn.Phase = phaseString(n.TraversePhase)
		jn.Ops = opsToJSON(n.Ops)
		jn.Body = programToJSON(n.Inner)
	case KindChoice:
		jn.Alternatives = alternativesToJSON(n.Alternatives)
		jn.Weights = n.Weights
	case KindRepeat:
		jn.Body = programToJSON(n.Body)
		if n.GenTimes != nil {
			jn.GenTimes = &jsonIntRange{Min: n.GenTimes.Min, Max: n.GenTimes.Max}
		}
	case KindTimes:
		jn.Body = programToJSON(n.Body)
		jn.MaxTimes = n.MaxTimes
	case KindLookahead:
		jn.Body = programToJSON(n.Inner)
		jn.Sense = senseString(n.LookaheadSense)
	case KindEventually:
		jn.Body = programToJSON(n.EventuallyBody)
	case KindParsec:
		jn.Call = &jsonTarget{Module: n.Call.Module, Name: n.Call.Name}
	}

	return jn
}

func phaseString(p Phase) string {
	switch p {
	case Pre:
		return "pre"
	case Constant:
		return "constant"
	default:
		return "post"
	}
}

func senseString(s Sense) string {
	if s == Negative {
		return "negative"
	}
	return "positive"
}

// MarshalJSON emits the program as a plain sequence of tagged records in
// logical order, the IR introspection surface third-party tools consume.
func (p Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(programToJSON(p))
}

func kindFromString(s string) (Kind, error) {
	switch s {
	case "bin_segment":
		return KindBinSegment, nil
	case "string":
		return KindString, nil
	case "bytes":
		return KindBytes, nil
	case "eos":
		return KindEOS, nil
	case "label":
		return KindLabel, nil
	case "traverse":
		return KindTraverse, nil
	case "choice":
		return KindChoice, nil
	case "repeat":
		return KindRepeat, nil
	case "times":
		return KindTimes, nil
	case "lookahead":
		return KindLookahead, nil
	case "eventually":
		return KindEventually, nil
	case "parsec":
		return KindParsec, nil
	default:
		return 0, fmt.Errorf("ir: unknown node kind %q", s)
	}
}

func modifierFromString(s string) (Modifier, error) {
	switch s {
	case "", "integer":
		return Integer, nil
	case "utf8":
		return Utf8, nil
	case "utf16":
		return Utf16, nil
	case "utf32":
		return Utf32, nil
	default:
		return 0, fmt.Errorf("ir: unknown bin_segment modifier %q", s)
	}
}

func phaseFromString(s string) (Phase, error) {
	switch s {
	case "", "post":
		return Post, nil
	case "pre":
		return Pre, nil
	case "constant":
		return Constant, nil
	default:
		return 0, fmt.Errorf("ir: unknown traverse phase %q", s)
	}
}

func senseFromString(s string) (Sense, error) {
	switch s {
	case "", "positive":
		return Positive, nil
	case "negative":
		return Negative, nil
	default:
		return 0, fmt.Errorf("ir: unknown lookahead sense %q", s)
	}
}

func opKindFromString(s string) (OpKind, error) {
	switch s {
	case "fold_digits":
		return OpFoldDigits, nil
	case "concat_bytes":
		return OpConcatBytes, nil
	case "wrap":
		return OpWrap, nil
	case "tag":
		return OpTag, nil
	case "unwrap_and_tag":
		return OpUnwrapAndTag, nil
	case "ignore":
		return OpIgnore, nil
	case "replace":
		return OpReplace, nil
	case "byte_offset":
		return OpByteOffset, nil
	case "line":
		return OpLine, nil
	default:
		return 0, fmt.Errorf("ir: unknown traverse op kind %q", s)
	}
}

func rangesFromJSON(rs []jsonRange) []Range {
	if rs == nil {
		return nil
	}
	out := make([]Range, len(rs))
	for i, r := range rs {
		out[i] = Range{Low: r.Low, High: r.High}
	}
	return out
}

func opsFromJSON(ops []jsonOp) ([]TraverseOp, error) {
	if ops == nil {
		return nil, nil
	}
	out := make([]TraverseOp, len(ops))
	for i, op := range ops {
		if op.Custom {
			return nil, fmt.Errorf("ir: cannot unmarshal custom traverse op %q, a Go func value has no JSON representation", op.Kind)
		}
		kind, err := opKindFromString(op.Kind)
		if err != nil {
			return nil, err
		}
		out[i] = TraverseOp{
			Kind:         kind,
			TagValue:     op.Tag,
			ReplaceValue: op.ReplaceValue,
			DigitCount:   op.DigitCount,
		}
	}
	return out, nil
}

func programFromJSON(raw []jsonNode) (Program, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(Program, len(raw))
	for i, jn := range raw {
		n, err := nodeFromJSON(jn)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func alternativesFromJSON(alts [][]jsonNode) ([]Program, error) {
	if alts == nil {
		return nil, nil
	}
	out := make([]Program, len(alts))
	for i, a := range alts {
		prog, err := programFromJSON(a)
		if err != nil {
			return nil, err
		}
		out[i] = prog
	}
	return out, nil
}

func nodeFromJSON(jn jsonNode) (*Node, error) {
	kind, err := kindFromString(jn.Kind)
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: kind}

	switch kind {
	case KindBinSegment:
		mod, err := modifierFromString(jn.Modifier)
		if err != nil {
			return nil, err
		}
		n.Inclusive = rangesFromJSON(jn.Inclusive)
		n.Exclusive = rangesFromJSON(jn.Exclusive)
		n.Modifier = mod
	case KindString:
		n.Literal = jn.Literal
	case KindBytes:
		n.ByteCount = jn.ByteCount
	case KindEOS:
		// no payload
	case KindLabel:
		body, err := programFromJSON(jn.Body)
		if err != nil {
			return nil, err
		}
		n.LabelText = jn.Label
		n.Inner = body
	case KindTraverse:
		phase, err := phaseFromString(jn.Phase)
		if err != nil {
			return nil, err
		}
		ops, err := opsFromJSON(jn.Ops)
		if err != nil {
			return nil, err
		}
		body, err := programFromJSON(jn.Body)
		if err != nil {
			return nil, err
		}
		n.TraversePhase = phase
		n.Ops = ops
		n.Inner = body
	case KindChoice:
		alts, err := alternativesFromJSON(jn.Alternatives)
		if err != nil {
			return nil, err
		}
		n.Alternatives = alts
		n.Weights = jn.Weights
	case KindRepeat:
		body, err := programFromJSON(jn.Body)
		if err != nil {
			return nil, err
		}
		n.Body = body
		if jn.GenTimes != nil {
			n.GenTimes = &IntRange{Min: jn.GenTimes.Min, Max: jn.GenTimes.Max}
		}
	case KindTimes:
		body, err := programFromJSON(jn.Body)
		if err != nil {
			return nil, err
		}
		n.Body = body
		n.MaxTimes = jn.MaxTimes
	case KindLookahead:
		body, err := programFromJSON(jn.Body)
		if err != nil {
			return nil, err
		}
		sense, err := senseFromString(jn.Sense)
		if err != nil {
			return nil, err
		}
		n.Inner = body
		n.LookaheadSense = sense
	case KindEventually:
		body, err := programFromJSON(jn.Body)
		if err != nil {
			return nil, err
		}
		n.EventuallyBody = body
	case KindParsec:
		if jn.Call == nil {
			return nil, fmt.Errorf("ir: parsec node missing call target")
		}
		n.Call = Target{Module: jn.Call.Module, Name: jn.Call.Name}
	}

	return n, nil
}

// UnmarshalJSON parses the wire shape MarshalJSON produces back into a
// Program, the inverse of nodeToJSON. A node carrying a custom traverse op
// (OpCustom) cannot round-trip, since a Go func value has no JSON
// representation; UnmarshalJSON reports an error for those rather than
// silently dropping the op.
func (p *Program) UnmarshalJSON(data []byte) error {
	var raw []jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	prog, err := programFromJSON(raw)
	if err != nil {
		return err
	}
	*p = prog
	return nil
}
