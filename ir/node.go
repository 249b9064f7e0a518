// Package ir defines the combinator intermediate representation: a tagged,
// introspectable sequence of nodes describing a grammar, plus the builder
// functions that assemble it. The compiler and generator packages both
// operate on this representation without needing to re-derive it from
// source.
package ir

// Kind discriminates the variants of a combinator node.
type Kind int

const (
	KindBinSegment Kind = iota
	KindString
	KindBytes
	KindEOS
	KindLabel
	KindTraverse
	KindChoice
	KindRepeat
	KindTimes
	KindLookahead
	KindEventually
	KindParsec
)

func (k Kind) String() string {
	switch k {
	case KindBinSegment:
		return "bin_segment"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindEOS:
		return "eos"
	case KindLabel:
		return "label"
	case KindTraverse:
		return "traverse"
	case KindChoice:
		return "choice"
	case KindRepeat:
		return "repeat"
	case KindTimes:
		return "times"
	case KindLookahead:
		return "lookahead"
	case KindEventually:
		return "eventually"
	case KindParsec:
		return "parsec"
	default:
		return "unknown"
	}
}

// Sense distinguishes positive from negative lookahead.
type Sense int

const (
	Positive Sense = iota
	Negative
)

// Phase selects when a traverse's ops run relative to its body.
type Phase int

const (
	Post Phase = iota
	Pre
	Constant
)

// Target names a parsec call: a local combinator, or a (module, name) pair
// resolved against another registry at link time.
type Target struct {
	Module string // empty for a local call
	Name   string
}

// Node is a single combinator IR node. It is a tagged struct rather than an
// interface-per-variant so the compiler can type-switch on Kind densely,
// following the style of java/parser.Node's Kind+payload-fields shape. The
// JSON introspection format is a separate wire shape (see json.go).
type Node struct {
	Kind Kind

	// bin_segment
	Inclusive []Range
	Exclusive []Range
	Modifier  Modifier

	// string / bytes
	Literal   []byte // string(bytes)
	ByteCount int    // bytes(n)

	// label
	LabelText string

	// traverse
	TraversePhase Phase
	Ops           []TraverseOp

	// choice
	Alternatives []Program
	Weights      []int // nil if unweighted

	// repeat / times
	Body       Program
	WhileCall  RepeatWhileFunc
	GenTimes   *IntRange // nil => default 0..3 for the generator
	MaxTimes   int       // times(inner, max)

	// label / traverse / lookahead body
	Inner          Program
	LookaheadSense Sense

	// eventually
	EventuallyBody Program

	// parsec
	Call Target

	// Provenance is a free-form label recording which builder produced this
	// node (e.g. "Choice", "Repeat"). No package in this module reads it,
	// and it is not part of the JSON wire shape.
	Provenance string
}

// Modifier selects the codepoint width a bin_segment matches against.
type Modifier int

const (
	Integer Modifier = iota
	Utf8
	Utf16
	Utf32
)

func (m Modifier) String() string {
	switch m {
	case Integer:
		return "integer"
	case Utf8:
		return "utf8"
	case Utf16:
		return "utf16"
	case Utf32:
		return "utf32"
	default:
		return "unknown"
	}
}

// Range is a codepoint interval with step ±1; whether it is interpreted as
// inclusive or excluded is structural — it depends on which list of a
// bin_segment it appears in, not on a field of Range itself.
type Range struct {
	Low, High int
}

// IntRange is a closed integer interval used for repetition counts.
type IntRange struct {
	Min, Max int
}

// RepeatWhileFunc decides whether a repeat loop continues and, like a
// traverse callback, may return a replacement context: it receives the
// context in effect after the most recent iteration and returns the
// decision paired with the context the next iteration (or the repeat's
// caller, on halt) should see. The default (nil) is "always continue,
// context unchanged".
type RepeatWhileFunc func(input []byte, ctx map[string]any, line int, offset int) (HaltDecision, map[string]any)

// HaltDecision is the result of a repeat_while callback.
type HaltDecision int

const (
	Cont HaltDecision = iota
	Halt
)

// Program is an ordered sequence of nodes in logical (left-to-right)
// production order. Builders append to the end of a Program; introspection
// (MarshalJSON, the pretty-printer) walks it in this same logical order.
type Program []*Node
