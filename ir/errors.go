package ir

import "fmt"

// BuildError is raised by a builder call at grammar-definition time, never
// during parsing. It wraps the offending builder's name and a reason.
type BuildError struct {
	Builder string
	Reason  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Builder, e.Reason)
}

func buildErrorf(builder, format string, args ...any) *BuildError {
	return &BuildError{Builder: builder, Reason: fmt.Sprintf(format, args...)}
}
