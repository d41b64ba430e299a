package format

import "fmt"

// ParseError reports that text did not match a plan. Pos is the byte
// offset where matching stopped and Expected describes what the plan
// wanted there.
type ParseError struct {
	Text     string
	Pos      int
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("format: cannot parse %q: expected %s at position %d", e.Text, e.Expected, e.Pos)
}

// TrailingInputError is the ParseError raised when the plan matched a
// prefix of the text but input remained.
type TrailingInputError struct {
	ParseError
}

func (e *TrailingInputError) Error() string {
	return fmt.Sprintf("format: trailing input %q at position %d in %q", e.Text[e.Pos:], e.Pos, e.Text)
}

// Unwrap exposes the underlying ParseError so errors.As sees trailing
// input as a parse failure too.
func (e *TrailingInputError) Unwrap() error {
	return &e.ParseError
}
