package parse

import "fmt"

// Kind classifies a per-line failure. KindParse covers structural
// malformation, KindValidation covers well-formed but semantically
// invalid fields. Nothing else escapes the parser.
type Kind int

const (
	KindParse Kind = iota
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindValidation:
		return "ValidationError"
	}
	return "UnknownError"
}

// Error is the single recoverable error type of the parser.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func parseErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Msg: fmt.Sprintf(format, args...)}
}

func validationErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}
