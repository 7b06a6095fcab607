package action

import "fmt"

type ErrorKind int

const (
	// KindSyntax: the text is not a single well-formed expression.
	KindSyntax ErrorKind = iota
	// KindSignature: the text looks like "name(args) -> type".
	KindSignature
	// KindNotCall: a valid expression that is not a call.
	KindNotCall
	// KindCallee: a call whose callee is not a plain identifier.
	KindCallee
)

func (k ErrorKind) String() string {
	switch k {
	case KindSignature:
		return "signature"
	case KindNotCall:
		return "not_call"
	case KindCallee:
		return "callee"
	default:
		return "syntax"
	}
}

// ParseError carries a human-readable cause and the offending text as it
// was received, before any repair rule ran.
type ParseError struct {
	Kind  ErrorKind
	Cause string
	Text  string
}

func (e *ParseError) Error() string {
	return e.Cause
}

func newParseError(kind ErrorKind, text, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Cause: fmt.Sprintf(format, args...), Text: text}
}
