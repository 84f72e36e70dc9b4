// Package companionerr defines the error kinds the dispatcher distinguishes
// when deciding whether a failed operation becomes a wire-level error reply
// or a non-fatal game event reported back to the acting player.
package companionerr

import "fmt"

// Kind categorizes a companion-domain failure.
type Kind int

const (
	// KindEmptyDeck is returned when an operation needed a card and the pile
	// was empty.
	KindEmptyDeck Kind = iota
	// KindNotFound is returned when a codex number, ticket, or neighbourhood
	// key was not present.
	KindNotFound
	// KindInvalidOp is returned when an operation is not applicable to the
	// current scenario, or a state precondition was violated.
	KindInvalidOp
	// KindInvalidSettings is returned when a scenario/expansion pair is
	// rejected by the catalog validator.
	KindInvalidSettings
	// KindProtocolError is returned for malformed JSON or an unknown action.
	KindProtocolError
)

func (k Kind) String() string {
	switch k {
	case KindEmptyDeck:
		return "EmptyDeck"
	case KindNotFound:
		return "NotFound"
	case KindInvalidOp:
		return "InvalidOp"
	case KindInvalidSettings:
		return "InvalidSettings"
	case KindProtocolError:
		return "ProtocolError"
	default:
		return "Unknown"
	}
}

// Error is a typed companion-domain error. It satisfies the standard error
// interface and can be extracted with errors.As; the package-level Is
// compares its Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an *Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a companion error of the given kind.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	return ok && ce.Kind == kind
}
