package service

import "fmt"

// Kind classifies service failures; handlers map each kind to a status code.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindValidation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	default:
		return "unexpected"
	}
}

// Error is the only error type services return. Message is safe to show to
// API clients.
type Error struct {
	Kind    Kind
	Message string
	// Status is the upstream status to propagate for KindUpstream, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

func Upstream(message string, status int, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Status: status, Err: err}
}

// Unexpected wraps err, exposing its text as the message
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: err.Error(), Err: err}
}
