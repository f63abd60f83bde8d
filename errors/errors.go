package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is the failure category reported to callers of the chat core.
type Kind string

const (
	KindNotFound   Kind = "NotFound"
	KindForbidden  Kind = "Forbidden"
	KindInvariant  Kind = "InvariantViolation"
	KindValidation Kind = "ValidationError"
)

var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrInvariantViolation = fmt.Errorf("invariant violation")
	ErrValidation         = fmt.Errorf("validation error")

	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrConnectionClosed   = fmt.Errorf("connection closed")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrBlobNotFound       = fmt.Errorf("blob not found")
	ErrInvalidBlobID      = fmt.Errorf("invalid blob id")
	ErrTooManyConflicts   = fmt.Errorf("too many transaction conflicts")
	ErrUnexpectedRecord   = fmt.Errorf("unexpected record")
	ErrBroadcastQueueFull = fmt.Errorf("broadcast queue full")
)

// Error carries a kind and a human readable message.
// errors.Is(err, ErrNotFound) holds for an Error of kind KindNotFound.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Invariant(message string) error {
	return &Error{Kind: KindInvariant, Message: message}
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the kind of err, or "" when err is an infrastructure failure.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	switch {
	case stderrors.Is(err, ErrNotFound):
		return KindNotFound
	case stderrors.Is(err, ErrForbidden):
		return KindForbidden
	case stderrors.Is(err, ErrInvariantViolation):
		return KindInvariant
	case stderrors.Is(err, ErrValidation):
		return KindValidation
	}
	return ""
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func sentinel(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindInvariant:
		return ErrInvariantViolation
	case KindValidation:
		return ErrValidation
	}
	return nil
}
