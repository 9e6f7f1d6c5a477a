package apperror

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Kind represents the category of a domain error
type Kind string

const (
	// KindNotFound means the referenced entity does not exist
	KindNotFound Kind = "not_found"
	// KindForbidden means the entity exists but the actor lacks the relationship
	KindForbidden Kind = "forbidden"
	// KindValidation means the input is malformed
	KindValidation Kind = "validation"
	// KindAlreadyConnected means a connection already exists for the pair
	KindAlreadyConnected Kind = "already_connected"
	// KindDuplicateRequest means a pending request already exists for the pair
	KindDuplicateRequest Kind = "duplicate_request"
	// KindActorNotFound is only produced by the notification engine
	KindActorNotFound Kind = "actor_not_found"
	// KindConstraintViolation is a store-level uniqueness or integrity failure
	KindConstraintViolation Kind = "constraint_violation"
	// KindUnknownNotificationType is a programming error at the notification boundary
	KindUnknownNotificationType Kind = "unknown_notification_type"
)

// Error is the error type returned by the core services
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden               = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrValidation              = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrAlreadyConnected        = &Error{Kind: KindAlreadyConnected, Message: "already connected"}
	ErrDuplicateRequest        = &Error{Kind: KindDuplicateRequest, Message: "duplicate request"}
	ErrActorNotFound           = &Error{Kind: KindActorNotFound, Message: "actor not found"}
	ErrConstraintViolation     = &Error{Kind: KindConstraintViolation, Message: "constraint violation"}
	ErrUnknownNotificationType = &Error{Kind: KindUnknownNotificationType, Message: "unknown notification type"}
)

// New creates a new error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new error of the given kind wrapping err
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound is shorthand for New(KindNotFound, message)
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Forbidden is shorthand for New(KindForbidden, message)
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Validation is shorthand for New(KindValidation, message)
func Validation(message string) *Error { return New(KindValidation, message) }

// KindOf returns the kind of the outermost *Error in the chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// IsDuplicate reports whether err is a unique-constraint failure from the store.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Drivers without an error translator still surface the raw message.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Translate converts a store error into the taxonomy. Record-not-found becomes
// KindNotFound with notFoundMsg; a unique violation becomes onDuplicate wrapping a
// KindConstraintViolation. Anything else is returned unchanged.
func Translate(err error, notFoundMsg string, onDuplicate Kind) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(KindNotFound, notFoundMsg, err)
	}
	if IsDuplicate(err) {
		violation := Wrap(KindConstraintViolation, "unique constraint rejected write", err)
		if onDuplicate == KindConstraintViolation {
			return violation
		}
		return Wrap(onDuplicate, "conflicting concurrent write", violation)
	}
	return err
}
