package domain

import (
	"errors"
	"net/http"
)

// ErrorKind is the stable machine-readable classification exposed next to
// the human-readable error string. Clients should match on the kind, not
// the text.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindConfiguration  ErrorKind = "configuration"
)

// Error is a classified business error. Referenced-entity-absent and
// conflict failures deliberately map to 400 rather than their textbook
// statuses, and authorization failures to 401, matching the wire contract
// the API has always had.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status for this error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication, KindAuthorization:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewAuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// KindOf extracts the classification from an error chain. Unclassified
// errors report as validation failures, the API's catch-all 400 class.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindValidation
}

// StatusOf maps an error chain to its HTTP status.
func StatusOf(err error) int {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Status()
	}
	return http.StatusBadRequest
}
