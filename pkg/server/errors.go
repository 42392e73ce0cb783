package server

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a login attempt was rejected. Provider-supplied
// kinds from the /error callback are the upper-cased "error" parameter.
type ErrorKind string

const (
	KindUnknown      ErrorKind = "UNKNOWN"       // Fallback when the provider gives no error code.
	KindInvalidated  ErrorKind = "INVALIDATED"   // Superseded by a newer request or closed server.
	KindLoginTimeout ErrorKind = "LOGIN_TIMEOUT" // No callback within the login timeout.
	KindInvalidState ErrorKind = "INVALID_STATE" // Anti-forgery token missing, mismatched or reused.
	KindAccessDenied ErrorKind = "ACCESS_DENIED" // The user declined the authorization.
	KindListenFailed ErrorKind = "LISTEN_FAILED" // The callback listener could not be bound.
	KindCanceled     ErrorKind = "CANCELED"      // The caller stopped waiting.

	// KindBrowserOpen is only reported through the EventSink, it never rejects a request.
	KindBrowserOpen ErrorKind = "BROWSER_OPEN_FAILED"
)

// Error is the rejection delivered to the caller of Listen.
type Error struct {
	Kind    ErrorKind // Machine-readable kind, see the Kind constants.
	Message string    // Human-readable description, shown on the error page where applicable.
	Err     error     // Underlying cause, if any.
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so errors.Is(err, ErrLoginTimeout) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidated  = &Error{Kind: KindInvalidated, Message: "Invalidated by new request"}
	ErrLoginTimeout = &Error{Kind: KindLoginTimeout, Message: "Login timeout"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Message: "Connection refused, the state does not match!"}
	ErrAccessDenied = &Error{Kind: KindAccessDenied, Message: "Access denied"}
	ErrListenFailed = &Error{Kind: KindListenFailed, Message: "Failed to start the callback listener"}
	ErrCanceled     = &Error{Kind: KindCanceled, Message: "Login canceled"}
)

// Configuration errors returned by New.
var (
	// ErrMissingClientID indicates that Config.ClientID is empty.
	ErrMissingClientID = errors.New("client id is required")
	// ErrInvalidRedirectURI indicates that Config.RedirectURI is not an absolute http URL.
	ErrInvalidRedirectURI = errors.New("redirect uri must be an absolute http url")
)

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the ErrorKind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
