package catalog

import (
	"errors"
	"fmt"
)

// Domain error codes surfaced by the backing store. The codes are stable
// string identifiers embedded verbatim in error messages so that callers can
// pattern-match on them; the client never rewords or strips them.
const (
	// ErrCodeAgent is the domain code for agent rule violations.
	ErrCodeAgent = "ERR-20050"

	// ErrCodeTask is the domain code for task rule violations.
	ErrCodeTask = "ERR-20051"

	// ErrCodeTool is the domain code for tool rule violations.
	ErrCodeTool = "ERR-20052"

	// ErrCodeTeam is the domain code for team rule violations, including
	// repeated identical-state transitions and force-deletes of absent teams.
	ErrCodeTeam = "ERR-20053"

	// ErrCodeProfile is the domain code for profile rule violations.
	ErrCodeProfile = "ERR-20054"

	// ErrCodeCredential is the domain code for named-credential rule violations.
	ErrCodeCredential = "ERR-20055"

	// ErrCodeInvalidRegexp is raised when a List pattern is not a valid
	// regular expression. The pattern is evaluated server-side; the syntax
	// error propagates unchanged inside the message.
	ErrCodeInvalidRegexp = "ERR-12726"
)

// CodeFor returns the domain error code associated with an entity kind.
func CodeFor(kind Kind) string {
	switch kind {
	case KindProfile:
		return ErrCodeProfile
	case KindTool:
		return ErrCodeTool
	case KindTask:
		return ErrCodeTask
	case KindAgent:
		return ErrCodeAgent
	case KindTeam:
		return ErrCodeTeam
	}
	return ""
}

// Error is a structured domain error for catalog operations. It carries the
// machine-checkable backend code and the original backend message; the
// message is never reworded on the way through the client.
//
// Error supports errors.Is/errors.As through Unwrap and code comparison.
type Error struct {
	// Kind is the entity kind the failed operation addressed.
	Kind Kind

	// Op is the operation that failed (e.g. "create", "set_attribute").
	Op string

	// Code is the stable ERR-NNNNN backend code.
	Code string

	// Message is the backend detail text, preserved verbatim.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// NewError creates a domain error for the given kind and operation. The
// message may be a format string.
func NewError(kind Kind, op, code, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error formats the error as "<kind> <op> [CODE]: message". The code always
// appears in the output so substring matching on ERR-NNNNN keeps working.
func (e *Error) Error() string {
	prefix := e.Op
	if e.Kind != "" {
		prefix = string(e.Kind) + " " + e.Op
	}
	msg := fmt.Sprintf("%s [%s]: %s", prefix, e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause attaches an underlying error and returns the same instance for
// chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// NotFoundError reports that no entity with the given name exists for the
// requested kind. It is distinguished from domain rule violations so callers
// can branch on absence without parsing messages.
//
// The kind's domain code is still carried so message pattern-matching on
// ERR-NNNNN works for not-found conditions as well.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found [%s]", e.Kind, e.Name, CodeFor(e.Kind))
}

// NewNotFoundError creates a NotFoundError for the given kind and name.
func NewNotFoundError(kind Kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ErrorCode extracts the ERR-NNNNN code from err, walking the error chain.
// It returns the empty string when err carries no catalog code.
func ErrorCode(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return CodeFor(nf.Kind)
	}
	return ""
}
