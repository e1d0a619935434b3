// Package ledgererr defines the typed outcomes returned by the ledger core.
//
// Business-rule failures (an expired invite, an unknown code) are ordinary results
// carried as *Error values; callers branch on Kind, never on message text.
package ledgererr

import (
	"errors"
	"fmt"
)

type Kind int8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindInviteExpired
	KindInviteAlreadyUsed
	KindAlreadyInFamily
	KindIssuerHasNoFamily
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindInviteExpired:
		return "InviteExpired"
	case KindInviteAlreadyUsed:
		return "InviteAlreadyUsed"
	case KindAlreadyInFamily:
		return "AlreadyInFamily"
	case KindIssuerHasNoFamily:
		return "IssuerHasNoFamily"
	case KindStorageUnavailable:
		return "StorageUnavailable"
	default:
		return "Unknown"
	}
}

// Error is a ledger outcome of a specific Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Msg: "invalid input"}
	ErrInviteExpired      = &Error{Kind: KindInviteExpired, Msg: "invite expired"}
	ErrInviteAlreadyUsed  = &Error{Kind: KindInviteAlreadyUsed, Msg: "invite already used"}
	ErrAlreadyInFamily    = &Error{Kind: KindAlreadyInFamily, Msg: "account already belongs to a family"}
	ErrIssuerHasNoFamily  = &Error{Kind: KindIssuerHasNoFamily, Msg: "invite issuer has no family"}
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable, Msg: "storage unavailable"}

	ErrInviteNotFound = &Error{Kind: KindNotFound, Msg: "invite not found"}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

func InvalidInput(format string, args ...any) *Error {
	return Newf(KindInvalidInput, format, args...)
}

// Storage wraps a driver failure. Ledger errors pass through untouched.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Kind: KindStorageUnavailable, Msg: op, Err: err}
}

// KindOf reports the Kind of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

// Retryable is true only for transient storage failures.
func Retryable(err error) bool {
	return KindOf(err) == KindStorageUnavailable
}
