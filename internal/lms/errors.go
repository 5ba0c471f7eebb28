package lms

import (
	"errors"
	"fmt"
)

// Kind classifies an adapter failure into the narrow contract the
// orchestrators expose to callers. Raw Canvas/Moodle/Google error
// shapes never cross the adapter boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindForbidden
	KindAuth
	KindNotFound
	KindUpstream
	KindQuota
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindForbidden:
		return "forbidden"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindQuota:
		return "quota"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }

func Auth(msg string, cause error) *Error {
	return &Error{Kind: KindAuth, Message: msg, Err: cause}
}

func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: cause}
}

func Quota(msg string, cause error) *Error {
	return &Error{Kind: KindQuota, Message: msg, Err: cause}
}

// KindOf extracts the classification from any error in the chain.
// Unclassified errors report KindUpstream so transport failures that
// escaped an adapter still map to a retryable 500.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// Retryable reports whether re-invoking the same operation is safe and
// potentially useful. Validation and forbidden outcomes never change on
// retry; upstream and quota failures may.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindUpstream, KindQuota:
		return true
	default:
		return false
	}
}
