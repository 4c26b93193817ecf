package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an engine failure for the HTTP layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindQuotaExceeded
	KindInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindInvariantViolation:
		return "invariant_violation"
	}
	return "unknown"
}

// Error is a classified failure. Details carries the aggregated per-record
// problems collected during batch validation, one message per offender.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, "; ")
	}
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationErr(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func notFoundErr(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func conflictErr(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func quotaErr(format string, args ...any) *Error {
	return newError(KindQuotaExceeded, format, args...)
}

func invariantErr(format string, args ...any) *Error {
	return newError(KindInvariantViolation, format, args...)
}

// KindOf extracts the Kind from err, or 0 when err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
