// Package apperror defines the typed failures shared by the services and the
// storage backends.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is malformed or out-of-range input, raised before any I/O.
	KindValidation
	// KindConflict is a violated uniqueness rule.
	KindConflict
	// KindNotFound is a missing id on update or state transition.
	KindNotFound
	// KindStorageUnavailable is a backend that could not reach or execute
	// against the store.
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindStorageUnavailable:
		return "storage unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable}
)

type Error struct {
	Kind    Kind
	Entity  string
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Entity != "" || t.Field != "" || t.Value != "" || t.Message != "" || t.Err != nil {
		return t == e
	}
	return t.Kind == e.Kind
}

// GRPCStatus lets a gRPC handler return the error as is; status.Code reads
// it too, which is how the console tags its failure logs.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Code(), e.Error())
}

func (e *Error) Code() codes.Code {
	switch e.Kind {
	case KindValidation:
		return codes.InvalidArgument
	case KindConflict:
		return codes.AlreadyExists
	case KindNotFound:
		return codes.NotFound
	case KindStorageUnavailable:
		return codes.Unavailable
	default:
		return codes.Unknown
	}
}

func Validation(field, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf("invalid %s: %s", field, fmt.Sprintf(format, args...)),
	}
}

func Conflict(entity, field, value string) *Error {
	return &Error{
		Kind:    KindConflict,
		Entity:  entity,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("%s with %s %q already exists", entity, field, value),
	}
}

func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Entity:  entity,
		Field:   "id",
		Value:   id,
		Message: fmt.Sprintf("%s %q not found", entity, id),
	}
}

func StorageUnavailable(op string, err error) *Error {
	return &Error{
		Kind:    KindStorageUnavailable,
		Message: "storage unavailable: " + op,
		Err:     err,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
