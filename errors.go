package krpc

import (
	"errors"
	"fmt"

	"github.com/jason-costello/krpc/schema"
)

var (
	ErrNoRegistry   = errors.New("krpc: no reference registry configured")
	ErrMaxDepth     = errors.New("krpc: value nested too deeply")
	ErrTypeMismatch = errors.New("krpc: value does not match target type")
	ErrTooLarge     = errors.New("krpc: payload too large")
)

// UnsupportedTypeError reports a type with no category, on encode or decode.
// Err carries the cause when the type has a category but still cannot be
// handled (ErrMaxDepth, ErrTypeMismatch, message decode restrictions).
type UnsupportedTypeError struct {
	Type string
	Err  error
}

func (e *UnsupportedTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("krpc: %s is not a serializable type: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("krpc: %s is not a serializable type", e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error { return e.Err }

// UnknownHandleError reports a reference handle the registry cannot resolve.
type UnknownHandleError struct {
	Handle uint64
	Err    error
}

func (e *UnknownHandleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("krpc: unknown object handle %d: %v", e.Handle, e.Err)
	}
	return fmt.Sprintf("krpc: unknown object handle %d", e.Handle)
}

func (e *UnknownHandleError) Unwrap() error { return e.Err }

// InvalidEnumValueError reports an enum ordinal with no matching constant
// (strict policy), or one that does not fit the enum's Go type.
type InvalidEnumValueError struct {
	Type  string
	Value int32
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("krpc: %d is not a valid value of enum %s", e.Value, e.Type)
}

// MalformedWireDataError reports bytes that do not match the structure implied
// by the target type: truncation, wrong wire type, trailing bytes, wrong
// tuple arity. Err always wraps schema.ErrMalformed.
type MalformedWireDataError struct {
	Type string
	Err  error
}

func (e *MalformedWireDataError) Error() string {
	return fmt.Sprintf("krpc: decode %s: %v", e.Type, e.Err)
}

func (e *MalformedWireDataError) Unwrap() error { return e.Err }

func malformed(typ string, format string, args ...any) *MalformedWireDataError {
	return &MalformedWireDataError{
		Type: typ,
		Err:  fmt.Errorf("%w: "+format, append([]any{schema.ErrMalformed}, args...)...),
	}
}
