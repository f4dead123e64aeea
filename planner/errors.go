package planner

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ValidationError
type ErrorKind int

const (
	// UnresolvedField a field reference names no schema field
	UnresolvedField ErrorKind = iota
	// UnresolvedFunction the registry has no function of that name
	UnresolvedFunction
	// ArgumentMismatch wrong argument count or types for a function
	ArgumentMismatch
	// TypeMismatch operand types do not fit an operator
	TypeMismatch
	// AmbiguousName two projections share an output name
	AmbiguousName
	// NonBooleanFilter the predicate is not of type BOOLEAN
	NonBooleanFilter
	// InvalidExpression a construct that is only legal elsewhere
	InvalidExpression
)

func (k ErrorKind) String() string {
	switch k {
	case UnresolvedField:
		return "UNRESOLVED_FIELD"
	case UnresolvedFunction:
		return "UNRESOLVED_FUNCTION"
	case ArgumentMismatch:
		return "ARGUMENT_MISMATCH"
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case AmbiguousName:
		return "AMBIGUOUS_NAME"
	case NonBooleanFilter:
		return "NON_BOOLEAN_FILTER"
	case InvalidExpression:
		return "INVALID_EXPRESSION"
	default:
		return "UNKNOWN"
	}
}

// ValidationError is returned when an expression cannot be bound to a schema
// and registry. Name holds the offending identifier when there is one.
type ValidationError struct {
	Kind    ErrorKind
	Name    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func newValidationError(kind ErrorKind, name string, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// KindOf returns the kind of the ValidationError wrapped by err
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return 0, false
}
