package interp

import "fmt"

// Error is a Validation error: the catch-all for every
// runtime failure (construction failures, dispatch failures, type
// mismatches the checker should have caught, non-exhaustive matches,
// divide/modulo by zero). It carries an optional offending type name.
type Error struct {
	Message   string
	ValueType string // offending type name, empty if not relevant
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

func errOnType(typeName, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), ValueType: typeName}
}
