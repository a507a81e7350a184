package engine

import "fmt"

// ErrorKind is a machine-readable error class
type ErrorKind string

const (
	// KindAbility marks misuse of an ability: wrong target shape, wrong owner, stale target
	KindAbility ErrorKind = "ability"
	// KindFatal marks a broken engine invariant or malformed setup input
	KindFatal ErrorKind = "fatal"
	// KindConfig marks a setup rejected by option validation
	KindConfig ErrorKind = "config"
)

// Error is the engine error type. Errors compare equal under errors.Is by kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

var (
	ErrAbility       = &Error{Kind: KindAbility, Message: "ability error"}
	ErrFatal         = &Error{Kind: KindFatal, Message: "fatal error"}
	ErrInvalidConfig = &Error{Kind: KindConfig, Message: "invalid configuration"}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target has the same kind as e.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func abilityError(format string, args ...any) error {
	return &Error{Kind: KindAbility, Message: fmt.Sprintf(format, args...)}
}

func fatalError(format string, args ...any) error {
	return &Error{Kind: KindFatal, Message: fmt.Sprintf(format, args...)}
}

func configError(format string, args ...any) error {
	return &Error{Kind: KindConfig, Message: "config validation: " + fmt.Sprintf(format, args...)}
}
