package autodiff

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them and can be matched with errors.Is.
var (
	// ErrShape reports incompatible operand shapes or an invalid reduction axis.
	ErrShape = errors.New("shape error")
	// ErrDomain reports a value outside an operation's domain, e.g. division
	// by zero or a non-scalar backward root without a seed.
	ErrDomain = errors.New("domain error")
	// ErrGraphIntegrity reports a corrupted graph: a cycle, or a node that
	// was not created by this package's constructors.
	ErrGraphIntegrity = errors.New("graph integrity error")
)

// Error describes a failed operation.
type Error struct {
	Kind error  // ErrShape, ErrDomain or ErrGraphIntegrity
	Op   string // Operation that failed (e.g. "add", "backward")
	Err  error  // Underlying cause with details
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func shapeError(op string, err error) error {
	return &Error{Kind: ErrShape, Op: op, Err: err}
}

func domainError(op, format string, args ...any) error {
	return &Error{Kind: ErrDomain, Op: op, Err: fmt.Errorf(format, args...)}
}

func integrityError(op, format string, args ...any) error {
	return &Error{Kind: ErrGraphIntegrity, Op: op, Err: fmt.Errorf(format, args...)}
}
