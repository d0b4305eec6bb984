package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not reference a node
	ErrNotFound = errors.New("node not found")
	// ErrTooDeep is returned when a child is added below a leaf
	ErrTooDeep = errors.New("leaf nodes cannot have children")
	// ErrEmptyText is returned when required text is blank
	ErrEmptyText = errors.New("text is required")
	// ErrActionDisabled is returned when an interaction is not allowed in the current selection
	ErrActionDisabled = errors.New("action not available")
	// ErrEmptyOutline is returned when a generated outline has no main branches
	ErrEmptyOutline = errors.New("outline has no branches")
	// ErrUnknownColor is returned for a color that is not a palette entry
	ErrUnknownColor = errors.New("unknown color")
)

// StructuralError reports an invalid mutation of the node tree
type StructuralError struct {
	Op  string
	ID  string
	Err error
}

func (e *StructuralError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// InputError reports missing or invalid user input
type InputError struct {
	Op    string
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// IsStructural reports whether err is (or wraps) a StructuralError
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsInput reports whether err is (or wraps) an InputError
func IsInput(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
