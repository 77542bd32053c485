package migrate

import (
	"errors"
	"fmt"

	"stylemig/style"
)

var (
	ErrDanglingReference = errors.New("dangling layer reference")
	ErrUnknownProperty   = errors.New("unknown property")
)

// DanglingReferenceError reports a layer whose ref (directly or through a
// chain of ref layers) does not lead to a layer with a type.
type DanglingReferenceError struct {
	LayerID string
	Ref     string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("layer %q references missing layer %q", e.LayerID, e.Ref)
}

func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// UnknownPropertyError reports a legacy function for a property which layer
// type does not have.
type UnknownPropertyError struct {
	LayerID   string
	LayerType string
	Kind      style.BlockKind
	Property  string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("layer %q: %s property %q is not known for layer type %q", e.LayerID, e.Kind, e.Property, e.LayerType)
}

func (e *UnknownPropertyError) Is(target error) bool {
	return target == ErrUnknownProperty
}

// ConversionError wraps converter failure.
type ConversionError struct {
	LayerID  string
	Kind     style.BlockKind
	Property string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("layer %q: unable to convert %s property %q: %v", e.LayerID, e.Kind, e.Property, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
