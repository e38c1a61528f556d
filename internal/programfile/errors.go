package programfile

import (
	"errors"
	"fmt"
)

// ErrInvalidProgram matches every error produced while loading a program file.
var ErrInvalidProgram = errors.New("axiom: invalid program")

// ParseError occurs when the file is not valid YAML or cannot be read.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse program file '%s': %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidProgram
}

// FieldError occurs when a field holds an unusable value.
type FieldError struct {
	Path    string
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("program file '%s': %s: %s", e.Path, e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidProgram
}
