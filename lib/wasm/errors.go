package wasm

import (
	"errors"
	"fmt"
)

// ErrExportNotFound matches every ExportNotFoundError.
var ErrExportNotFound = errors.New("wasm: export not found")

// CompilationError occurs when a module fails to decode or validate.
type CompilationError struct {
	ModuleName string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile wasm module '%s': %v", e.ModuleName, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// ExportNotFoundError reports a function export that a canvas mount or an
// invokeWasm action needs but the module does not provide.
type ExportNotFoundError struct {
	ModuleName string
	CanvasID   string
	Export     string
}

func (e *ExportNotFoundError) Error() string {
	return fmt.Sprintf("canvas '%s': function '%s' not exported by module '%s'",
		e.CanvasID, e.Export, e.ModuleName)
}

func (e *ExportNotFoundError) Is(target error) bool {
	return target == ErrExportNotFound
}
