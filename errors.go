package axiom

import (
	"errors"

	"github.com/pthm/axiom/internal/programfile"
	"github.com/pthm/axiom/lib/classhash"
	"github.com/pthm/axiom/lib/wasm"
)

// Sentinel errors.
var (
	ErrInvalidProgram  = programfile.ErrInvalidProgram
	ErrInvalidSnapshot = classhash.ErrInvalidSnapshot
	ErrExportNotFound  = wasm.ErrExportNotFound
)

// IsInvalidProgram checks if err came from an unusable program file.
func IsInvalidProgram(err error) bool {
	return errors.Is(err, ErrInvalidProgram)
}

// IsInvalidSnapshot checks if err came from unreadable class snapshot bytes.
func IsInvalidSnapshot(err error) bool {
	return errors.Is(err, ErrInvalidSnapshot)
}

// IsExportNotFound checks if err reports a missing WebAssembly export.
func IsExportNotFound(err error) bool {
	return errors.Is(err, ErrExportNotFound)
}
