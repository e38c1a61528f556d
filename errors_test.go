package axiom

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pthm/axiom/internal/programfile"
	"github.com/pthm/axiom/lib/wasm"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		program bool
		snap    bool
		export  bool
	}{
		{"nil", nil, false, false, false},
		{"unrelated", errors.New("boom"), false, false, false},
		{"field error", &programfile.FieldError{Path: "p.yaml", Field: "states[0].key", Message: "key is required"}, true, false, false},
		{"wrapped parse error", fmt.Errorf("load: %w", &programfile.ParseError{Path: "p.yaml", Err: errors.New("bad")}), true, false, false},
		{"snapshot", fmt.Errorf("restore: %w", ErrInvalidSnapshot), false, true, false},
		{"missing export", &wasm.ExportNotFoundError{ModuleName: "g.wasm", CanvasID: "g", Export: "mount"}, false, false, true},
		{"joined", errors.Join(errors.New("other"), &wasm.ExportNotFoundError{Export: "step"}), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalidProgram(tt.err); got != tt.program {
				t.Errorf("IsInvalidProgram() = %v, want %v", got, tt.program)
			}
			if got := IsInvalidSnapshot(tt.err); got != tt.snap {
				t.Errorf("IsInvalidSnapshot() = %v, want %v", got, tt.snap)
			}
			if got := IsExportNotFound(tt.err); got != tt.export {
				t.Errorf("IsExportNotFound() = %v, want %v", got, tt.export)
			}
		})
	}
}
