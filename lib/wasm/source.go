package wasm

import (
	"os"
)

// ModuleSource supplies WebAssembly bytecode.
type ModuleSource interface {
	// Bytes returns the Wasm bytecode.
	Bytes() ([]byte, error)
	// Name identifies the module in logs and errors. Exports are memoised
	// by name.
	Name() string
}

// FileSource loads a module from disk.
type FileSource struct {
	Path string
}

func (f FileSource) Bytes() ([]byte, error) {
	return os.ReadFile(f.Path)
}

func (f FileSource) Name() string {
	return f.Path
}

// MemorySource serves a module held in memory.
type MemorySource struct {
	ModuleName string
	Data       []byte
}

func (m MemorySource) Bytes() ([]byte, error) {
	return m.Data, nil
}

func (m MemorySource) Name() string {
	return m.ModuleName
}
