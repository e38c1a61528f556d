package codec

import (
	"github.com/pthm/axiom/lib/program"
)

// Attribute names shared with the generated scripts. They are part of the
// page contract and are case-sensitive.
const (
	AttrStates   = "data-ax-states"
	AttrOnPrefix = "data-ax-on-"

	AttrWasmModule      = "data-ax-wasm-module"
	AttrWasmMount       = "data-ax-wasm-mount"
	AttrWasmInitial     = "data-ax-wasm-initial"
	AttrWasmAutostart   = "data-ax-wasm-autostart"
	AttrWasmFallbackFor = "data-ax-wasm-fallback-for"
)

// DefaultMountExport is the export called to mount a module when the canvas
// does not name one.
const DefaultMountExport = "mount"

// EventAttr returns the attribute that carries actions for event.
func EventAttr(event program.Event) string {
	return AttrOnPrefix + string(event)
}

// Canvas describes a canvas element bound to a WebAssembly module.
type Canvas struct {
	// ID is the canvas element id; invokeWasm actions address the canvas by it.
	ID string
	// Module is the import path handed to dynamic import().
	Module string
	// Mount is the export called on mount. Empty means DefaultMountExport.
	Mount string
	// Initial is passed to the mount export.
	Initial program.WasmValue
	// Manual disables auto-mount on page load (autostart="false").
	Manual bool
	// FallbackID is the id of the element shown when mounting fails.
	FallbackID string
}

// MountExport returns the effective mount export name.
func (c Canvas) MountExport() string {
	if c.Mount == "" {
		return DefaultMountExport
	}
	return c.Mount
}

// Attributes returns the data-ax-wasm-* attributes for the canvas element.
// The id attribute is included when set.
func (c Canvas) Attributes() map[string]string {
	attrs := map[string]string{
		AttrWasmModule:    c.Module,
		AttrWasmMount:     c.MountExport(),
		AttrWasmInitial:   c.Initial.Base64EncodedJSON(),
		AttrWasmAutostart: "true",
	}
	if c.Manual {
		attrs[AttrWasmAutostart] = "false"
	}
	if c.FallbackID != "" {
		attrs[AttrWasmFallbackFor] = c.FallbackID
	}
	if c.ID != "" {
		attrs["id"] = c.ID
	}
	return attrs
}
