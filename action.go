package axiom

import (
	"github.com/pthm/axiom/lib/program"
)

// Set assigns value to key.
func Set(key string, value Primitive) Action {
	return program.Set(key, value)
}

// Increment adds by to key, coercing the current value to a number.
func Increment(key string, by int) Action {
	return program.Increment(key, by)
}

// Decrement subtracts by from key, coercing the current value to a number.
func Decrement(key string, by int) Action {
	return program.Decrement(key, by)
}

// Toggle negates the truthiness of key.
func Toggle(key string) Action {
	return program.Toggle(key)
}

// Navigate assigns path to window.location.href.
func Navigate(path string) Action {
	return program.Navigate(path)
}

// InvokeWasm calls export on the module bound to canvasID with payload.
// Failures are stored on window.__ax_wasm_error and never interrupt the
// handler.
func InvokeWasm(canvasID, export string, payload WasmValue) Action {
	return program.InvokeWasm(canvasID, export, payload)
}

// Payload converts a Go value (nil, bools, integers, floats, strings,
// []any and map[string]any trees) into a WasmValue.
func Payload(v any) (WasmValue, error) {
	return program.WasmValueOf(v)
}

// MustPayload is like Payload but panics on unsupported values.
func MustPayload(v any) WasmValue {
	wv, err := program.WasmValueOf(v)
	if err != nil {
		panic("axiom: " + err.Error())
	}
	return wv
}
