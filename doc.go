// Package axiom compiles declarative client interactions into HTML
// attributes and small, fixed JavaScript runtimes.
//
// There are two ways to attach behaviour to a page.
//
// # Element interactions
//
// Interactions collects state declarations and actions for one element,
// scoped per browser event. Attrs() encodes them into data-ax-states and
// data-ax-on-<event> attributes, which the generic decoder script (emitted
// once per document by RuntimeScript) interprets in the browser:
//
//	menu := axiom.NewInteractions().
//	    On(axiom.Click, func(s *axiom.InteractionScope) {
//	        s.Toggle("open")
//	    })
//
//	<button { menu.Attrs()... }>Menu</button>
//	@axiom.RuntimeScript()
//
// Toggle, Increment, Decrement and Set declare their key with the zero
// value of its kind unless the element declares it explicitly through
// ToggleState, IncrementState, DecrementState, SetState or Declare.
//
// # Document programs
//
// A Program binds actions to elements by id and schedules timers. It
// compiles to one self-contained script:
//
//	p := axiom.NewProgram(
//	    axiom.Declare(axiom.State("count", 0)),
//	    axiom.On("plus", axiom.Click, axiom.Increment("count", 1)),
//	    axiom.Every(5, axiom.Set("count", axiom.Int(0))),
//	)
//
//	@axiom.ProgramScript(p)
//
// Programs merge with Merging: state keys keep the position of their first
// declaration and the value of their last; events and timers concatenate.
//
// # WebAssembly canvases
//
// WasmCanvas renders a canvas bound to a JS module that wraps a WebAssembly
// binary. WasmBridgeScript mounts such canvases on load and exposes
// window.AxiomWasm.invoke, which InvokeWasm actions call with a JSON payload.
//
// # Class names
//
// Class and StartingStyleClass allocate deterministic class names for
// arbitrary declarations; StyleSheet renders the rules allocated so far.
package axiom
