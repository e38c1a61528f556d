// Package generator emits the JavaScript that executes axiom programs in the
// browser.
//
// There are three outputs:
//   - a program script: a self-contained IIFE for one document-level
//     program.Program (state literal, element bindings, timers)
//   - the generic decoder: a fixed script that interprets the wire format in
//     data-ax-states / data-ax-on-<event> attributes for any page
//   - the WASM bridge: a fixed script that mounts and invokes WebAssembly
//     modules bound to canvas elements
//
// The fixed scripts are rendered once from templates fed by lib/codec, so
// attribute names, event names and the token arity table cannot drift from
// the Go encoder.
package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/pthm/axiom/lib/program"
)

// Options configures the generator.
type Options struct {
	// DOMBindings includes the generic decoder script.
	DOMBindings bool
	// WasmBridge includes the WASM bridge script.
	WasmBridge bool
}

// Generator generates client scripts.
type Generator struct {
	opts Options
}

// New creates a new generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate renders the scripts selected by the options plus the program
// script for p. It returns the empty string when p is empty and no fixed
// script was requested.
func (g *Generator) Generate(p program.Program) (string, error) {
	var parts []string

	if g.opts.WasmBridge {
		parts = append(parts, WasmBridge())
	}
	if g.opts.DOMBindings {
		parts = append(parts, RuntimeDecoder())
	}
	if !p.IsEmpty() {
		script, err := ProgramScript(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, script)
	}

	return strings.Join(parts, "\n"), nil
}

// Generate is a shorthand for New(Options{DOMBindings: includeDOMBindings}).Generate(p).
func Generate(p program.Program, includeDOMBindings bool) (string, error) {
	return New(Options{DOMBindings: includeDOMBindings}).Generate(p)
}

// ProgramScript renders the self-contained script for p. An empty program
// yields the empty string.
func ProgramScript(p program.Program) (string, error) {
	if p.IsEmpty() {
		return "", nil
	}

	events := make([]boundEvent, 0, len(p.Events))
	for _, e := range p.Events {
		if !e.Event.Valid() {
			return "", fmt.Errorf("binding for #%s: unsupported event %q", e.ElementID, e.Event)
		}
		events = append(events, boundEvent{
			ElementID: jsString(e.ElementID),
			Event:     jsString(string(e.Event)),
			Prevent:   e.Event == program.Submit,
			Body:      jsAction(e.Action),
		})
	}

	timers := make([]scheduledTimer, 0, len(p.Timers))
	for _, t := range p.Timers {
		fn := "setTimeout"
		if t.Kind == program.Interval {
			fn = "setInterval"
		}
		timers = append(timers, scheduledTimer{
			Func:   fn,
			Millis: t.Milliseconds(),
			Body:   jsAction(t.Action),
		})
	}

	data := struct {
		State  string
		Events []boundEvent
		Timers []scheduledTimer
	}{
		State:  stateLiteral(p.DedupedStates()),
		Events: events,
		Timers: timers,
	}

	var buf bytes.Buffer
	if err := programTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render program script: %w", err)
	}
	return buf.String(), nil
}

type boundEvent struct {
	ElementID string
	Event     string
	Prevent   bool
	Body      string
}

type scheduledTimer struct {
	Func   string
	Millis int64
	Body   string
}

// stateLiteral renders states as a JS object literal in declaration order.
// A "__proto__" key is written as a computed property so it is stored as an
// own property instead of setting the literal's prototype.
func stateLiteral(states []program.StateDefinition) string {
	if len(states) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{")
	for i, s := range states {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s.Key == "__proto__" {
			sb.WriteString("[" + jsString(s.Key) + "]")
		} else {
			sb.WriteString(jsString(s.Key))
		}
		sb.WriteString(": ")
		sb.WriteString(jsPrimitive(s.Initial))
	}
	sb.WriteString("}")
	return sb.String()
}

// jsAction translates an action into the statements run by a handler.
func jsAction(a program.Action) string {
	switch a.Kind {
	case program.ActionSet:
		k := jsString(a.Key)
		return "__axInit(" + k + "); state[" + k + "] = " + jsPrimitive(a.Value) + ";"
	case program.ActionIncrement:
		k := jsString(a.Key)
		return "__axInit(" + k + "); state[" + k + "] = __axNum(state[" + k + "]) + " + jsNumber(a.By) + ";"
	case program.ActionDecrement:
		k := jsString(a.Key)
		return "__axInit(" + k + "); state[" + k + "] = __axNum(state[" + k + "]) - " + jsNumber(a.By) + ";"
	case program.ActionToggle:
		k := jsString(a.Key)
		return "__axInit(" + k + "); state[" + k + "] = !state[" + k + "];"
	case program.ActionNavigate:
		return "window.location.href = " + jsString(a.Path) + ";"
	case program.ActionInvokeWasm:
		return "__axInvokeWasm(" + jsString(a.Canvas) + ", " + jsString(a.Export) + ", __axPayload(" + jsString(a.Payload.Base64EncodedJSON()) + "));"
	default:
		return ""
	}
}

func jsPrimitive(p program.Primitive) string {
	switch p.Kind() {
	case program.KindInt:
		i, _ := p.IntValue()
		return strconv.Itoa(i)
	case program.KindBool:
		b, _ := p.BoolValue()
		return strconv.FormatBool(b)
	default:
		s, _ := p.StringValue()
		return jsString(s)
	}
}

// jsNumber parenthesises negative operands so "x - -1" never reads as "x --1".
func jsNumber(n int) string {
	if n < 0 {
		return "(" + strconv.Itoa(n) + ")"
	}
	return strconv.Itoa(n)
}

// jsString renders a JS string literal. encoding/json escapes <, > and & as
// well as U+2028/U+2029, so the literal is safe inside an inline <script>.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

var programTemplate = template.Must(template.New("program").Parse(helpersJS + programJS))
