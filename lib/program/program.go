// Package program defines the value model shared by the wire codec and the
// JavaScript generators: primitives, WASM payloads, state declarations,
// actions, event bindings, timers and the aggregate Program.
//
// Every type here is a plain value. Builders return new values and never
// share backing arrays with their receiver.
package program

import (
	"fmt"
	"math"
	"slices"
)

// Event is a supported browser event name.
type Event string

const (
	Click  Event = "click"
	Input  Event = "input"
	Change Event = "change"
	Submit Event = "submit"
)

// Events lists the supported events in the order the decoder binds them.
var Events = []Event{Click, Input, Change, Submit}

// Valid reports whether e is one of the supported events.
func (e Event) Valid() bool {
	return slices.Contains(Events, e)
}

// ParseEvent validates an event name.
func ParseEvent(s string) (Event, error) {
	e := Event(s)
	if !e.Valid() {
		return "", fmt.Errorf("unsupported event %q (must be one of click, input, change, submit)", s)
	}
	return e, nil
}

// StateDefinition declares one named piece of client state.
type StateDefinition struct {
	Key     string
	Initial Primitive
}

// State builds a StateDefinition from a native literal.
func State[T PrimitiveConvertible](key string, initial T) StateDefinition {
	return StateDefinition{Key: key, Initial: PrimitiveOf(initial)}
}

// ActionKind tags the Action variant.
type ActionKind uint8

const (
	ActionSet ActionKind = iota
	ActionIncrement
	ActionDecrement
	ActionToggle
	ActionNavigate
	ActionInvokeWasm
)

func (k ActionKind) String() string {
	switch k {
	case ActionSet:
		return "set"
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	case ActionToggle:
		return "toggle"
	case ActionNavigate:
		return "navigate"
	case ActionInvokeWasm:
		return "invokeWasm"
	default:
		return fmt.Sprintf("ActionKind(%d)", uint8(k))
	}
}

// Action is one entry of the fixed action vocabulary. Only the fields that
// belong to Kind are meaningful.
type Action struct {
	Kind    ActionKind
	Key     string    // set, increment, decrement, toggle
	Value   Primitive // set
	By      int       // increment, decrement
	Path    string    // navigate
	Canvas  string    // invokeWasm
	Export  string    // invokeWasm
	Payload WasmValue // invokeWasm
}

// Set assigns value to key.
func Set(key string, value Primitive) Action {
	return Action{Kind: ActionSet, Key: key, Value: value}
}

// Increment adds by to key.
func Increment(key string, by int) Action {
	return Action{Kind: ActionIncrement, Key: key, By: by}
}

// Decrement subtracts by from key.
func Decrement(key string, by int) Action {
	return Action{Kind: ActionDecrement, Key: key, By: by}
}

// Toggle negates key.
func Toggle(key string) Action {
	return Action{Kind: ActionToggle, Key: key}
}

// Navigate sends the browser to path.
func Navigate(path string) Action {
	return Action{Kind: ActionNavigate, Path: path}
}

// InvokeWasm calls export on the module bound to the canvas with the given id.
func InvokeWasm(canvasID, export string, payload WasmValue) Action {
	return Action{Kind: ActionInvokeWasm, Canvas: canvasID, Export: export, Payload: payload}
}

// StateKey reports the state key the action mutates, if any.
func (a Action) StateKey() (string, bool) {
	switch a.Kind {
	case ActionSet, ActionIncrement, ActionDecrement, ActionToggle:
		return a.Key, true
	}
	return "", false
}

// EventBinding attaches an action to an element by id. Used only by whole
// document programs; per-element interactions go through the wire codec.
type EventBinding struct {
	ElementID string
	Event     Event
	Action    Action
}

// TimerKind distinguishes one-shot and repeating timers.
type TimerKind uint8

const (
	Timeout TimerKind = iota
	Interval
)

// Timer runs an action once after a delay or repeatedly.
type Timer struct {
	Action  Action
	Kind    TimerKind
	Seconds float64
}

// After schedules a one-shot timer. Negative delays clamp to 0.
func After(seconds float64, action Action) Timer {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	return Timer{Action: action, Kind: Timeout, Seconds: seconds}
}

// Every schedules a repeating timer. Periods below one second clamp to 1.
func Every(seconds float64, action Action) Timer {
	if seconds < 1 || math.IsNaN(seconds) {
		seconds = 1
	}
	return Timer{Action: action, Kind: Interval, Seconds: seconds}
}

// Milliseconds returns the delay rounded to whole milliseconds.
func (t Timer) Milliseconds() int64 {
	return int64(math.Round(t.Seconds * 1000))
}

// Program is the document-level collection of states, event bindings and
// timers compiled into one self-contained script.
type Program struct {
	States []StateDefinition
	Events []EventBinding
	Timers []Timer
}

// IsEmpty reports whether the program declares nothing.
func (p Program) IsEmpty() bool {
	return len(p.States) == 0 && len(p.Events) == 0 && len(p.Timers) == 0
}

// Merging combines two programs. States behave as an ordered map: a key keeps
// the position of its first appearance and takes the value of its last.
// Events and timers are concatenated.
func (p Program) Merging(other Program) Program {
	return Program{
		States: DedupStates(slices.Concat(p.States, other.States)),
		Events: slices.Concat(p.Events, other.Events),
		Timers: slices.Concat(p.Timers, other.Timers),
	}
}

// DedupedStates returns the ordered-map view of the program's states.
func (p Program) DedupedStates() []StateDefinition {
	return DedupStates(p.States)
}

// WithState returns a copy of p with an extra state declaration.
func (p Program) WithState(defs ...StateDefinition) Program {
	p.States = slices.Concat(p.States, defs)
	return p
}

// On returns a copy of p with an extra event binding.
func (p Program) On(elementID string, event Event, action Action) Program {
	p.Events = slices.Concat(p.Events, []EventBinding{{ElementID: elementID, Event: event, Action: action}})
	return p
}

// After returns a copy of p with an extra one-shot timer.
func (p Program) After(seconds float64, action Action) Program {
	p.Timers = slices.Concat(p.Timers, []Timer{After(seconds, action)})
	return p
}

// Every returns a copy of p with an extra repeating timer.
func (p Program) Every(seconds float64, action Action) Program {
	p.Timers = slices.Concat(p.Timers, []Timer{Every(seconds, action)})
	return p
}

// Actions returns every action the program can run, bindings first.
func (p Program) Actions() []Action {
	out := make([]Action, 0, len(p.Events)+len(p.Timers))
	for _, e := range p.Events {
		out = append(out, e.Action)
	}
	for _, t := range p.Timers {
		out = append(out, t.Action)
	}
	return out
}

// DedupStates collapses repeated keys: first appearance fixes the order, last
// write fixes the value. A later declaration may change the kind.
func DedupStates(states []StateDefinition) []StateDefinition {
	if len(states) == 0 {
		return nil
	}
	index := make(map[string]int, len(states))
	out := make([]StateDefinition, 0, len(states))
	for _, s := range states {
		if i, ok := index[s.Key]; ok {
			out[i].Initial = s.Initial
			continue
		}
		index[s.Key] = len(out)
		out = append(out, s)
	}
	return out
}
