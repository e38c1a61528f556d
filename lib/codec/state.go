package codec

import (
	"strings"

	"github.com/pthm/axiom/lib/program"
)

// Invocation records a WASM export call requested by an action.
type Invocation struct {
	Canvas  string
	Export  string
	Payload program.WasmValue
}

// Effects collects the side effects a State cannot perform itself.
type Effects struct {
	Navigations []string
	Invocations []Invocation
}

// State is the Go counterpart of the decoder's in-memory state object. It
// applies actions with the same rules as the browser:
//
//   - a key referenced by set, inc, dec or tog that is not yet present is
//     initialised to int 0 first
//   - inc/dec coerce the current value to a number (ints as-is, true as 1,
//     integer strings parsed, anything else 0) and store an int
//   - tog stores the logical negation of the current value's truthiness
//   - nav and wasm are recorded in Effects
type State struct {
	values map[string]program.Primitive
	order  []string
	Effects
}

// NewState returns an empty state.
func NewState() *State {
	return &State{values: make(map[string]program.Primitive)}
}

// Ensure seeds declarations. A key that already exists keeps its value, so
// re-scanning an element never resets live state.
func (s *State) Ensure(states []program.StateDefinition) {
	for _, d := range states {
		if _, ok := s.values[d.Key]; ok {
			continue
		}
		s.put(d.Key, d.Initial)
	}
}

// EnsureEncoded decodes a data-ax-states payload and seeds it.
func (s *State) EnsureEncoded(payload string) {
	s.Ensure(DecodeStates(payload))
}

// Apply runs actions in order.
func (s *State) Apply(actions []program.Action) {
	for _, a := range actions {
		s.apply(a)
	}
}

// ApplyEncoded decodes a data-ax-on-<event> payload and runs it.
func (s *State) ApplyEncoded(payload string) {
	s.Apply(DecodeActions(payload))
}

func (s *State) apply(a program.Action) {
	if key, ok := a.StateKey(); ok {
		if _, present := s.values[key]; !present {
			s.put(key, program.Int(0))
		}
	}

	switch a.Kind {
	case program.ActionSet:
		s.put(a.Key, a.Value)
	case program.ActionIncrement:
		s.put(a.Key, program.Int(toNumber(s.values[a.Key])+a.By))
	case program.ActionDecrement:
		s.put(a.Key, program.Int(toNumber(s.values[a.Key])-a.By))
	case program.ActionToggle:
		s.put(a.Key, program.Bool(!s.values[a.Key].Truthy()))
	case program.ActionNavigate:
		s.Navigations = append(s.Navigations, a.Path)
	case program.ActionInvokeWasm:
		s.Invocations = append(s.Invocations, Invocation{Canvas: a.Canvas, Export: a.Export, Payload: a.Payload})
	}
}

func (s *State) put(key string, v program.Primitive) {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = v
}

// Get returns the current value of key.
func (s *State) Get(key string) (program.Primitive, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of keys.
func (s *State) Len() int { return len(s.values) }

// Keys returns keys in insertion order.
func (s *State) Keys() []string {
	return append([]string(nil), s.order...)
}

// Map returns a copy of the current values.
func (s *State) Map() map[string]program.Primitive {
	out := make(map[string]program.Primitive, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func toNumber(p program.Primitive) int {
	switch p.Kind() {
	case program.KindInt:
		i, _ := p.IntValue()
		return i
	case program.KindBool:
		if b, _ := p.BoolValue(); b {
			return 1
		}
		return 0
	default:
		str, _ := p.StringValue()
		if i, ok := decodeInt(strings.TrimSpace(str)); ok {
			return i
		}
		return 0
	}
}
