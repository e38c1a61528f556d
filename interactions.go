package axiom

import (
	"github.com/a-h/templ"

	"github.com/pthm/axiom/lib/codec"
	"github.com/pthm/axiom/lib/program"
)

// Interactions accumulates the states and per-event actions of one element.
// The zero value is ready to use.
type Interactions struct {
	states   []StateDefinition
	index    map[string]int
	explicit map[string]bool

	events  []Event
	actions map[Event][]Action
}

// NewInteractions returns an empty accumulator.
func NewInteractions() *Interactions {
	return &Interactions{}
}

// On runs fn against a fresh scope for event. If fn records no actions
// nothing is kept, including declarations. Repeated calls for the same
// event accumulate.
func (in *Interactions) On(event Event, fn func(s *InteractionScope)) *Interactions {
	scope := &InteractionScope{}
	fn(scope)
	if len(scope.actions) == 0 {
		return in
	}

	for _, d := range scope.decls {
		in.declare(d.def, d.explicit)
	}

	if in.actions == nil {
		in.actions = make(map[Event][]Action)
	}
	if _, ok := in.actions[event]; !ok {
		in.events = append(in.events, event)
	}
	in.actions[event] = append(in.actions[event], scope.actions...)
	return in
}

// declare records a state. Explicit declarations replace earlier values.
// Implicit ones replace earlier implicit ones, so the later kind wins, but
// never an explicit declaration.
func (in *Interactions) declare(def StateDefinition, explicit bool) {
	if in.index == nil {
		in.index = make(map[string]int)
		in.explicit = make(map[string]bool)
	}
	i, exists := in.index[def.Key]
	switch {
	case !exists:
		in.index[def.Key] = len(in.states)
		in.states = append(in.states, def)
		in.explicit[def.Key] = explicit
	case explicit || !in.explicit[def.Key]:
		in.states[i] = def
		in.explicit[def.Key] = explicit
	}
}

// States returns the element's state declarations in first-declared order.
func (in *Interactions) States() []StateDefinition {
	return append([]StateDefinition(nil), in.states...)
}

// Events returns the events with recorded actions in first-use order.
func (in *Interactions) Events() []Event {
	return append([]Event(nil), in.events...)
}

// Actions returns the actions recorded for event.
func (in *Interactions) Actions(event Event) []Action {
	return append([]Action(nil), in.actions[event]...)
}

// IsEmpty reports whether no actions were recorded.
func (in *Interactions) IsEmpty() bool {
	return len(in.events) == 0
}

// Attrs encodes the element's interactions as data-ax-states and
// data-ax-on-<event> attributes. It is empty when nothing was recorded.
func (in *Interactions) Attrs() templ.Attributes {
	attrs := templ.Attributes{}
	if len(in.states) > 0 {
		attrs[codec.AttrStates] = codec.EncodeStates(in.states)
	}
	for _, event := range in.events {
		attrs[codec.EventAttr(event)] = codec.EncodeActions(in.actions[event])
	}
	return attrs
}

// InteractionScope collects the actions of one On callback.
type InteractionScope struct {
	actions []Action
	decls   []scopedState
}

type scopedState struct {
	def      StateDefinition
	explicit bool
}

func (s *InteractionScope) add(a Action, implicit *StateDefinition) {
	s.actions = append(s.actions, a)
	if implicit != nil {
		s.decls = append(s.decls, scopedState{def: *implicit})
	}
}

func (s *InteractionScope) declare(def StateDefinition) {
	s.decls = append(s.decls, scopedState{def: def, explicit: true})
}

func zeroState(key string, kind program.Kind) *StateDefinition {
	return &StateDefinition{Key: key, Initial: program.Zero(kind)}
}

// Set assigns value to key. key defaults to the zero value of value's kind.
func (s *InteractionScope) Set(key string, value Primitive) {
	s.add(program.Set(key, value), zeroState(key, value.Kind()))
}

// Increment adds by to key. key defaults to 0.
func (s *InteractionScope) Increment(key string, by int) {
	s.add(program.Increment(key, by), zeroState(key, program.KindInt))
}

// Decrement subtracts by from key. key defaults to 0.
func (s *InteractionScope) Decrement(key string, by int) {
	s.add(program.Decrement(key, by), zeroState(key, program.KindInt))
}

// Toggle negates key. key defaults to false.
func (s *InteractionScope) Toggle(key string) {
	s.add(program.Toggle(key), zeroState(key, program.KindBool))
}

// Navigate moves the browser to path.
func (s *InteractionScope) Navigate(path string) {
	s.add(program.Navigate(path), nil)
}

// InvokeWasm calls export on the module bound to canvasID.
func (s *InteractionScope) InvokeWasm(canvasID, export string, payload WasmValue) {
	s.add(program.InvokeWasm(canvasID, export, payload), nil)
}

// SetState declares def and assigns value to its key.
func (s *InteractionScope) SetState(def StateDefinition, value Primitive) {
	s.declare(def)
	s.add(program.Set(def.Key, value), nil)
}

// IncrementState declares def and adds by to its key.
func (s *InteractionScope) IncrementState(def StateDefinition, by int) {
	s.declare(def)
	s.add(program.Increment(def.Key, by), nil)
}

// DecrementState declares def and subtracts by from its key.
func (s *InteractionScope) DecrementState(def StateDefinition, by int) {
	s.declare(def)
	s.add(program.Decrement(def.Key, by), nil)
}

// ToggleState declares def and negates its key.
func (s *InteractionScope) ToggleState(def StateDefinition) {
	s.declare(def)
	s.add(program.Toggle(def.Key), nil)
}

// Declare declares def without recording an action.
func (s *InteractionScope) Declare(def StateDefinition) {
	s.declare(def)
}
