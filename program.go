package axiom

import (
	"github.com/pthm/axiom/lib/codec"
	"github.com/pthm/axiom/lib/program"
)

// Model types.
type (
	Primitive       = program.Primitive
	WasmValue       = program.WasmValue
	StateDefinition = program.StateDefinition
	Action          = program.Action
	Event           = program.Event
	EventBinding    = program.EventBinding
	Timer           = program.Timer
	Program         = program.Program
	Canvas          = codec.Canvas
)

// Supported events.
const (
	Click  = program.Click
	Input  = program.Input
	Change = program.Change
	Submit = program.Submit
)

// Primitive constructors.
var (
	String = program.String
	Int    = program.Int
	Bool   = program.Bool
)

// State declares key with a native initial value.
func State[T program.PrimitiveConvertible](key string, initial T) StateDefinition {
	return program.State(key, initial)
}

// NewProgram builds a program from items in order.
func NewProgram(items ...ProgramItem) Program {
	var p Program
	for _, item := range items {
		if item != nil {
			item.apply(&p)
		}
	}
	return p
}
