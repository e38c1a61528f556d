package axiom

import (
	"github.com/pthm/axiom/lib/codec"
	"github.com/pthm/axiom/lib/generator"
)

// GeneratorOptions selects the fixed scripts Compile emits.
type GeneratorOptions = generator.Options

// EncodeStates encodes states as a data-ax-states value.
func EncodeStates(states []StateDefinition) string {
	return codec.EncodeStates(states)
}

// EncodeActions encodes actions as a data-ax-on-<event> value.
func EncodeActions(actions []Action) string {
	return codec.EncodeActions(actions)
}

// DecodeStates decodes a data-ax-states value the way the browser decoder
// does: malformed tokens are dropped.
func DecodeStates(s string) []StateDefinition {
	return codec.DecodeStates(s)
}

// DecodeActions decodes a data-ax-on-<event> value the way the browser
// decoder does: malformed tokens are dropped.
func DecodeActions(s string) []Action {
	return codec.DecodeActions(s)
}

// Compile returns the JavaScript for p plus the fixed scripts selected by
// opts, without <script> tags.
func Compile(p Program, opts GeneratorOptions) (string, error) {
	return generator.New(opts).Generate(p)
}
