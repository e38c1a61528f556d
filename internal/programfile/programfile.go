// Package programfile loads axiom programs and canvas bindings from YAML so
// pages can be compiled without writing Go.
//
//	title: Counter
//	states:
//	  - key: count
//	    initial: 0
//	events:
//	  - element: plus
//	    on: click
//	    action: {increment: count, by: 1}
//	timers:
//	  - every: 5
//	    action: {set: {key: count, value: 0}}
//	canvases:
//	  - id: game
//	    module: /static/game.js
//	    binary: game.wasm
//	    initial: {level: 1}
package programfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pthm/axiom/lib/codec"
	"github.com/pthm/axiom/lib/program"
	"github.com/pthm/axiom/lib/wasm"
)

// File is a parsed program file.
type File struct {
	Title    string       `yaml:"title"`
	HTML     string       `yaml:"html"`
	States   []StateSpec  `yaml:"states"`
	Events   []EventSpec  `yaml:"events"`
	Timers   []TimerSpec  `yaml:"timers"`
	Canvases []CanvasSpec `yaml:"canvases"`

	path string
}

// StateSpec declares one state. Initial must be a string, integer or boolean.
type StateSpec struct {
	Key     string `yaml:"key"`
	Initial any    `yaml:"initial"`
}

// EventSpec binds an action to an element event.
type EventSpec struct {
	Element string     `yaml:"element"`
	On      string     `yaml:"on"`
	Action  ActionSpec `yaml:"action"`
}

// TimerSpec schedules an action. Exactly one of After and Every is set.
type TimerSpec struct {
	After  *float64   `yaml:"after"`
	Every  *float64   `yaml:"every"`
	Action ActionSpec `yaml:"action"`
}

// ActionSpec holds exactly one action.
type ActionSpec struct {
	Set       *SetSpec  `yaml:"set"`
	Increment string    `yaml:"increment"`
	Decrement string    `yaml:"decrement"`
	By        *int      `yaml:"by"`
	Toggle    string    `yaml:"toggle"`
	Navigate  string    `yaml:"navigate"`
	Wasm      *WasmSpec `yaml:"wasm"`
}

// SetSpec is the body of a set action.
type SetSpec struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// WasmSpec is the body of an invokeWasm action.
type WasmSpec struct {
	Canvas  string `yaml:"canvas"`
	Export  string `yaml:"export"`
	Payload any    `yaml:"payload"`
}

// CanvasSpec binds a canvas element to a module. Binary is the compiled
// .wasm file behind Module, relative to the program file.
type CanvasSpec struct {
	ID        string `yaml:"id"`
	Module    string `yaml:"module"`
	Binary    string `yaml:"binary"`
	Mount     string `yaml:"mount"`
	Initial   any    `yaml:"initial"`
	Autostart *bool  `yaml:"autostart"`
	Fallback  string `yaml:"fallback"`
}

// Load reads and validates a program file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse validates program file contents. path is used for error messages
// and to resolve canvas binaries.
func Parse(path string, data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	f.path = path

	if _, err := f.Program(); err != nil {
		return nil, err
	}
	if _, err := f.CanvasElements(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Path returns the file the program was loaded from.
func (f *File) Path() string {
	return f.path
}

// Program converts the file into a program.
func (f *File) Program() (program.Program, error) {
	var p program.Program

	for i, s := range f.States {
		field := fmt.Sprintf("states[%d]", i)
		if s.Key == "" {
			return p, f.fieldError(field+".key", "key is required")
		}
		initial, err := primitiveOf(s.Initial)
		if err != nil {
			return p, f.fieldError(field+".initial", err.Error())
		}
		p = p.WithState(program.StateDefinition{Key: s.Key, Initial: initial})
	}

	for i, e := range f.Events {
		field := fmt.Sprintf("events[%d]", i)
		if e.Element == "" {
			return p, f.fieldError(field+".element", "element is required")
		}
		event, err := program.ParseEvent(e.On)
		if err != nil {
			return p, f.fieldError(field+".on", err.Error())
		}
		action, err := f.action(field+".action", e.Action)
		if err != nil {
			return p, err
		}
		p = p.On(e.Element, event, action)
	}

	for i, t := range f.Timers {
		field := fmt.Sprintf("timers[%d]", i)
		action, err := f.action(field+".action", t.Action)
		if err != nil {
			return p, err
		}
		switch {
		case t.After != nil && t.Every == nil:
			p = p.After(*t.After, action)
		case t.Every != nil && t.After == nil:
			p = p.Every(*t.Every, action)
		default:
			return p, f.fieldError(field, "exactly one of after or every is required")
		}
	}

	return p, nil
}

// CanvasElements converts the canvas specs into codec canvases.
func (f *File) CanvasElements() ([]codec.Canvas, error) {
	canvases := make([]codec.Canvas, 0, len(f.Canvases))
	seen := make(map[string]bool, len(f.Canvases))

	for i, c := range f.Canvases {
		field := fmt.Sprintf("canvases[%d]", i)
		if c.ID == "" {
			return nil, f.fieldError(field+".id", "id is required")
		}
		if seen[c.ID] {
			return nil, f.fieldError(field+".id", fmt.Sprintf("duplicate canvas id %q", c.ID))
		}
		seen[c.ID] = true
		if c.Module == "" {
			return nil, f.fieldError(field+".module", "module is required")
		}
		initial, err := program.WasmValueOf(c.Initial)
		if err != nil {
			return nil, f.fieldError(field+".initial", err.Error())
		}
		canvases = append(canvases, codec.Canvas{
			ID:         c.ID,
			Module:     c.Module,
			Mount:      c.Mount,
			Initial:    initial,
			Manual:     c.Autostart != nil && !*c.Autostart,
			FallbackID: c.Fallback,
		})
	}
	return canvases, nil
}

// Bindings returns a wasm binding for every canvas that names a binary.
func (f *File) Bindings() ([]wasm.Binding, error) {
	canvases, err := f.CanvasElements()
	if err != nil {
		return nil, err
	}
	var bindings []wasm.Binding
	for i, c := range f.Canvases {
		if path := f.BinaryPath(c); path != "" {
			bindings = append(bindings, wasm.Binding{
				Canvas: canvases[i],
				Source: wasm.FileSource{Path: path},
			})
		}
	}
	return bindings, nil
}

// BinaryPath resolves a canvas binary relative to the program file. It
// returns the empty string when the canvas names no binary.
func (f *File) BinaryPath(c CanvasSpec) string {
	if c.Binary == "" {
		return ""
	}
	if filepath.IsAbs(c.Binary) {
		return c.Binary
	}
	return filepath.Join(filepath.Dir(f.path), c.Binary)
}

func (f *File) action(field string, a ActionSpec) (program.Action, error) {
	var actions []program.Action

	if a.Set != nil {
		if a.Set.Key == "" {
			return program.Action{}, f.fieldError(field+".set.key", "key is required")
		}
		value, err := primitiveOf(a.Set.Value)
		if err != nil {
			return program.Action{}, f.fieldError(field+".set.value", err.Error())
		}
		actions = append(actions, program.Set(a.Set.Key, value))
	}
	by := 1
	if a.By != nil {
		by = *a.By
	}
	if a.Increment != "" {
		actions = append(actions, program.Increment(a.Increment, by))
	}
	if a.Decrement != "" {
		actions = append(actions, program.Decrement(a.Decrement, by))
	}
	if a.Toggle != "" {
		actions = append(actions, program.Toggle(a.Toggle))
	}
	if a.Navigate != "" {
		actions = append(actions, program.Navigate(a.Navigate))
	}
	if a.Wasm != nil {
		if a.Wasm.Canvas == "" || a.Wasm.Export == "" {
			return program.Action{}, f.fieldError(field+".wasm", "canvas and export are required")
		}
		payload, err := program.WasmValueOf(a.Wasm.Payload)
		if err != nil {
			return program.Action{}, f.fieldError(field+".wasm.payload", err.Error())
		}
		actions = append(actions, program.InvokeWasm(a.Wasm.Canvas, a.Wasm.Export, payload))
	}

	if len(actions) != 1 {
		return program.Action{}, f.fieldError(field, fmt.Sprintf("exactly one action is required, found %d", len(actions)))
	}
	return actions[0], nil
}

func (f *File) fieldError(field, message string) error {
	return &FieldError{Path: f.path, Field: field, Message: message}
}

func primitiveOf(v any) (program.Primitive, error) {
	switch x := v.(type) {
	case string:
		return program.String(x), nil
	case int:
		return program.Int(x), nil
	case bool:
		return program.Bool(x), nil
	default:
		return program.Primitive{}, fmt.Errorf("must be a string, integer or boolean, got %T", v)
	}
}
