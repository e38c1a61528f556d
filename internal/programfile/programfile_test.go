package programfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm/axiom/lib/program"
	"github.com/pthm/axiom/lib/wasm"
)

const counterYAML = `
title: Counter
html: |
  <button id="plus">+</button>
states:
  - key: count
    initial: 0
  - key: open
    initial: false
events:
  - element: plus
    on: click
    action: {increment: count, by: 2}
  - element: menu
    on: click
    action: {toggle: open}
  - element: form
    on: submit
    action: {set: {key: label, value: sent}}
  - element: right
    on: click
    action:
      wasm:
        canvas: game
        export: move
        payload: {dx: 1, tags: [a, b]}
timers:
  - after: 1.5
    action: {navigate: /done}
  - every: 0
    action: {decrement: count}
canvases:
  - id: game
    module: /static/game.js
    binary: game.wasm
    initial: {level: 1}
    autostart: false
    fallback: game-fallback
  - id: chart
    module: /static/chart.js
`

func TestParse(t *testing.T) {
	f, err := Parse("/site/counter.yaml", []byte(counterYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Title != "Counter" || f.HTML != "<button id=\"plus\">+</button>\n" {
		t.Errorf("Title, HTML = %q, %q", f.Title, f.HTML)
	}

	p, err := f.Program()
	if err != nil {
		t.Fatalf("Program() error = %v", err)
	}

	wantStates := []program.StateDefinition{program.State("count", 0), program.State("open", false)}
	if !reflect.DeepEqual(p.States, wantStates) {
		t.Errorf("States = %v, want %v", p.States, wantStates)
	}

	wantActions := []program.Action{
		program.Increment("count", 2),
		program.Toggle("open"),
		program.Set("label", program.String("sent")),
	}
	for i, want := range wantActions {
		if !reflect.DeepEqual(p.Events[i].Action, want) {
			t.Errorf("Events[%d].Action = %+v, want %+v", i, p.Events[i].Action, want)
		}
	}
	if p.Events[2].Event != program.Submit {
		t.Errorf("Events[2].Event = %v, want submit", p.Events[2].Event)
	}
	if got := p.Events[3].Action.Payload.JSONString(); got != `{"dx":1,"tags":["a","b"]}` {
		t.Errorf("wasm payload = %s", got)
	}

	if len(p.Timers) != 2 {
		t.Fatalf("len(Timers) = %d, want 2", len(p.Timers))
	}
	if p.Timers[0].Milliseconds() != 1500 || p.Timers[0].Kind != program.Timeout {
		t.Errorf("Timers[0] = %+v", p.Timers[0])
	}
	if p.Timers[1].Seconds != 1 || p.Timers[1].Kind != program.Interval {
		t.Errorf("Timers[1] = %+v, want interval clamped to 1s", p.Timers[1])
	}
	if !reflect.DeepEqual(p.Timers[1].Action, program.Decrement("count", 1)) {
		t.Errorf("decrement without by = %+v, want by 1", p.Timers[1].Action)
	}
}

func TestCanvasElementsAndBindings(t *testing.T) {
	f, err := Parse("/site/counter.yaml", []byte(counterYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	canvases, err := f.CanvasElements()
	if err != nil {
		t.Fatalf("CanvasElements() error = %v", err)
	}
	if len(canvases) != 2 {
		t.Fatalf("len(CanvasElements()) = %d, want 2", len(canvases))
	}
	game := canvases[0]
	if !game.Manual || game.FallbackID != "game-fallback" || game.Initial.JSONString() != `{"level":1}` {
		t.Errorf("game canvas = %+v", game)
	}
	if canvases[1].Manual {
		t.Error("autostart defaults to true")
	}

	bindings, err := f.Bindings()
	if err != nil {
		t.Fatalf("Bindings() error = %v", err)
	}
	want := []wasm.Binding{{Canvas: game, Source: wasm.FileSource{Path: filepath.Join("/site", "game.wasm")}}}
	if !reflect.DeepEqual(bindings, want) {
		t.Errorf("Bindings() = %+v, want %+v", bindings, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"state without key", "states: [{initial: 1}]", "states[0].key"},
		{"float state", "states: [{key: a, initial: 1.5}]", "states[0].initial"},
		{"bad event", "events: [{element: x, on: hover, action: {toggle: a}}]", "events[0].on"},
		{"no element", "events: [{on: click, action: {toggle: a}}]", "events[0].element"},
		{"two actions", "events: [{element: x, on: click, action: {toggle: a, navigate: /}}]", "events[0].action"},
		{"no action", "events: [{element: x, on: click, action: {}}]", "events[0].action"},
		{"timer without kind", "timers: [{action: {toggle: a}}]", "timers[0]"},
		{"timer with both", "timers: [{after: 1, every: 2, action: {toggle: a}}]", "timers[0]"},
		{"wasm without export", "events: [{element: x, on: click, action: {wasm: {canvas: c}}}]", "events[0].action.wasm"},
		{"duplicate canvas", "canvases: [{id: a, module: m}, {id: a, module: m}]", "canvases[1].id"},
		{"canvas without module", "canvases: [{id: a}]", "canvases[0].module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("p.yaml", []byte(tt.yaml))
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse() error = %v, want FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("FieldError.Field = %q, want %q", fe.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidProgram) {
				t.Error("FieldError should match ErrInvalidProgram")
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse("p.yaml", []byte("states: [unclosed"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse() error = %v, want ParseError", err)
	}
	if !errors.Is(err, ErrInvalidProgram) {
		t.Error("ParseError should match ErrInvalidProgram")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.yaml")
	if err := os.WriteFile(path, []byte(counterYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Path() != path {
		t.Errorf("Path() = %q, want %q", f.Path(), path)
	}
	if got := f.BinaryPath(f.Canvases[0]); got != filepath.Join(dir, "game.wasm") {
		t.Errorf("BinaryPath() = %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}
