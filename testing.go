package axiom

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/axiom/lib/codec"
)

// TestResult holds the output of rendering a component for testing.
type TestResult struct {
	HTML string
}

// TestRender renders a component with an initialised templ context, so
// once-per-document scripts behave as they do in a real response.
//
//	result, err := axiom.TestRender(page())
//	if result.ScriptCount() != 2 {
//	    t.Fatal("expected runtime and program scripts")
//	}
func TestRender(component templ.Component) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), component)
}

// TestRenderWithContext renders a component with a custom context.
func TestRenderWithContext(ctx context.Context, component templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	if err := component.Render(templ.InitializeContext(ctx), &buf); err != nil {
		return nil, err
	}
	return &TestResult{HTML: buf.String()}, nil
}

// HTMLContains checks if the rendered HTML contains substr.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the rendered HTML contains all substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// ScriptCount returns the number of <script> elements rendered.
func (r *TestResult) ScriptCount() int {
	return strings.Count(r.HTML, "<script>")
}

// InteractionTest drives an element's encoded interactions through the Go
// mirror of the browser decoder.
//
//	menu := axiom.NewInteractions().On(axiom.Click, func(s *axiom.InteractionScope) {
//	    s.Toggle("open")
//	})
//	it := axiom.TestInteractions(menu)
//	it.Fire(axiom.Click)
//	if !it.Truthy("open") {
//	    t.Fatal("menu should be open")
//	}
type InteractionTest struct {
	attrs templ.Attributes
	state *codec.State
}

// TestInteractions encodes in's attributes and seeds a fresh state from
// data-ax-states, as the decoder does when it first binds the element.
func TestInteractions(in *Interactions) *InteractionTest {
	return TestAttributes(in.Attrs())
}

// TestAttributes is like TestInteractions for already rendered attributes.
func TestAttributes(attrs templ.Attributes) *InteractionTest {
	it := &InteractionTest{attrs: attrs, state: codec.NewState()}
	if v, ok := attrs[codec.AttrStates].(string); ok {
		it.state.EnsureEncoded(v)
	}
	return it
}

// Fire applies the actions encoded for event. Events without actions are
// ignored, as in the browser.
func (it *InteractionTest) Fire(event Event) *InteractionTest {
	if v, ok := it.attrs[codec.EventAttr(event)].(string); ok {
		it.state.ApplyEncoded(v)
	}
	return it
}

// Value returns the current value of key.
func (it *InteractionTest) Value(key string) (Primitive, bool) {
	return it.state.Get(key)
}

// Truthy reports whether key holds a truthy value.
func (it *InteractionTest) Truthy(key string) bool {
	v, ok := it.state.Get(key)
	return ok && v.Truthy()
}

// State returns a copy of the current state.
func (it *InteractionTest) State() map[string]Primitive {
	return it.state.Map()
}

// Navigations returns the paths navigated to, in order.
func (it *InteractionTest) Navigations() []string {
	return append([]string(nil), it.state.Navigations...)
}

// Invocations returns the WebAssembly calls made, in order.
func (it *InteractionTest) Invocations() []codec.Invocation {
	return append([]codec.Invocation(nil), it.state.Invocations...)
}

func (it *InteractionTest) String() string {
	var sb strings.Builder
	for i, k := range it.state.Keys() {
		if i > 0 {
			sb.WriteString(" ")
		}
		v, _ := it.state.Get(k)
		fmt.Fprintf(&sb, "%s=%v", k, v)
	}
	return sb.String()
}
