package axiom

import (
	"context"
	"html"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/axiom/lib/generator"
)

var (
	runtimeHandle = templ.NewOnceHandle()
	bridgeHandle  = templ.NewOnceHandle()
)

// ProgramScript renders the self-contained script for p. An empty program
// renders nothing.
//
//	@axiom.ProgramScript(page.Program())
func ProgramScript(p Program) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		script, err := generator.ProgramScript(p)
		if err != nil || script == "" {
			return err
		}
		return writeScript(w, script)
	})
}

// RuntimeScript renders the generic decoder that interprets element
// interaction attributes. It renders at most once per templ render context,
// so every component that needs it can include it.
func RuntimeScript() templ.Component {
	return once(runtimeHandle, generator.RuntimeDecoder())
}

// WasmBridgeScript renders the WebAssembly bridge. Like RuntimeScript it
// renders at most once per templ render context.
func WasmBridgeScript() templ.Component {
	return once(bridgeHandle, generator.WasmBridge())
}

func once(handle *templ.OnceHandle, script string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return writeScript(w, script)
		})
		return handle.Once().Render(templ.WithChildren(ctx, body), w)
	})
}

func writeScript(w io.Writer, script string) error {
	_, err := io.WriteString(w, "<script>"+script+"</script>")
	return err
}

// WasmCanvas renders a canvas bound to a WebAssembly-backed JS module.
// Extra attributes (class, width, height) are merged in; the data-ax-wasm-*
// attributes always win.
//
//	@axiom.WasmCanvas(axiom.Canvas{ID: "game", Module: "/static/game.js"}, templ.Attributes{"width": "640"})
func WasmCanvas(c Canvas, extra ...templ.Attributes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs := make(map[string]string)
		for _, e := range extra {
			for k, v := range e {
				if s, ok := attrValue(v); ok {
					attrs[k] = s
				}
			}
		}
		for k, v := range c.Attributes() {
			attrs[k] = v
		}

		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		var sb strings.Builder
		sb.WriteString("<canvas")
		for _, k := range keys {
			sb.WriteString(" ")
			sb.WriteString(html.EscapeString(k))
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(attrs[k]))
			sb.WriteString(`"`)
		}
		sb.WriteString("></canvas>")

		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func attrValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return "", x
	case int:
		return strconv.Itoa(x), true
	default:
		return "", false
	}
}
