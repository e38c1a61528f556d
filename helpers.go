package axiom

import (
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context, initialised so RuntimeScript and WasmBridgeScript
// render once per response:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    axiom.Render(w, r, page())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(templ.InitializeContext(r.Context()), w)
}
