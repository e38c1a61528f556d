package axiom

import (
	"strings"
	"testing"

	"github.com/pthm/axiom/lib/classhash"
)

func TestClass(t *testing.T) {
	a := Class("grid-template-columns", "1fr  2fr")
	b := Class(" Grid-Template-Columns ", "1fr 2fr")
	if a != b {
		t.Errorf("Class() = %q and %q, want equal", a, b)
	}
	if !strings.HasPrefix(a, "ax-") || len(a) != len("ax-")+16 {
		t.Errorf("Class() = %q, want ax-<16 hex>", a)
	}
	if s := StartingStyleClass("opacity", "0"); !strings.HasPrefix(s, "axs-") {
		t.Errorf("StartingStyleClass() = %q, want axs- prefix", s)
	}
}

func TestStyleSheet(t *testing.T) {
	plain := NewClassRegistry("t-")
	starting := NewClassRegistry("ts-", classhash.WithStartingStyle())
	cls := plain.ClassName("color", "red")
	sCls := starting.ClassName("opacity", "0")

	result, err := TestRender(StyleSheet(plain, starting))
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	want := "<style>." + cls + "{color:red}\n@starting-style{." + sCls + "{opacity:0}}\n</style>"
	if result.HTML != want {
		t.Errorf("StyleSheet() = %q, want %q", result.HTML, want)
	}

	empty, err := TestRender(StyleSheet(NewClassRegistry("e-")))
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if empty.HTML != "" {
		t.Errorf("StyleSheet(empty) = %q, want nothing", empty.HTML)
	}
}

func TestStyleSheetDefaultRegistries(t *testing.T) {
	cls := Class("outline", "1px solid")
	result, err := TestRender(StyleSheet())
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if !result.HTMLContains("." + cls + "{outline:1px solid}") {
		t.Errorf("StyleSheet() = %s", result.HTML)
	}
}

func TestStyleSheetCannotCloseStyleElement(t *testing.T) {
	r := NewClassRegistry("t-")
	r.ClassName("color", "red}</style><script>alert(1)</script>")

	result, err := TestRender(StyleSheet(r))
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if n := strings.Count(result.HTML, "</style>"); n != 1 {
		t.Errorf("StyleSheet() has %d closing style tags, want 1: %s", n, result.HTML)
	}
	if result.HTMLContains("<script>") {
		t.Errorf("StyleSheet() injected markup: %s", result.HTML)
	}
	if !strings.HasSuffix(result.HTML, "}\n</style>") {
		t.Errorf("StyleSheet() = %s", result.HTML)
	}
}
