package axiom

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRenderSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	if err := Render(rec, req, page(RuntimeScript(), RuntimeScript())); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", ct)
	}
	if n := strings.Count(rec.Body.String(), "<script>"); n != 1 {
		t.Errorf("rendered %d scripts, want 1", n)
	}
}
