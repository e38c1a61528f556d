package generator

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm/axiom/lib/codec"
)

// decoderHarness runs the decoder against one fake element carrying the
// STATES and ACTIONS attributes, clicks it once and prints the state.
const decoderHarness = `
var listeners = {};
var attrs = {};
attrs[%STATES_ATTR%] = STATES;
attrs[%CLICK_ATTR%] = ACTIONS;
var el = {
  getAttribute: function (n) { return Object.prototype.hasOwnProperty.call(attrs, n) ? attrs[n] : null; },
  hasAttribute: function (n) { return Object.prototype.hasOwnProperty.call(attrs, n); },
  addEventListener: function (n, fn) { listeners[n] = fn; }
};
globalThis.window = { location: {} };
globalThis.document = {
  readyState: "complete",
  querySelectorAll: function () { return [el]; },
  addEventListener: function () {}
};
%RUNTIME%
if (listeners.click) {
  listeners.click({ preventDefault: function () {} });
}
process.stdout.write(JSON.stringify(window.__ax_dom_state));
`

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func runDecoder(t *testing.T, node, states, actions string) map[string]any {
	t.Helper()

	quote := func(s string) string {
		b, _ := json.Marshal(s)
		return string(b)
	}
	script := strings.NewReplacer(
		"%STATES_ATTR%", quote(codec.AttrStates),
		"%CLICK_ATTR%", quote(codec.AttrOnPrefix+"click"),
		"%RUNTIME%", RuntimeDecoder(),
	).Replace(decoderHarness)
	script = "var STATES = " + quote(states) + ";\nvar ACTIONS = " + quote(actions) + ";\n" + script

	path := filepath.Join(t.TempDir(), "harness.js")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := exec.Command(node, path).CombinedOutput()
	if err != nil {
		t.Fatalf("node: %v\n%s", err, out)
	}

	got := map[string]any{}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode node output %q: %v", out, err)
	}
	return got
}

func goState(states, actions string) map[string]any {
	s := codec.NewState()
	s.EnsureEncoded(states)
	s.ApplyEncoded(actions)

	plain := map[string]any{}
	for k, v := range s.Map() {
		plain[k] = v.Any()
	}
	// Normalise numbers the same way as the node output.
	data, _ := json.Marshal(plain)
	got := map[string]any{}
	_ = json.Unmarshal(data, &got)
	return got
}

func TestRuntimeDecoderMatchesGoState(t *testing.T) {
	node, err := exec.LookPath("node")
	if err != nil {
		t.Skip("node not installed")
	}

	tests := []struct {
		name    string
		states  string
		actions string
	}{
		{"toggle", b64("open") + "|b|0", "tog|" + b64("open")},
		{"malformed token", b64("a") + "|i|1", "set|abc"},
		{"unpadded base64", "", "tog|" + strings.TrimRight(b64("ab"), "=")},
		{"plus sign int", "", "inc|" + b64("n") + "|+5"},
		{"leading zeros", "", "inc|" + b64("n") + "|007"},
		{"unsafe int", "", "inc|" + b64("n") + "|9007199254740993"},
		{"negative decrement", b64("n") + "|i|3", "dec|" + b64("n") + "|-2"},
		{"invalid utf-8", "", "tog|" + b64("\xffa")},
		{"delimiters and unicode", "", "set|" + b64("a|b,c") + "|s|" + b64("日本 🎉")},
		{"numeric string coercion", b64("k") + "|s|" + b64(" 41 "), "inc|" + b64("k") + "|1"},
		{"text coercion", b64("k") + "|s|" + b64("abc"), "inc|" + b64("k") + "|1"},
		{"bool coercion", b64("k") + "|b|1", "inc|" + b64("k") + "|1"},
		{"first declaration wins", b64("a") + "|i|1," + b64("a") + "|i|2", ""},
		{"byte order mark key", "", "tog|77u/YQ=="},
		{"proto key", b64("__proto__") + "|i|1", "tog|" + b64("__proto__")},
		{"constructor key", "", "tog|" + b64("constructor")},
		{"effects leave state alone", "", "nav|" + b64("/next") + ",wasm|" + b64("c") + "|" + b64("e") + "|" + b64("{}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js := runDecoder(t, node, tt.states, tt.actions)
			want := goState(tt.states, tt.actions)
			if !reflect.DeepEqual(js, want) {
				t.Errorf("browser state = %v, Go state = %v", js, want)
			}
		})
	}
}
