package generator

import (
	"bytes"
	"encoding/json"
	"sync"
	"text/template"

	"github.com/pthm/axiom/lib/codec"
	"github.com/pthm/axiom/lib/program"
)

// FallbackMessage is shown in a canvas's fallback element when its module
// cannot be mounted.
const FallbackMessage = "This interactive content could not be loaded."

var (
	decoderOnce   sync.Once
	decoderScript string

	bridgeOnce   sync.Once
	bridgeScript string
)

// RuntimeDecoder returns the generic decoder script. The script does not
// depend on any program: it scans the document for data-ax-states and
// data-ax-on-<event> attributes and interprets them. Emit it at most once per
// document; a second copy returns early.
func RuntimeDecoder() string {
	decoderOnce.Do(func() {
		decoderScript = mustRender(decoderTemplate, decoderData())
	})
	return decoderScript
}

// WasmBridge returns the WASM bridge script that defines window.AxiomWasm
// and auto-mounts canvas[data-ax-wasm-module] elements.
func WasmBridge() string {
	bridgeOnce.Do(func() {
		bridgeScript = mustRender(bridgeTemplate, bridgeData())
	})
	return bridgeScript
}

func decoderData() map[string]string {
	arity := make(map[string]int, len(codec.Grammar))
	for _, g := range codec.Grammar {
		arity[g.Tag] = g.Fields
	}
	events := make([]string, 0, len(program.Events))
	for _, e := range program.Events {
		events = append(events, string(e))
	}
	return map[string]string{
		"Arity":      mustJSON(arity),
		"StateArity": mustJSON(codec.StateArity),
		"Events":     mustJSON(events),
		"StatesAttr": jsString(codec.AttrStates),
		"OnPrefix":   jsString(codec.AttrOnPrefix),
	}
}

func bridgeData() map[string]string {
	return map[string]string{
		"ModuleAttr":      jsString(codec.AttrWasmModule),
		"MountAttr":       jsString(codec.AttrWasmMount),
		"InitialAttr":     jsString(codec.AttrWasmInitial),
		"AutostartAttr":   jsString(codec.AttrWasmAutostart),
		"FallbackAttr":    jsString(codec.AttrWasmFallbackFor),
		"DefaultMount":    jsString(codec.DefaultMountExport),
		"FallbackMessage": jsString(FallbackMessage),
	}
}

func mustRender(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic("generator: " + err.Error())
	}
	return buf.String()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic("generator: " + err.Error())
	}
	return string(b)
}

var (
	decoderTemplate = template.Must(template.New("decoder").Parse(helpersJS + decoderJS))
	bridgeTemplate  = template.Must(template.New("bridge").Parse(bridgeJS))
)

// helpersJS is shared by the program script and the decoder. Both declare a
// local `state` object before including it.
const helpersJS = `{{define "helpers"}}
  function __axB64(s) {
    try {
      var bin = atob(s);
      var bytes = new Uint8Array(bin.length);
      for (var i = 0; i < bin.length; i++) {
        bytes[i] = bin.charCodeAt(i);
      }
      return new TextDecoder("utf-8", { ignoreBOM: true }).decode(bytes);
    } catch (e) {
      return null;
    }
  }
  function __axInt(s) {
    if (typeof s !== "string" || !/^-?[0-9]+$/.test(s)) {
      return null;
    }
    var n = parseInt(s, 10);
    return Number.isSafeInteger(n) ? n : null;
  }
  function __axNum(v) {
    if (typeof v === "number") {
      return v;
    }
    if (typeof v === "boolean") {
      return v ? 1 : 0;
    }
    if (typeof v === "string") {
      var n = __axInt(v.trim());
      return n === null ? 0 : n;
    }
    return 0;
  }
  function __axInit(key) {
    if (!Object.prototype.hasOwnProperty.call(state, key)) {
      state[key] = 0;
    }
  }
  function __axPayload(b64) {
    var json = __axB64(b64);
    if (json === null) {
      return null;
    }
    try {
      return JSON.parse(json);
    } catch (e) {
      return null;
    }
  }
  function __axInvokeWasm(canvasID, exportName, payload) {
    try {
      if (!window.AxiomWasm || typeof window.AxiomWasm.invoke !== "function") {
        throw new Error("axiom: wasm bridge is not loaded");
      }
      var pending = window.AxiomWasm.invoke(canvasID, exportName, payload);
      if (pending && typeof pending.then === "function") {
        pending.then(null, function (err) {
          window.__ax_wasm_error = err;
        });
      }
    } catch (err) {
      window.__ax_wasm_error = err;
    }
  }
{{- end}}`

const programJS = `(function () {
  "use strict";
  var state = Object.assign(Object.create(null), {{.State}});
  window.__ax_state = state;
{{- template "helpers"}}
  function __axReady(fn) {
    if (document.readyState === "loading") {
      document.addEventListener("DOMContentLoaded", fn);
    } else {
      fn();
    }
  }
{{- if .Events}}
  __axReady(function () {
    var el;
{{- range .Events}}
    el = document.getElementById({{.ElementID}});
    if (el) {
      el.addEventListener({{.Event}}, function (event) {
{{- if .Prevent}}
        event.preventDefault();
{{- end}}
        {{.Body}}
      });
    }
{{- end}}
  });
{{- end}}
{{- range .Timers}}
  {{.Func}}(function () {
    {{.Body}}
  }, {{.Millis}});
{{- end}}
})();
`

const decoderJS = `(function () {
  "use strict";
  if (window.__ax_dom_booted) {
    return;
  }
  window.__ax_dom_booted = true;
  var ARITY = {{.Arity}};
  var STATE_ARITY = {{.StateArity}};
  var EVENTS = {{.Events}};
  var STATES_ATTR = {{.StatesAttr}};
  var ON_PREFIX = {{.OnPrefix}};
  var state = Object.create(null);
  window.__ax_dom_state = state;
{{- template "helpers"}}
  function __axValue(kind, raw) {
    if (kind === "s") {
      var s = __axB64(raw);
      return s === null ? null : { v: s };
    }
    if (kind === "i") {
      var n = __axInt(raw);
      return n === null ? null : { v: n };
    }
    if (kind === "b") {
      if (raw === "1") {
        return { v: true };
      }
      if (raw === "0") {
        return { v: false };
      }
    }
    return null;
  }
  function __axEnsureState(el) {
    var raw = el.getAttribute(STATES_ATTR);
    if (!raw) {
      return;
    }
    var tokens = raw.split(",");
    for (var i = 0; i < tokens.length; i++) {
      if (!tokens[i]) {
        continue;
      }
      var f = tokens[i].split("|");
      if (f.length !== STATE_ARITY) {
        continue;
      }
      var key = __axB64(f[0]);
      var val = __axValue(f[1], f[2]);
      if (key === null || val === null) {
        continue;
      }
      if (!Object.prototype.hasOwnProperty.call(state, key)) {
        state[key] = val.v;
      }
    }
  }
  function __axApplyToken(f) {
    if (!Object.prototype.hasOwnProperty.call(ARITY, f[0]) || f.length !== ARITY[f[0]]) {
      return;
    }
    var key, val, n;
    switch (f[0]) {
      case "set":
        key = __axB64(f[1]);
        val = __axValue(f[2], f[3]);
        if (key === null || val === null) {
          return;
        }
        __axInit(key);
        state[key] = val.v;
        return;
      case "inc":
      case "dec":
        key = __axB64(f[1]);
        n = __axInt(f[2]);
        if (key === null || n === null) {
          return;
        }
        __axInit(key);
        state[key] = __axNum(state[key]) + (f[0] === "inc" ? n : -n);
        return;
      case "tog":
        key = __axB64(f[1]);
        if (key === null) {
          return;
        }
        __axInit(key);
        state[key] = !state[key];
        return;
      case "nav":
        var path = __axB64(f[1]);
        if (path === null) {
          return;
        }
        window.location.href = path;
        return;
      case "wasm":
        var canvasID = __axB64(f[1]);
        var exportName = __axB64(f[2]);
        var json = __axB64(f[3]);
        var payload;
        if (canvasID === null || exportName === null || json === null) {
          return;
        }
        try {
          payload = JSON.parse(json);
        } catch (e) {
          return;
        }
        __axInvokeWasm(canvasID, exportName, payload);
        return;
    }
  }
  function __axApply(raw) {
    if (!raw) {
      return;
    }
    var tokens = raw.split(",");
    for (var i = 0; i < tokens.length; i++) {
      if (!tokens[i]) {
        continue;
      }
      try {
        __axApplyToken(tokens[i].split("|"));
      } catch (e) {
        // a broken token is a no-op
      }
    }
  }
  function __axBind(el) {
    if (el.__axBound) {
      return;
    }
    el.__axBound = true;
    __axEnsureState(el);
    EVENTS.forEach(function (name) {
      var attr = ON_PREFIX + name;
      if (!el.hasAttribute(attr)) {
        return;
      }
      el.addEventListener(name, function (event) {
        if (name === "submit") {
          event.preventDefault();
        }
        __axApply(el.getAttribute(attr));
      });
    });
  }
  function __axScan() {
    var selectors = ["[" + STATES_ATTR + "]"];
    for (var i = 0; i < EVENTS.length; i++) {
      selectors.push("[" + ON_PREFIX + EVENTS[i] + "]");
    }
    var nodes = document.querySelectorAll(selectors.join(","));
    for (var j = 0; j < nodes.length; j++) {
      __axBind(nodes[j]);
    }
  }
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", __axScan);
  } else {
    __axScan();
  }
})();
`

const bridgeJS = `(function () {
  "use strict";
  if (window.__ax_wasm_booted) {
    return;
  }
  window.__ax_wasm_booted = true;
  var MODULE_ATTR = {{.ModuleAttr}};
  var MOUNT_ATTR = {{.MountAttr}};
  var INITIAL_ATTR = {{.InitialAttr}};
  var AUTOSTART_ATTR = {{.AutostartAttr}};
  var FALLBACK_ATTR = {{.FallbackAttr}};
  var DEFAULT_MOUNT = {{.DefaultMount}};
  var FALLBACK_MESSAGE = {{.FallbackMessage}};
  var modules = Object.create(null);
  var bound = Object.create(null);
  function has(obj, key) {
    return Object.prototype.hasOwnProperty.call(obj, key);
  }
  function decode(s) {
    try {
      var bin = atob(s);
      var bytes = new Uint8Array(bin.length);
      for (var i = 0; i < bin.length; i++) {
        bytes[i] = bin.charCodeAt(i);
      }
      return new TextDecoder("utf-8", { ignoreBOM: true }).decode(bytes);
    } catch (e) {
      return null;
    }
  }
  function initialPayload(canvas) {
    var raw = canvas.getAttribute(INITIAL_ATTR);
    var json = raw ? decode(raw) : null;
    if (json === null) {
      return null;
    }
    try {
      return JSON.parse(json);
    } catch (e) {
      return null;
    }
  }
  function load(path) {
    if (!has(modules, path)) {
      modules[path] = import(path);
    }
    return modules[path];
  }
  function lookup(mod, name) {
    if (mod && typeof mod[name] === "function") {
      return mod[name];
    }
    if (mod && mod["default"] && typeof mod["default"][name] === "function") {
      return mod["default"][name];
    }
    return null;
  }
  function fallbackOf(canvas) {
    var id = canvas.getAttribute(FALLBACK_ATTR);
    if (id) {
      return document.getElementById(id);
    }
    if (!canvas.id) {
      return null;
    }
    var nodes = document.querySelectorAll("[" + FALLBACK_ATTR + "]");
    for (var i = 0; i < nodes.length; i++) {
      if (nodes[i] !== canvas && nodes[i].getAttribute(FALLBACK_ATTR) === canvas.id) {
        return nodes[i];
      }
    }
    return null;
  }
  function showFallback(canvas, visible) {
    var el = fallbackOf(canvas);
    if (!el) {
      return;
    }
    if (visible) {
      el.textContent = FALLBACK_MESSAGE;
      el.hidden = false;
      el.style.display = "";
    } else {
      el.hidden = true;
      el.style.display = "none";
    }
  }
  function emit(target, name, detail) {
    try {
      (target || document).dispatchEvent(new CustomEvent(name, { bubbles: true, detail: detail }));
    } catch (e) {
      // dispatch failures never reach the caller
    }
  }
  function fail(target, err, detail) {
    window.__ax_wasm_error = err;
    detail.error = err;
    emit(target, "axwasm:error", detail);
  }
  function mount(ref) {
    var canvas = typeof ref === "string" ? document.getElementById(ref) : ref;
    if (!canvas) {
      fail(null, new Error("axiom: canvas not found"), { canvasID: ref });
      return Promise.resolve(null);
    }
    var path = canvas.getAttribute(MODULE_ATTR);
    var exportName = canvas.getAttribute(MOUNT_ATTR) || DEFAULT_MOUNT;
    var detail = { canvasID: canvas.id, module: path, exportName: exportName };
    if (!path) {
      showFallback(canvas, true);
      fail(canvas, new Error("axiom: canvas has no " + MODULE_ATTR), detail);
      return Promise.resolve(null);
    }
    return load(path).then(function (mod) {
      var fn = lookup(mod, exportName);
      if (!fn) {
        throw new Error("axiom: export \"" + exportName + "\" not found in " + path);
      }
      if (canvas.id) {
        bound[canvas.id] = mod;
      }
      return fn(initialPayload(canvas), canvas);
    }).then(function (result) {
      canvas.__axMounted = true;
      showFallback(canvas, false);
      detail.result = result;
      emit(canvas, "axwasm:ready", detail);
      return result;
    }, function (err) {
      showFallback(canvas, true);
      fail(canvas, err, detail);
      return null;
    });
  }
  function invoke(canvasID, exportName, payload) {
    var canvas = document.getElementById(canvasID);
    var detail = { canvasID: canvasID, exportName: exportName };
    var ready;
    if (has(bound, canvasID)) {
      ready = Promise.resolve(bound[canvasID]);
    } else if (canvas && canvas.getAttribute(MODULE_ATTR)) {
      ready = load(canvas.getAttribute(MODULE_ATTR)).then(function (mod) {
        bound[canvasID] = mod;
        return mod;
      });
    } else {
      ready = Promise.reject(new Error("axiom: no wasm module bound to canvas \"" + canvasID + "\""));
    }
    return ready.then(function (mod) {
      var fn = lookup(mod, exportName);
      if (!fn) {
        throw new Error("axiom: export \"" + exportName + "\" not found for canvas \"" + canvasID + "\"");
      }
      return fn(payload, canvas);
    }).then(function (result) {
      window.__ax_wasm_last = result;
      detail.result = result;
      emit(canvas, "axwasm:invoke", detail);
      return result;
    }, function (err) {
      fail(canvas, err, detail);
      throw err;
    });
  }
  function boot() {
    var canvases = document.querySelectorAll("canvas[" + MODULE_ATTR + "]");
    for (var i = 0; i < canvases.length; i++) {
      var canvas = canvases[i];
      if (canvas.__axMounted || canvas.getAttribute(AUTOSTART_ATTR) === "false") {
        continue;
      }
      mount(canvas);
    }
  }
  window.AxiomWasm = { invoke: invoke, mount: mount };
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", boot);
  } else {
    boot();
  }
})();
`
