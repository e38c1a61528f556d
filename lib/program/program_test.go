package program

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestPrimitiveOf(t *testing.T) {
	type status string
	type level int

	tests := []struct {
		name   string
		got    Primitive
		expect Primitive
	}{
		{"string", PrimitiveOf("x"), String("x")},
		{"named string", PrimitiveOf(status("ok")), String("ok")},
		{"int", PrimitiveOf(7), Int(7)},
		{"named int", PrimitiveOf(level(3)), Int(3)},
		{"int64", PrimitiveOf(int64(-2)), Int(-2)},
		{"bool", PrimitiveOf(true), Bool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expect {
				t.Errorf("PrimitiveOf() = %v, want %v", tt.got, tt.expect)
			}
		})
	}
}

func TestPrimitiveTruthy(t *testing.T) {
	tests := []struct {
		p      Primitive
		expect bool
	}{
		{String(""), false},
		{String("a"), true},
		{Int(0), false},
		{Int(-1), true},
		{Bool(false), false},
		{Bool(true), true},
	}
	for _, tt := range tests {
		if got := tt.p.Truthy(); got != tt.expect {
			t.Errorf("%v.Truthy() = %v, want %v", tt.p, got, tt.expect)
		}
	}
}

func TestWasmValueJSONString(t *testing.T) {
	tests := []struct {
		name   string
		value  WasmValue
		expect string
	}{
		{"null", Null(), "null"},
		{"string escapes", WasmStringValue("a\"b\\c\nd\re\tf"), `"a\"b\\c\nd\re\tf"`},
		{"control char", WasmStringValue("\x01"), `"\u0001"`},
		{"unicode", WasmStringValue("héllo ✓"), `"héllo ✓"`},
		{"int", WasmIntValue(-42), "-42"},
		{"whole double", WasmDoubleValue(1.0), "1"},
		{"fraction", WasmDoubleValue(1.5), "1.5"},
		{"twelve digits", WasmDoubleValue(0.1234567890123456), "0.123456789012"},
		{"negative zero", WasmDoubleValue(-0.0000000000001), "0"},
		{"bool", WasmBoolValue(true), "true"},
		{"array", WasmArrayValue(WasmIntValue(1), WasmStringValue("x"), Null()), `[1,"x",null]`},
		{"sorted object", WasmObjectValue(map[string]WasmValue{
			"b": WasmStringValue("x"),
			"a": WasmIntValue(1),
		}), `{"a":1,"b":"x"}`},
		{"nested", WasmObjectValue(map[string]WasmValue{
			"z": WasmArrayValue(WasmObjectValue(map[string]WasmValue{"y": WasmBoolValue(false), "x": Null()})),
		}), `{"z":[{"x":null,"y":false}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.JSONString(); got != tt.expect {
				t.Errorf("JSONString() = %s, want %s", got, tt.expect)
			}
		})
	}
}

func TestWasmValueJSONIsValid(t *testing.T) {
	v := WasmObjectValue(map[string]WasmValue{
		"text":  WasmStringValue("line\nbreak \"quoted\" \x02"),
		"ratio": WasmDoubleValue(2.25),
		"list":  WasmArrayValue(WasmBoolValue(true), WasmIntValue(3)),
	})
	var decoded map[string]any
	if err := json.Unmarshal([]byte(v.JSONString()), &decoded); err != nil {
		t.Fatalf("JSONString() produced invalid JSON: %v", err)
	}
	if decoded["text"] != "line\nbreak \"quoted\" \x02" {
		t.Errorf("text = %q", decoded["text"])
	}
}

func TestWasmPayloadRoundTrip(t *testing.T) {
	v := WasmObjectValue(map[string]WasmValue{
		"a": WasmIntValue(1),
		"b": WasmStringValue("x"),
	})
	if got := v.JSONString(); got != `{"a":1,"b":"x"}` {
		t.Fatalf("JSONString() = %s, want {\"a\":1,\"b\":\"x\"}", got)
	}

	raw, err := base64.StdEncoding.DecodeString(v.Base64EncodedJSON())
	if err != nil {
		t.Fatalf("Base64EncodedJSON() is not valid base64: %v", err)
	}
	if string(raw) != `{"a":1,"b":"x"}` {
		t.Errorf("decoded payload = %s, want {\"a\":1,\"b\":\"x\"}", raw)
	}
}

func TestWasmValueOf(t *testing.T) {
	v, err := WasmValueOf(map[string]any{
		"level": 2,
		"speed": 1.25,
		"tags":  []any{"a", true, nil},
	})
	if err != nil {
		t.Fatalf("WasmValueOf() error: %v", err)
	}
	if got := v.JSONString(); got != `{"level":2,"speed":1.25,"tags":["a",true,null]}` {
		t.Errorf("JSONString() = %s", got)
	}

	if _, err := WasmValueOf(struct{}{}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestTimerClamping(t *testing.T) {
	if got := After(-5, Toggle("x")); got.Seconds != 0 || got.Kind != Timeout {
		t.Errorf("After(-5) = %+v, want timeout of 0", got)
	}
	if got := Every(0, Toggle("x")); got.Seconds != 1 || got.Kind != Interval {
		t.Errorf("Every(0) = %+v, want interval of 1", got)
	}
	if got := Every(-3, Toggle("x")); got.Seconds != 1 {
		t.Errorf("Every(-3).Seconds = %v, want 1", got.Seconds)
	}
	if got := After(2.5, Toggle("x")).Milliseconds(); got != 2500 {
		t.Errorf("Milliseconds() = %d, want 2500", got)
	}
}

func TestMergingStates(t *testing.T) {
	p := Program{States: []StateDefinition{
		State("a", 1),
		State("b", "x"),
	}}
	q := Program{States: []StateDefinition{
		State("c", true),
		State("a", 9),
	}}

	merged := p.Merging(q)
	expect := []StateDefinition{
		State("a", 9),
		State("b", "x"),
		State("c", true),
	}
	if !reflect.DeepEqual(merged.States, expect) {
		t.Errorf("Merging().States = %v, want %v", merged.States, expect)
	}
}

func TestMergingIdempotentStates(t *testing.T) {
	p := Program{}.
		WithState(State("open", false), State("count", 0)).
		On("btn", Click, Toggle("open"))

	merged := p.Merging(p)
	if !reflect.DeepEqual(merged.States, p.DedupedStates()) {
		t.Errorf("p.Merging(p).States = %v, want %v", merged.States, p.States)
	}
	if len(merged.Events) != 2 {
		t.Errorf("len(Events) = %d, want 2 (no dedup)", len(merged.Events))
	}
}

func TestMergingConcatenatesEventsAndTimers(t *testing.T) {
	p := Program{}.On("a", Click, Toggle("x")).After(1, Navigate("/p"))
	q := Program{}.On("b", Submit, Increment("n", 1)).Every(2, Decrement("n", 1))

	merged := p.Merging(q)
	wantEvents := append(append([]EventBinding{}, p.Events...), q.Events...)
	if !reflect.DeepEqual(merged.Events, wantEvents) {
		t.Errorf("Events = %v, want %v", merged.Events, wantEvents)
	}
	wantTimers := append(append([]Timer{}, p.Timers...), q.Timers...)
	if !reflect.DeepEqual(merged.Timers, wantTimers) {
		t.Errorf("Timers = %v, want %v", merged.Timers, wantTimers)
	}
}

func TestBuildersDoNotAlias(t *testing.T) {
	base := Program{States: make([]StateDefinition, 0, 4)}
	a := base.WithState(State("a", 1))
	b := base.WithState(State("b", 2))
	if a.States[0].Key != "a" || b.States[0].Key != "b" {
		t.Errorf("builders share backing array: a=%v b=%v", a.States, b.States)
	}
}

func TestIsEmpty(t *testing.T) {
	if !(Program{}).IsEmpty() {
		t.Error("zero Program should be empty")
	}
	if (Program{}).After(1, Toggle("x")).IsEmpty() {
		t.Error("program with a timer should not be empty")
	}
}

func TestParseEvent(t *testing.T) {
	for _, name := range []string{"click", "input", "change", "submit"} {
		if _, err := ParseEvent(name); err != nil {
			t.Errorf("ParseEvent(%q) error: %v", name, err)
		}
	}
	if _, err := ParseEvent("hover"); err == nil {
		t.Error("ParseEvent(hover) should fail")
	}
}

func TestWasmValueOfUnsigned(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		kind   WasmValueKind
		expect string
	}{
		{"small uint", uint(7), WasmInt, "7"},
		{"max int64 as uint64", uint64(math.MaxInt64), WasmInt, "9223372036854775807"},
		{"above max int64", uint64(math.MaxInt64) + 1, WasmDouble, "9223372036854775808"},
		{"max uint64", uint64(math.MaxUint64), WasmDouble, "18446744073709551616"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := WasmValueOf(tt.value)
			if err != nil {
				t.Fatalf("WasmValueOf() error = %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
			if got := v.JSONString(); got != tt.expect {
				t.Errorf("JSONString() = %s, want %s", got, tt.expect)
			}
		})
	}
}
