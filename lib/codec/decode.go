package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pthm/axiom/lib/program"
)

// maxSafeInteger mirrors Number.MAX_SAFE_INTEGER; larger numerals are
// rejected by the browser decoder and therefore here too.
const maxSafeInteger = 1<<53 - 1

// DecodeStates parses a data-ax-states payload. Malformed tokens are dropped;
// the result is never an error.
func DecodeStates(payload string) []program.StateDefinition {
	var out []program.StateDefinition
	for _, tok := range strings.Split(payload, tokenSep) {
		if tok == "" {
			continue
		}
		f := strings.Split(tok, fieldSep)
		if len(f) != StateArity {
			continue
		}
		key, ok := decodeB64(f[0])
		if !ok {
			continue
		}
		value, ok := decodePrimitive(f[1], f[2])
		if !ok {
			continue
		}
		out = append(out, program.StateDefinition{Key: key, Initial: value})
	}
	return out
}

// DecodeActions parses a data-ax-on-<event> payload. Tokens with an unknown
// tag, the wrong field count, bad base64, bad numbers or unparsable JSON are
// dropped; the remaining tokens keep their order.
func DecodeActions(payload string) []program.Action {
	var out []program.Action
	for _, tok := range strings.Split(payload, tokenSep) {
		if tok == "" {
			continue
		}
		if a, ok := decodeAction(strings.Split(tok, fieldSep)); ok {
			out = append(out, a)
		}
	}
	return out
}

func decodeAction(f []string) (program.Action, bool) {
	want, known := arity(f[0])
	if !known || len(f) != want {
		return program.Action{}, false
	}

	switch f[0] {
	case TagSet:
		key, ok := decodeB64(f[1])
		if !ok {
			return program.Action{}, false
		}
		value, ok := decodePrimitive(f[2], f[3])
		if !ok {
			return program.Action{}, false
		}
		return program.Set(key, value), true

	case TagIncrement, TagDecrement:
		key, ok := decodeB64(f[1])
		if !ok {
			return program.Action{}, false
		}
		by, ok := decodeInt(f[2])
		if !ok {
			return program.Action{}, false
		}
		if f[0] == TagIncrement {
			return program.Increment(key, by), true
		}
		return program.Decrement(key, by), true

	case TagToggle:
		key, ok := decodeB64(f[1])
		if !ok {
			return program.Action{}, false
		}
		return program.Toggle(key), true

	case TagNavigate:
		path, ok := decodeB64(f[1])
		if !ok {
			return program.Action{}, false
		}
		return program.Navigate(path), true

	case TagInvokeWasm:
		canvas, ok := decodeB64(f[1])
		if !ok {
			return program.Action{}, false
		}
		export, ok := decodeB64(f[2])
		if !ok {
			return program.Action{}, false
		}
		raw, ok := decodeB64(f[3])
		if !ok {
			return program.Action{}, false
		}
		payload, ok := decodeJSON(raw)
		if !ok {
			return program.Action{}, false
		}
		return program.InvokeWasm(canvas, export, payload), true
	}
	return program.Action{}, false
}

func decodePrimitive(kind, raw string) (program.Primitive, bool) {
	switch kind {
	case "s":
		s, ok := decodeB64(raw)
		if !ok {
			return program.Primitive{}, false
		}
		return program.String(s), true
	case "i":
		i, ok := decodeInt(raw)
		if !ok {
			return program.Primitive{}, false
		}
		return program.Int(i), true
	case "b":
		switch raw {
		case "1":
			return program.Bool(true), true
		case "0":
			return program.Bool(false), true
		}
	}
	return program.Primitive{}, false
}

// decodeInt accepts an optional minus sign followed by ASCII digits, within
// the safe integer range.
func decodeInt(s string) (int, bool) {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > maxSafeInteger || n < -maxSafeInteger {
		return 0, false
	}
	return int(n), true
}

// decodeB64 follows atob's forgiving decode: ASCII whitespace is ignored and
// padding is optional. Invalid UTF-8 is replaced the way TextDecoder does.
func decodeB64(s string) (string, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
	if len(s)%4 == 0 {
		s = strings.TrimSuffix(strings.TrimSuffix(s, "="), "=")
	}
	if len(s)%4 == 1 {
		return "", false
	}
	raw, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return "", false
	}
	return strings.ToValidUTF8(string(raw), "�"), true
}

func decodeJSON(raw string) (program.WasmValue, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return program.Null(), false
	}
	if dec.More() {
		return program.Null(), false
	}
	v, err := program.WasmValueOf(normalizeNumbers(tree))
	if err != nil {
		return program.Null(), false
	}
	return v, true
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		if math.IsInf(f, 0) {
			return nil
		}
		return f
	case []any:
		for i := range x {
			x[i] = normalizeNumbers(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeNumbers(x[k])
		}
		return x
	default:
		return v
	}
}
