package program

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// WasmValueKind identifies the shape of a WasmValue.
type WasmValueKind uint8

const (
	WasmNull WasmValueKind = iota
	WasmString
	WasmInt
	WasmDouble
	WasmBool
	WasmArray
	WasmObject
)

// WasmValue is a JSON-like tree passed to WebAssembly exports. The zero value
// is null.
type WasmValue struct {
	kind   WasmValueKind
	s      string
	i      int64
	f      float64
	b      bool
	array  []WasmValue
	object map[string]WasmValue
}

// Null returns the null value.
func Null() WasmValue { return WasmValue{} }

// WasmStringValue wraps a string.
func WasmStringValue(s string) WasmValue { return WasmValue{kind: WasmString, s: s} }

// WasmIntValue wraps an integer.
func WasmIntValue(i int64) WasmValue { return WasmValue{kind: WasmInt, i: i} }

// WasmDoubleValue wraps a floating point number.
func WasmDoubleValue(f float64) WasmValue { return WasmValue{kind: WasmDouble, f: f} }

// WasmBoolValue wraps a bool.
func WasmBoolValue(b bool) WasmValue { return WasmValue{kind: WasmBool, b: b} }

// WasmArrayValue wraps a list of values. The slice is copied.
func WasmArrayValue(items ...WasmValue) WasmValue {
	return WasmValue{kind: WasmArray, array: append([]WasmValue(nil), items...)}
}

// WasmObjectValue wraps a map of values. The map is copied.
func WasmObjectValue(fields map[string]WasmValue) WasmValue {
	m := make(map[string]WasmValue, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return WasmValue{kind: WasmObject, object: m}
}

// WasmValueOf converts a decoded JSON or YAML tree (nil, bool, string, any
// integer or float type, []any, map[string]any) into a WasmValue.
func WasmValueOf(v any) (WasmValue, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case WasmValue:
		return x, nil
	case string:
		return WasmStringValue(x), nil
	case bool:
		return WasmBoolValue(x), nil
	case int:
		return WasmIntValue(int64(x)), nil
	case int8:
		return WasmIntValue(int64(x)), nil
	case int16:
		return WasmIntValue(int64(x)), nil
	case int32:
		return WasmIntValue(int64(x)), nil
	case int64:
		return WasmIntValue(x), nil
	case uint:
		return wasmUintValue(uint64(x)), nil
	case uint8:
		return WasmIntValue(int64(x)), nil
	case uint16:
		return WasmIntValue(int64(x)), nil
	case uint32:
		return WasmIntValue(int64(x)), nil
	case uint64:
		return wasmUintValue(x), nil
	case float32:
		return WasmDoubleValue(float64(x)), nil
	case float64:
		return WasmDoubleValue(x), nil
	case []any:
		items := make([]WasmValue, 0, len(x))
		for i, item := range x {
			wv, err := WasmValueOf(item)
			if err != nil {
				return Null(), fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, wv)
		}
		return WasmValue{kind: WasmArray, array: items}, nil
	case map[string]any:
		fields := make(map[string]WasmValue, len(x))
		for k, item := range x {
			wv, err := WasmValueOf(item)
			if err != nil {
				return Null(), fmt.Errorf("%s: %w", k, err)
			}
			fields[k] = wv
		}
		return WasmValue{kind: WasmObject, object: fields}, nil
	default:
		return Null(), fmt.Errorf("unsupported wasm value type %T", v)
	}
}

// Kind reports the value's shape.
func (v WasmValue) Kind() WasmValueKind { return v.kind }

// IsNull reports whether v is null.
func (v WasmValue) IsNull() bool { return v.kind == WasmNull }

// JSONString renders v as canonical JSON: object keys sorted, doubles with at
// most 12 fractional digits and no trailing zeros, NaN and infinities as null.
func (v WasmValue) JSONString() string {
	var sb strings.Builder
	v.writeJSON(&sb)
	return sb.String()
}

// Base64EncodedJSON is the attribute-safe form of JSONString.
func (v WasmValue) Base64EncodedJSON() string {
	return base64.StdEncoding.EncodeToString([]byte(v.JSONString()))
}

func (v WasmValue) writeJSON(sb *strings.Builder) {
	switch v.kind {
	case WasmString:
		writeJSONString(sb, v.s)
	case WasmInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case WasmDouble:
		sb.WriteString(formatDouble(v.f))
	case WasmBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case WasmArray:
		sb.WriteByte('[')
		for i, item := range v.array {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeJSON(sb)
		}
		sb.WriteByte(']')
	case WasmObject:
		keys := make([]string, 0, len(v.object))
		for k := range v.object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSONString(sb, k)
			sb.WriteByte(':')
			v.object[k].writeJSON(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

// wasmUintValue falls back to a double above math.MaxInt64.
func wasmUintValue(u uint64) WasmValue {
	if u > math.MaxInt64 {
		return WasmDoubleValue(float64(u))
	}
	return WasmIntValue(int64(u))
}

func formatDouble(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'f', 12, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func writeJSONString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
