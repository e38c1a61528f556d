// Package codec implements the delimiter-safe wire format carried by the
// data-ax-states and data-ax-on-<event> attributes.
//
// A payload is a comma-joined list of tokens; a token is a pipe-joined list
// of fields. Every free-text field (state keys, string values, paths, canvas
// ids, export names, JSON payloads) is standard base64, so neither delimiter
// can appear inside a field. Only the tag and numeric fields are clear text.
//
//	states:  b64(key)|kind|value            kind is s, i or b
//	actions: set|b64(key)|kind|value
//	         inc|b64(key)|by
//	         dec|b64(key)|by
//	         tog|b64(key)
//	         nav|b64(path)
//	         wasm|b64(canvas)|b64(export)|b64(json)
//
// The browser decoder emitted by lib/generator and the Go decoder in this
// package implement the same rules; the arity table in Grammar feeds both.
package codec

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pthm/axiom/lib/program"
)

const (
	tokenSep = ","
	fieldSep = "|"
)

// Action tags.
const (
	TagSet        = "set"
	TagIncrement  = "inc"
	TagDecrement  = "dec"
	TagToggle     = "tog"
	TagNavigate   = "nav"
	TagInvokeWasm = "wasm"
)

// StateArity is the field count of a state token.
const StateArity = 3

// Grammar maps each action tag to its exact field count, tag included.
var Grammar = []struct {
	Tag    string
	Fields int
}{
	{TagSet, 4},
	{TagIncrement, 3},
	{TagDecrement, 3},
	{TagToggle, 2},
	{TagNavigate, 2},
	{TagInvokeWasm, 4},
}

func arity(tag string) (int, bool) {
	for _, g := range Grammar {
		if g.Tag == tag {
			return g.Fields, true
		}
	}
	return 0, false
}

// EncodeStates encodes state declarations for data-ax-states. Repeated keys
// collapse: the first appearance fixes the order, the last fixes the value.
func EncodeStates(states []program.StateDefinition) string {
	deduped := program.DedupStates(states)
	tokens := make([]string, 0, len(deduped))
	for _, s := range deduped {
		tokens = append(tokens, join(b64(s.Key), encodePrimitive(s.Initial)))
	}
	return strings.Join(tokens, tokenSep)
}

// EncodeActions encodes actions for data-ax-on-<event>, in order.
func EncodeActions(actions []program.Action) string {
	tokens := make([]string, 0, len(actions))
	for _, a := range actions {
		if tok, ok := EncodeAction(a); ok {
			tokens = append(tokens, tok)
		}
	}
	return strings.Join(tokens, tokenSep)
}

// EncodeAction encodes a single action token. ok is false for an unknown
// action kind.
func EncodeAction(a program.Action) (string, bool) {
	switch a.Kind {
	case program.ActionSet:
		return join(TagSet, b64(a.Key), encodePrimitive(a.Value)), true
	case program.ActionIncrement:
		return join(TagIncrement, b64(a.Key), strconv.Itoa(a.By)), true
	case program.ActionDecrement:
		return join(TagDecrement, b64(a.Key), strconv.Itoa(a.By)), true
	case program.ActionToggle:
		return join(TagToggle, b64(a.Key)), true
	case program.ActionNavigate:
		return join(TagNavigate, b64(a.Path)), true
	case program.ActionInvokeWasm:
		return join(TagInvokeWasm, b64(a.Canvas), b64(a.Export), a.Payload.Base64EncodedJSON()), true
	default:
		return "", false
	}
}

// AppendTokens joins two encoded payloads, skipping empty sides.
func AppendTokens(existing, more string) string {
	switch {
	case existing == "":
		return more
	case more == "":
		return existing
	default:
		return existing + tokenSep + more
	}
}

func encodePrimitive(p program.Primitive) string {
	switch p.Kind() {
	case program.KindInt:
		i, _ := p.IntValue()
		return join("i", strconv.Itoa(i))
	case program.KindBool:
		b, _ := p.BoolValue()
		if b {
			return join("b", "1")
		}
		return join("b", "0")
	default:
		s, _ := p.StringValue()
		return join("s", b64(s))
	}
}

func join(fields ...string) string {
	return strings.Join(fields, fieldSep)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
