// Package classhash allocates deterministic, content-addressed CSS class
// names for arbitrary style declarations.
//
// A declaration is canonicalised as "property:value" (property trimmed and
// lower-cased, value trimmed with inner whitespace collapsed), hashed with
// 64-bit FNV-1a and rendered as the registry prefix followed by 16 lowercase
// hex digits. When two declarations hash to the same class the newcomer is
// re-hashed as "declaration#1", "declaration#2", ... until a free class is
// found. Allocations are memoised in both directions for the life of the
// registry and are never overwritten.
package classhash

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"sync"
)

// Registry is a bidirectional declaration/class table. It is safe for
// concurrent use.
type Registry struct {
	prefix   string
	starting bool
	hash     func(string) uint64

	mu      sync.Mutex
	classes map[string]string // declaration -> class
	decls   map[string]string // class -> declaration
}

// Option configures a Registry.
type Option func(*Registry)

// WithStartingStyle marks the registry's rules as @starting-style rules in CSS().
func WithStartingStyle() Option {
	return func(r *Registry) {
		r.starting = true
	}
}

// withHash replaces the hash function. Tests use it to force collisions.
func withHash(fn func(string) uint64) Option {
	return func(r *Registry) {
		r.hash = fn
	}
}

// New creates an empty registry whose classes start with prefix.
func New(prefix string, opts ...Option) *Registry {
	r := &Registry{
		prefix:  prefix,
		hash:    fnv1a,
		classes: make(map[string]string),
		decls:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prefix returns the class prefix.
func (r *Registry) Prefix() string {
	return r.prefix
}

// ClassName returns the class allocated to the declaration, allocating one
// on first use.
func (r *Registry) ClassName(property, value string) string {
	decl := Canonical(property, value)

	r.mu.Lock()
	defer r.mu.Unlock()

	if class, ok := r.classes[decl]; ok {
		return class
	}

	class := r.render(decl)
	for n := 1; ; n++ {
		if _, taken := r.decls[class]; !taken {
			break
		}
		class = r.render(fmt.Sprintf("%s#%d", decl, n))
	}

	r.classes[decl] = class
	r.decls[class] = decl
	return class
}

// Declaration returns the canonical declaration behind class.
func (r *Registry) Declaration(class string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	decl, ok := r.decls[class]
	return decl, ok
}

// Len returns the number of allocated classes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.classes)
}

// cssEscaper hex-escapes the characters that would let a declaration end
// its rule or the enclosing <style> element.
var cssEscaper = strings.NewReplacer(
	"<", `\3c `,
	">", `\3e `,
	"{", `\7b `,
	"}", `\7d `,
	";", `\3b `,
)

// CSS renders one rule per allocated class, sorted by class name.
// Declarations are escaped, so a value cannot break out of its rule.
func (r *Registry) CSS() string {
	r.mu.Lock()
	classes := make([]string, 0, len(r.decls))
	for class := range r.decls {
		classes = append(classes, class)
	}
	slices.Sort(classes)

	var sb strings.Builder
	for _, class := range classes {
		rule := "." + class + "{" + cssEscaper.Replace(r.decls[class]) + "}"
		if r.starting {
			rule = "@starting-style{" + rule + "}"
		}
		sb.WriteString(rule)
		sb.WriteByte('\n')
	}
	r.mu.Unlock()

	return sb.String()
}

func (r *Registry) render(input string) string {
	return fmt.Sprintf("%s%016x", r.prefix, r.hash(input))
}

// Canonical returns the canonical "property:value" form of a declaration.
func Canonical(property, value string) string {
	return strings.ToLower(strings.TrimSpace(property)) + ":" + strings.Join(strings.Fields(value), " ")
}

func fnv1a(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// Process-wide registries.
var (
	Arbitrary     = New("ax-")
	StartingStyle = New("axs-", WithStartingStyle())
)

// ClassName allocates from the Arbitrary registry.
func ClassName(property, value string) string {
	return Arbitrary.ClassName(property, value)
}

// StartingStyleClassName allocates from the StartingStyle registry.
func StartingStyleClassName(property, value string) string {
	return StartingStyle.ClassName(property, value)
}
