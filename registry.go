package axiom

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/axiom/lib/classhash"
)

// ClassRegistry allocates deterministic class names. See lib/classhash.
type ClassRegistry = classhash.Registry

// NewClassRegistry creates a registry whose classes start with prefix.
func NewClassRegistry(prefix string, opts ...classhash.Option) *ClassRegistry {
	return classhash.New(prefix, opts...)
}

// Class returns the process-wide class for an arbitrary declaration, such
// as Class("grid-template-columns", "1fr 2fr").
func Class(property, value string) string {
	return classhash.ClassName(property, value)
}

// StartingStyleClass returns the process-wide class for a declaration that
// applies inside @starting-style.
func StartingStyleClass(property, value string) string {
	return classhash.StartingStyleClassName(property, value)
}

// StyleSheet renders a <style> element with the rules of the given
// registries. With no arguments it renders the process-wide registries.
// Render it after the components that allocate classes.
func StyleSheet(registries ...*ClassRegistry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		regs := registries
		if len(regs) == 0 {
			regs = []*ClassRegistry{classhash.Arbitrary, classhash.StartingStyle}
		}
		css := ""
		for _, r := range regs {
			css += r.CSS()
		}
		if css == "" {
			return nil
		}
		_, err := io.WriteString(w, "<style>"+css+"</style>")
		return err
	})
}
