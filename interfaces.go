package axiom

import (
	"github.com/pthm/axiom/lib/program"
)

// ProgramItem is one entry passed to NewProgram: a state declaration, an
// element binding, a timer, or a Group of items.
//
// Items are plain values, so conditional and repeated entries are built
// with ordinary control flow:
//
//	items := []axiom.ProgramItem{axiom.Declare(axiom.State("step", 0))}
//	for _, id := range buttons {
//	    items = append(items, axiom.On(id, axiom.Click, axiom.Increment("step", 1)))
//	}
//	if autoplay {
//	    items = append(items, axiom.Every(2, axiom.Increment("step", 1)))
//	}
//	p := axiom.NewProgram(axiom.Group(items...))
type ProgramItem interface {
	apply(p *Program)
}

type itemFunc func(p *Program)

func (f itemFunc) apply(p *Program) { f(p) }

// Declare adds state declarations.
func Declare(states ...StateDefinition) ProgramItem {
	return itemFunc(func(p *Program) {
		*p = p.WithState(states...)
	})
}

// On binds action to event on the element with the given id.
func On(elementID string, event Event, action Action) ProgramItem {
	return itemFunc(func(p *Program) {
		*p = p.On(elementID, event, action)
	})
}

// After runs action once after seconds. Negative delays clamp to 0.
func After(seconds float64, action Action) ProgramItem {
	return itemFunc(func(p *Program) {
		*p = p.After(seconds, action)
	})
}

// Every runs action every seconds. Periods below 1 clamp to 1.
func Every(seconds float64, action Action) ProgramItem {
	return itemFunc(func(p *Program) {
		*p = p.Every(seconds, action)
	})
}

// Group flattens items in order.
func Group(items ...ProgramItem) ProgramItem {
	return itemFunc(func(p *Program) {
		for _, item := range items {
			if item != nil {
				item.apply(p)
			}
		}
	})
}

// Merge appends another program using Program.Merging.
func Merge(other Program) ProgramItem {
	return itemFunc(func(p *Program) {
		*p = p.Merging(other)
	})
}

// ParseEvent validates an event name.
func ParseEvent(s string) (Event, error) {
	return program.ParseEvent(s)
}
