package classhash

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidSnapshot is returned when snapshot bytes cannot be restored.
var ErrInvalidSnapshot = errors.New("classhash: invalid snapshot")

type snapshot struct {
	Prefix  string  `msgpack:"prefix"`
	Entries []entry `msgpack:"entries"`
}

type entry struct {
	Declaration string `msgpack:"d"`
	Class       string `msgpack:"c"`
}

// Conflict describes a snapshot entry that was not restored because the
// registry already holds a different mapping for its declaration or class.
type Conflict struct {
	Declaration string
	Class       string
	Existing    string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s -> %s (registry has %s)", c.Declaration, c.Class, c.Existing)
}

// Snapshot serialises the registry's allocations with msgpack so a later
// build can restore them and keep class names stable.
func (r *Registry) Snapshot() ([]byte, error) {
	r.mu.Lock()
	snap := snapshot{Prefix: r.prefix, Entries: make([]entry, 0, len(r.classes))}
	for decl, class := range r.classes {
		snap.Entries = append(snap.Entries, entry{Declaration: decl, Class: class})
	}
	r.mu.Unlock()

	slices.SortFunc(snap.Entries, func(a, b entry) int {
		return strings.Compare(a.Declaration, b.Declaration)
	})

	return msgpack.Marshal(&snap)
}

// Restore loads allocations from a snapshot. Existing mappings are never
// overwritten: entries that disagree with the registry are skipped and
// returned as conflicts. A snapshot with a malformed entry is rejected
// whole and leaves the registry unchanged.
func (r *Registry) Restore(data []byte) ([]Conflict, error) {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Prefix != r.prefix {
		return nil, fmt.Errorf("%w: prefix %q does not match registry prefix %q", ErrInvalidSnapshot, snap.Prefix, r.prefix)
	}

	for _, e := range snap.Entries {
		if !strings.HasPrefix(e.Class, r.prefix) || e.Declaration == "" {
			return nil, fmt.Errorf("%w: malformed entry %q -> %q", ErrInvalidSnapshot, e.Declaration, e.Class)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var conflicts []Conflict
	for _, e := range snap.Entries {
		if class, ok := r.classes[e.Declaration]; ok {
			if class != e.Class {
				conflicts = append(conflicts, Conflict{Declaration: e.Declaration, Class: e.Class, Existing: class})
			}
			continue
		}
		if decl, ok := r.decls[e.Class]; ok {
			conflicts = append(conflicts, Conflict{Declaration: e.Declaration, Class: e.Class, Existing: decl})
			continue
		}
		r.classes[e.Declaration] = e.Class
		r.decls[e.Class] = e.Declaration
	}
	return conflicts, nil
}
