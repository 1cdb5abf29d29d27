package values

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultKnownPlatforms is the platform universe managed when no override is
// configured. Installed platforms outside the universe are never removed.
var DefaultKnownPlatforms = []string{"android", "browser", "ios"}

// PlatformSet is an unordered set of platform identifiers.
// The zero value is an empty set ready to use with Add.
type PlatformSet struct {
	items map[string]struct{}
}

// NewPlatformSet builds a set from names, trimming and lowercasing each.
// Empty names are rejected.
func NewPlatformSet(names ...string) (PlatformSet, error) {
	set := PlatformSet{items: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if err := set.Add(name); err != nil {
			return PlatformSet{}, err
		}
	}
	return set, nil
}

// MustNewPlatformSet builds a set or panics (for tests and constants)
func MustNewPlatformSet(names ...string) PlatformSet {
	set, err := NewPlatformSet(names...)
	if err != nil {
		panic(err)
	}
	return set
}

// Add inserts a platform name.
func (s *PlatformSet) Add(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if s.items == nil {
		s.items = make(map[string]struct{})
	}
	s.items[name] = struct{}{}
	return nil
}

// Has reports whether name is in the set.
func (s PlatformSet) Has(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Len returns the number of platforms.
func (s PlatformSet) Len() int {
	return len(s.items)
}

// Sorted returns the platforms in lexical order.
func (s PlatformSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for name := range s.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
