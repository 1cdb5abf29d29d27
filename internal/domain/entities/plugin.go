// Package entities contains domain entities for the mobilesync domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"fmt"
	"sort"

	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// PluginDeclaration is one desired plugin: its name, the raw version
// specifier as written by the user, and an opaque configuration bag that is
// handed to the toolchain uninterpreted.
type PluginDeclaration struct {
	Config  map[string]any
	Name    string
	Version string
}

// IsLocalPath reports whether the plugin is installed from a file:// path.
// Local path plugins bypass the toolchain's dependency resolver.
func (d PluginDeclaration) IsLocalPath() bool {
	return values.IsLocalPath(d.Version)
}

// Specifier classifies the raw version.
func (d PluginDeclaration) Specifier() (values.VersionSpecifier, error) {
	return values.ParseVersionSpecifier(d.Version)
}

// DuplicatePluginError indicates the same plugin was declared twice.
type DuplicatePluginError struct {
	Name string
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q declared more than once", e.Name)
}

// PluginSet is the desired plugin map, keyed by plugin name.
//
// Invariants:
// - Names are valid PluginNames
// - Names are unique
type PluginSet struct {
	items map[string]PluginDeclaration
}

// NewPluginSet builds a set from declarations.
func NewPluginSet(decls ...PluginDeclaration) (PluginSet, error) {
	set := PluginSet{items: make(map[string]PluginDeclaration, len(decls))}
	for _, d := range decls {
		if err := set.Add(d); err != nil {
			return PluginSet{}, err
		}
	}
	return set, nil
}

// MustNewPluginSet builds a set or panics
func MustNewPluginSet(decls ...PluginDeclaration) PluginSet {
	set, err := NewPluginSet(decls...)
	if err != nil {
		panic(err)
	}
	return set
}

// Add inserts a declaration, rejecting invalid and duplicate names.
func (s *PluginSet) Add(d PluginDeclaration) error {
	name, err := values.NewPluginName(d.Name)
	if err != nil {
		return err
	}
	d.Name = name.String()

	if s.items == nil {
		s.items = make(map[string]PluginDeclaration)
	}
	if _, exists := s.items[d.Name]; exists {
		return &DuplicatePluginError{Name: d.Name}
	}
	s.items[d.Name] = d
	return nil
}

// Get returns the declaration for name.
func (s PluginSet) Get(name string) (PluginDeclaration, bool) {
	d, ok := s.items[name]
	return d, ok
}

// Has reports whether name is declared.
func (s PluginSet) Has(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Len returns the number of declarations.
func (s PluginSet) Len() int {
	return len(s.items)
}

// Names returns the declared names in lexical order.
func (s PluginSet) Names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the declarations ordered by name.
func (s PluginSet) Sorted() []PluginDeclaration {
	out := make([]PluginDeclaration, 0, len(s.items))
	for _, name := range s.Names() {
		out = append(out, s.items[name])
	}
	return out
}

// Partition splits the set into local path plugins and everything else.
func (s PluginSet) Partition() (local, remaining PluginSet) {
	local = PluginSet{items: make(map[string]PluginDeclaration)}
	remaining = PluginSet{items: make(map[string]PluginDeclaration)}
	for name, d := range s.items {
		if d.IsLocalPath() {
			local.items[name] = d
		} else {
			remaining.items[name] = d
		}
	}
	return local, remaining
}
