package ethdeploy

import "sort"

// DependencyRegistry records which libraries each contract may link. It
// replaces a compile-time "depends on" relation with a runtime check: when
// a registry is attached to a linker (see WithRegistry), every library
// added to that linker must appear in the declared set of the linker's
// contract.
//
// A registry is expected to be populated once, typically alongside the
// artifacts it describes, before being shared across linkers. Declare is
// not safe for use concurrently with lookups.
type DependencyRegistry struct {
	deps map[string]map[string]bool
}

// NewDependencyRegistry creates an empty registry.
func NewDependencyRegistry() *DependencyRegistry {
	return &DependencyRegistry{
		deps: make(map[string]map[string]bool),
	}
}

// Declare adds libraries to the declared linkable set of a contract.
func (r *DependencyRegistry) Declare(contract string, libraries ...string) {
	set, ok := r.deps[contract]
	if !ok {
		set = make(map[string]bool)
		r.deps[contract] = set
	}
	for _, name := range libraries {
		set[name] = true
	}
}

// Declared returns the sorted set of libraries declared for a contract.
func (r *DependencyRegistry) Declared(contract string) []string {
	set := r.deps[contract]
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Allows returns true if the contract declares the library as linkable.
// Contracts with no declaration have an empty linkable set.
func (r *DependencyRegistry) Allows(contract, library string) bool {
	return r.deps[contract][library]
}
