package ethdeploy

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// libraryEntry is one library added to a linker, either resolved to a known
// address or pending deployment of its own bytecode.
type libraryEntry struct {
	name     string
	resolved bool
	address  common.Address // valid when resolved
	bytecode *Bytecode      // valid when pending
}

// Linker accumulates libraries against one target contract and validates
// the whole dependency set in a single Link call.
//
// Library and DeployLibrary never fail; all validation is deferred to Link
// so linking errors only need to be handled in one place. A Linker is
// configured and consumed by one logical owner; it is not safe for
// concurrent mutation.
type Linker struct {
	contract    string
	bytecode    *Bytecode
	encodedArgs []byte
	libraries   []libraryEntry
	registry    *DependencyRegistry
	attachErr   error // first registry violation, reported by Link
	consumed    bool
}

// NewLinker creates a linker for the given contract artifact. It fails with
// ErrEmptyBytecode if the artifact has no bytecode, and with a
// ConstructorError if constructor arguments (see WithConstructorArgs) do
// not encode against the artifact's ABI.
func NewLinker(artifact *Artifact, opts ...LinkerOption) (*Linker, error) {
	if artifact == nil || artifact.Bytecode == nil || artifact.Bytecode.IsEmpty() {
		return nil, ErrEmptyBytecode
	}

	var cfg linkerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	encodedArgs, err := encodeConstructorArgs(artifact.ABI, cfg.constructorArgs)
	if err != nil {
		return nil, &ConstructorError{Err: err}
	}

	return &Linker{
		contract:    artifact.Name,
		bytecode:    artifact.Bytecode.Clone(),
		encodedArgs: encodedArgs,
		registry:    cfg.registry,
	}, nil
}

// Library adds a library with a known deployed address. The address is
// substituted into the contract bytecode by Link.
func (l *Linker) Library(name string, address common.Address) *Linker {
	return l.add(libraryEntry{name: name, resolved: true, address: address})
}

// DeployLibrary adds a library that must be deployed before the contract so
// its address can be linked in. The library's bytecode must itself be fully
// linked.
func (l *Linker) DeployLibrary(name string, bytecode *Bytecode) *Linker {
	if bytecode == nil {
		bytecode = &Bytecode{}
	}
	return l.add(libraryEntry{name: name, bytecode: bytecode.Clone()})
}

// add appends an entry to the dependency set. The registry check happens
// here, where the offending call site is, but the violation is surfaced by
// Link like every other validation failure.
func (l *Linker) add(entry libraryEntry) *Linker {
	if l.registry != nil && l.attachErr == nil && !l.registry.Allows(l.contract, entry.name) {
		l.attachErr = &UndeclaredDependencyError{Contract: l.contract, Library: entry.name}
	}
	l.libraries = append(l.libraries, entry)
	return l
}

// Link validates the accumulated dependency set and produces a Deployment.
// It is all-or-nothing: on failure no partially linked state is observable.
// The linker is consumed whether or not linking succeeds; further Link
// calls return ErrLinkerConsumed.
//
// Validation errors:
//   - UndeclaredDependencyError: a library failed the registry check.
//   - UnknownLibraryError: a resolved library has no matching placeholder
//     slot (including one consumed by an earlier duplicate).
//   - UnusedDependencyError: a pending library was supplied twice, or never
//     referenced by the contract bytecode.
//   - MissingDependencyError: a placeholder has no matching library.
//   - NestedDependenciesError: a pending library's bytecode is itself
//     unlinked.
func (l *Linker) Link() (*Deployment, error) {
	if l.consumed {
		return nil, ErrLinkerConsumed
	}
	l.consumed = true

	if l.attachErr != nil {
		return nil, l.attachErr
	}

	code := l.bytecode.Clone()
	pending := make(map[string]*Bytecode)

	for _, entry := range l.libraries {
		if entry.resolved {
			if err := code.Link(entry.name, entry.address); err != nil {
				return nil, err
			}
			continue
		}
		if _, dup := pending[entry.name]; dup {
			// At most one deployment per library name is meaningful.
			return nil, &UnusedDependencyError{Name: entry.name}
		}
		pending[entry.name] = entry.bytecode
	}

	var libraries []PendingLibrary
	for _, name := range code.UndefinedLibraries() {
		bytecode, ok := pending[name]
		if !ok {
			return nil, &MissingDependencyError{Name: name}
		}
		delete(pending, name)

		raw, err := bytecode.Bytes()
		if err != nil {
			return nil, &NestedDependenciesError{Name: name}
		}
		libraries = append(libraries, PendingLibrary{Name: name, Code: raw})
	}

	// Whatever is left in the pending map was never referenced by the
	// contract bytecode. Report the lexicographically smallest name so the
	// error is deterministic.
	if len(pending) > 0 {
		leftovers := make([]string, 0, len(pending))
		for name := range pending {
			leftovers = append(leftovers, name)
		}
		sort.Strings(leftovers)
		return nil, &UnusedDependencyError{Name: leftovers[0]}
	}

	return &Deployment{
		libraries: libraries,
		contract:  code,
		args:      l.encodedArgs,
	}, nil
}
