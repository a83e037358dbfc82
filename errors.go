package ethdeploy

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
var (
	// ErrEmptyBytecode indicates a linker was created for a contract with no
	// bytecode, e.g. an interface or abstract contract artifact.
	ErrEmptyBytecode = errors.New("ethdeploy: contract bytecode is empty")

	// ErrLinkerConsumed indicates Link was called more than once on the same
	// linker. A linker is configured and consumed exactly once.
	ErrLinkerConsumed = errors.New("ethdeploy: linker already consumed by Link")
)

// InvalidBytecodeError indicates a hex string could not be parsed as
// placeholder-annotated bytecode.
type InvalidBytecodeError struct {
	Offset int    // character offset into the hex string
	Reason string // what was wrong at that offset
}

func (e *InvalidBytecodeError) Error() string {
	return fmt.Sprintf("ethdeploy: invalid bytecode at offset %d: %s", e.Offset, e.Reason)
}

// InvalidLibraryNameError indicates a library name cannot be rendered as a
// placeholder slot (empty, or longer than 38 characters).
type InvalidLibraryNameError struct {
	Name string
}

func (e *InvalidLibraryNameError) Error() string {
	return fmt.Sprintf("ethdeploy: invalid library name %q", e.Name)
}

// UnknownLibraryError indicates an address was linked for a library name
// that has no remaining placeholder slot in the bytecode. This happens for
// names the contract never references and for duplicate resolved entries,
// since linking consumes every slot for the name.
type UnknownLibraryError struct {
	Name string
}

func (e *UnknownLibraryError) Error() string {
	return fmt.Sprintf("ethdeploy: bytecode has no placeholder for library %q", e.Name)
}

// UnlinkedLibrariesError indicates bytecode was converted to bytes while
// placeholder slots remain unresolved.
type UnlinkedLibrariesError struct {
	Names []string // first-occurrence order
}

func (e *UnlinkedLibrariesError) Error() string {
	return fmt.Sprintf("ethdeploy: bytecode has unlinked libraries: %s", strings.Join(e.Names, ", "))
}

// MissingDependencyError indicates the target bytecode references a library
// for which neither an address nor deployable bytecode was supplied.
type MissingDependencyError struct {
	Name string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("ethdeploy: missing dependency %q", e.Name)
}

// UnusedDependencyError indicates a deployable library was supplied that the
// target bytecode never references, or was supplied more than once.
type UnusedDependencyError struct {
	Name string
}

func (e *UnusedDependencyError) Error() string {
	return fmt.Sprintf("ethdeploy: unused dependency %q", e.Name)
}

// NestedDependenciesError indicates a deployable library's own bytecode
// still contains placeholder slots. Transitive library resolution is not
// supported; such libraries must be linked before being handed to the
// linker.
type NestedDependenciesError struct {
	Name string
}

func (e *NestedDependenciesError) Error() string {
	return fmt.Sprintf("ethdeploy: library %q has unresolved dependencies of its own", e.Name)
}

// UndeclaredDependencyError indicates a library was attached to a contract
// whose registry entry does not declare it as linkable.
type UndeclaredDependencyError struct {
	Contract string
	Library  string
}

func (e *UndeclaredDependencyError) Error() string {
	return fmt.Sprintf("ethdeploy: contract %q does not declare library %q as linkable", e.Contract, e.Library)
}

// ConstructorError wraps a failure to encode constructor arguments against
// the contract ABI: argument count or type mismatch, or arguments supplied
// for a contract without a constructor.
type ConstructorError struct {
	Err error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("ethdeploy: constructor arguments: %v", e.Err)
}

func (e *ConstructorError) Unwrap() error {
	return e.Err
}

// SigningError wraps a failure of the underlying secp256k1 signing
// primitive. For a well-formed 32-byte hash this never happens; treat it as
// a programming or environment fault, not a condition to retry.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("ethdeploy: signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
