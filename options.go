package ethdeploy

// LinkerOption configures a Linker at construction time.
type LinkerOption func(*linkerConfig)

// linkerConfig holds configuration applied by NewLinker.
type linkerConfig struct {
	constructorArgs []any
	registry        *DependencyRegistry
}

// WithConstructorArgs supplies constructor arguments for the contract being
// linked. They are ABI-encoded by NewLinker and appended to the linked
// bytecode in the deployment payload.
func WithConstructorArgs(args ...any) LinkerOption {
	return func(c *linkerConfig) {
		c.constructorArgs = args
	}
}

// WithRegistry attaches a dependency registry to the linker. Every library
// added to the linker is checked against the registry entry for the
// artifact's contract name; the first undeclared library is reported by
// Link as an UndeclaredDependencyError.
func WithRegistry(registry *DependencyRegistry) LinkerOption {
	return func(c *linkerConfig) {
		c.registry = registry
	}
}
