package ethdeploy

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact bundles the compiler outputs needed to deploy a contract: its
// ABI, its placeholder-annotated bytecode, and the contract name used for
// dependency registry lookups.
type Artifact struct {
	// Name identifies the contract, e.g. for DependencyRegistry checks.
	Name string

	// ABI is the contract's parsed ABI, used to encode constructor
	// arguments.
	ABI abi.ABI

	// Bytecode is the contract's deployment bytecode, possibly containing
	// library placeholder slots.
	Bytecode *Bytecode
}

// ParseABI parses a JSON ABI string into an abi.ABI.
// This is a convenience function for building artifacts from compiler
// output.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}

// encodeConstructorArgs ABI-encodes constructor arguments for appending to
// deployment bytecode. Supplying arguments to a contract without a
// constructor, or arguments that mismatch the constructor signature, is an
// error.
func encodeConstructorArgs(contractABI abi.ABI, args []any) ([]byte, error) {
	if len(args) == 0 && len(contractABI.Constructor.Inputs) == 0 {
		return nil, nil
	}
	return contractABI.Pack("", args...)
}
