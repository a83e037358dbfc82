package ethdeploy

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// testArtifact wraps bytecode in an artifact with no ABI, for contracts
// without a constructor.
func testArtifact(bytecodeHex string) *Artifact {
	return &Artifact{
		Name:     "Test",
		Bytecode: MustBytecodeFromHex(bytecodeHex),
	}
}

func mustNewLinker(t *testing.T, artifact *Artifact, opts ...LinkerOption) *Linker {
	t.Helper()
	linker, err := NewLinker(artifact, opts...)
	if err != nil {
		t.Fatalf("Failed to create linker: %v", err)
	}
	return linker
}

func TestLinkContract(t *testing.T) {
	artifact := testArtifact(
		"0x" +
			"00__Library0______________________________" +
			"00__Library0______________________________" +
			"01__Library1______________________________" +
			"02__Library2______________________________",
	)

	deployment, err := mustNewLinker(t, artifact).
		Library("Library0", common.Address{}).
		DeployLibrary("Library1", MustBytecodeFromHex("0x00")).
		Library("Library2", common.HexToAddress("0x0202020202020202020202020202020202020202")).
		Link()
	if err != nil {
		t.Fatalf("Failed to link contract: %v", err)
	}

	libraries := deployment.Libraries()
	if len(libraries) != 1 {
		t.Fatalf("Expected 1 library to deploy, got %d", len(libraries))
	}
	if libraries[0].Name != "Library1" || !bytes.Equal(libraries[0].Code, []byte{0x00}) {
		t.Errorf("Expected library (Library1, 00), got (%s, %x)", libraries[0].Name, libraries[0].Code)
	}

	contract := deployment.Contract()
	undefined := contract.UndefinedLibraries()
	if len(undefined) != 1 || undefined[0] != "Library1" {
		t.Fatalf("Expected only Library1 to remain undefined, got %v", undefined)
	}

	if err := contract.Link("Library1", common.HexToAddress("0x0101010101010101010101010101010101010101")); err != nil {
		t.Fatalf("Failed to link pending library: %v", err)
	}
	raw, err := contract.Bytes()
	if err != nil {
		t.Fatalf("Failed to convert bytecode to bytes: %v", err)
	}

	want := common.FromHex(
		"0x" +
			"000000000000000000000000000000000000000000" +
			"000000000000000000000000000000000000000000" +
			"010101010101010101010101010101010101010101" +
			"020202020202020202020202020202020202020202",
	)
	if !bytes.Equal(raw, want) {
		t.Errorf("Expected linked bytecode %x, got %x", want, raw)
	}

	if args := deployment.ConstructorArgs(); len(args) != 0 {
		t.Errorf("Expected no constructor arguments, got %x", args)
	}
}

func TestLinkAllResolved(t *testing.T) {
	artifact := testArtifact(
		"0x" +
			"00__Library0______________________________" +
			"00__Library1______________________________",
	)

	deployment, err := mustNewLinker(t, artifact).
		Library("Library0", common.HexToAddress("0x0101010101010101010101010101010101010101")).
		Library("Library1", common.HexToAddress("0x0202020202020202020202020202020202020202")).
		Link()
	if err != nil {
		t.Fatalf("Failed to link contract: %v", err)
	}

	if libraries := deployment.Libraries(); len(libraries) != 0 {
		t.Errorf("Expected no libraries to deploy, got %v", libraries)
	}
	if deployment.RequiresLinking() {
		t.Error("Expected fully linked contract")
	}
	if _, err := deployment.Contract().Bytes(); err != nil {
		t.Errorf("Expected bytecode to convert to bytes, got error: %v", err)
	}
}

func TestLinkSameLibraryMoreThanOnce(t *testing.T) {
	const bytecodeHex = "0x00__Library0______________________________"
	libraryBytecode := MustBytecodeFromHex("0x00")

	t.Run("resolved twice", func(t *testing.T) {
		// The first address consumes the only slot; the second has no
		// placeholder left to fill.
		_, err := mustNewLinker(t, testArtifact(bytecodeHex)).
			Library("Library0", common.Address{}).
			Library("Library0", common.HexToAddress("0x0101010101010101010101010101010101010101")).
			Link()
		var unknown *UnknownLibraryError
		if !errors.As(err, &unknown) {
			t.Fatalf("Expected *UnknownLibraryError, got %T: %v", err, err)
		}
		if unknown.Name != "Library0" {
			t.Errorf("Expected library name Library0, got %q", unknown.Name)
		}
	})

	t.Run("pending then resolved", func(t *testing.T) {
		// The address consumes the slot, leaving the pending deployment
		// without a referencing placeholder.
		_, err := mustNewLinker(t, testArtifact(bytecodeHex)).
			DeployLibrary("Library0", libraryBytecode).
			Library("Library0", common.HexToAddress("0x0101010101010101010101010101010101010101")).
			Link()
		var unused *UnusedDependencyError
		if !errors.As(err, &unused) {
			t.Fatalf("Expected *UnusedDependencyError, got %T: %v", err, err)
		}
		if unused.Name != "Library0" {
			t.Errorf("Expected library name Library0, got %q", unused.Name)
		}
	})

	t.Run("pending twice", func(t *testing.T) {
		_, err := mustNewLinker(t, testArtifact(bytecodeHex)).
			DeployLibrary("Library0", libraryBytecode).
			DeployLibrary("Library0", libraryBytecode).
			Link()
		var unused *UnusedDependencyError
		if !errors.As(err, &unused) {
			t.Fatalf("Expected *UnusedDependencyError, got %T: %v", err, err)
		}
		if unused.Name != "Library0" {
			t.Errorf("Expected library name Library0, got %q", unused.Name)
		}
	})
}

func TestLinkMissingDependency(t *testing.T) {
	_, err := mustNewLinker(t, testArtifact("0x00__Library0______________________________")).Link()
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected *MissingDependencyError, got %T: %v", err, err)
	}
	if missing.Name != "Library0" {
		t.Errorf("Expected library name Library0, got %q", missing.Name)
	}
}

func TestLinkUnusedDependency(t *testing.T) {
	t.Run("resolved but unreferenced", func(t *testing.T) {
		_, err := mustNewLinker(t, testArtifact("0x00")).
			Library("Library0", common.Address{}).
			Link()
		var unknown *UnknownLibraryError
		if !errors.As(err, &unknown) {
			t.Fatalf("Expected *UnknownLibraryError, got %T: %v", err, err)
		}
	})

	t.Run("pending but unreferenced", func(t *testing.T) {
		_, err := mustNewLinker(t, testArtifact("0x00")).
			DeployLibrary("Library0", MustBytecodeFromHex("0x00")).
			Link()
		var unused *UnusedDependencyError
		if !errors.As(err, &unused) {
			t.Fatalf("Expected *UnusedDependencyError, got %T: %v", err, err)
		}
		if unused.Name != "Library0" {
			t.Errorf("Expected library name Library0, got %q", unused.Name)
		}
	})

	t.Run("multiple leftovers report smallest name", func(t *testing.T) {
		_, err := mustNewLinker(t, testArtifact("0x00")).
			DeployLibrary("Zeta", MustBytecodeFromHex("0x00")).
			DeployLibrary("Alpha", MustBytecodeFromHex("0x00")).
			DeployLibrary("Mid", MustBytecodeFromHex("0x00")).
			Link()
		var unused *UnusedDependencyError
		if !errors.As(err, &unused) {
			t.Fatalf("Expected *UnusedDependencyError, got %T: %v", err, err)
		}
		if unused.Name != "Alpha" {
			t.Errorf("Expected lexicographically smallest leftover Alpha, got %q", unused.Name)
		}
	})
}

func TestLinkNestedDependency(t *testing.T) {
	_, err := mustNewLinker(t, testArtifact("0x00__Library0______________________________")).
		DeployLibrary("Library0", MustBytecodeFromHex("0x00__Library1______________________________")).
		Link()
	var nested *NestedDependenciesError
	if !errors.As(err, &nested) {
		t.Fatalf("Expected *NestedDependenciesError, got %T: %v", err, err)
	}
	if nested.Name != "Library0" {
		t.Errorf("Expected library name Library0, got %q", nested.Name)
	}
}

func TestLinkOrderFollowsBytecode(t *testing.T) {
	// Deployment order follows placeholder occurrence in the bytecode, not
	// the order of DeployLibrary calls.
	artifact := testArtifact(
		"0x" +
			"00__First_________________________________" +
			"00__Second________________________________",
	)

	deployment, err := mustNewLinker(t, artifact).
		DeployLibrary("Second", MustBytecodeFromHex("0x02")).
		DeployLibrary("First", MustBytecodeFromHex("0x01")).
		Link()
	if err != nil {
		t.Fatalf("Failed to link contract: %v", err)
	}

	libraries := deployment.Libraries()
	if len(libraries) != 2 {
		t.Fatalf("Expected 2 libraries to deploy, got %d", len(libraries))
	}
	if libraries[0].Name != "First" || libraries[1].Name != "Second" {
		t.Errorf("Expected deploy order [First, Second], got [%s, %s]", libraries[0].Name, libraries[1].Name)
	}
}

func TestLinkerConsumed(t *testing.T) {
	t.Run("after success", func(t *testing.T) {
		linker := mustNewLinker(t, testArtifact("0x00"))
		if _, err := linker.Link(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, err := linker.Link(); !errors.Is(err, ErrLinkerConsumed) {
			t.Errorf("Expected ErrLinkerConsumed, got %v", err)
		}
	})

	t.Run("after failure", func(t *testing.T) {
		linker := mustNewLinker(t, testArtifact("0x00__Library0______________________________"))
		if _, err := linker.Link(); err == nil {
			t.Fatal("Expected linking to fail")
		}
		if _, err := linker.Link(); !errors.Is(err, ErrLinkerConsumed) {
			t.Errorf("Expected ErrLinkerConsumed, got %v", err)
		}
	})
}

func TestLinkDoesNotMutateArtifact(t *testing.T) {
	artifact := testArtifact("0x00__Library0______________________________")
	linker := mustNewLinker(t, artifact).Library("Library0", common.Address{})

	if _, err := linker.Link(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !artifact.Bytecode.RequiresLinking() {
		t.Error("Linking should not mutate the artifact bytecode")
	}
}

func TestNewLinkerEmptyBytecode(t *testing.T) {
	tests := []struct {
		name     string
		artifact *Artifact
	}{
		{"nil artifact", nil},
		{"nil bytecode", &Artifact{Name: "Test"}},
		{"empty bytecode", testArtifact("0x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLinker(tt.artifact); !errors.Is(err, ErrEmptyBytecode) {
				t.Errorf("Expected ErrEmptyBytecode, got %v", err)
			}
		})
	}
}

func TestNewLinkerConstructorArgs(t *testing.T) {
	const ctorABI = `[{
		"type": "constructor",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "threshold", "type": "uint256"}
		]
	}]`

	t.Run("encodes arguments", func(t *testing.T) {
		artifact := &Artifact{
			Name:     "Test",
			ABI:      MustParseABI(ctorABI),
			Bytecode: MustBytecodeFromHex("0x00"),
		}

		deployment, err := mustNewLinker(t, artifact, WithConstructorArgs(big.NewInt(42))).Link()
		if err != nil {
			t.Fatalf("Failed to link contract: %v", err)
		}

		args := deployment.ConstructorArgs()
		want := make([]byte, 32)
		want[31] = 42
		if !bytes.Equal(args, want) {
			t.Errorf("Expected encoded arguments %x, got %x", want, args)
		}

		data, err := deployment.ContractData()
		if err != nil {
			t.Fatalf("Failed to build contract data: %v", err)
		}
		if !bytes.Equal(data, append([]byte{0x00}, want...)) {
			t.Errorf("Expected contract data bytecode+args, got %x", data)
		}
	})

	t.Run("argument count mismatch", func(t *testing.T) {
		artifact := &Artifact{
			Name:     "Test",
			ABI:      MustParseABI(ctorABI),
			Bytecode: MustBytecodeFromHex("0x00"),
		}

		_, err := NewLinker(artifact, WithConstructorArgs(big.NewInt(1), big.NewInt(2)))
		var ctorErr *ConstructorError
		if !errors.As(err, &ctorErr) {
			t.Errorf("Expected *ConstructorError, got %T: %v", err, err)
		}
	})

	t.Run("arguments without constructor", func(t *testing.T) {
		_, err := NewLinker(testArtifact("0x00"), WithConstructorArgs(big.NewInt(1)))
		var ctorErr *ConstructorError
		if !errors.As(err, &ctorErr) {
			t.Errorf("Expected *ConstructorError, got %T: %v", err, err)
		}
	})

	t.Run("no arguments no constructor", func(t *testing.T) {
		deployment, err := mustNewLinker(t, testArtifact("0x00")).Link()
		if err != nil {
			t.Fatalf("Failed to link contract: %v", err)
		}
		if args := deployment.ConstructorArgs(); len(args) != 0 {
			t.Errorf("Expected no constructor arguments, got %x", args)
		}
	})
}
