package ethdeploy

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Placeholder slot constants.
const (
	// PlaceholderLength is the width of one library placeholder slot in hex
	// characters: a 20-byte address rendered as 40 hex digits.
	PlaceholderLength = 40

	// MaxLibraryNameLength is the longest library name that fits in a
	// placeholder slot after the leading "__" marker.
	MaxLibraryNameLength = PlaceholderLength - 2
)

// Bytecode is compiled contract code that may still contain named library
// placeholder slots. It is backed by the hex rendering produced by the
// compiler, where each unresolved library reference occupies a fixed
// 40-character slot of the form "__LibraryName___..." padded with
// underscores.
//
// Linking substitutes a concrete 20-byte address for every slot carrying a
// given name without changing the total length. Bytes fails while any slot
// remains unresolved.
type Bytecode struct {
	code string // validated hex characters, placeholder slots included
}

// BytecodeFromHex parses placeholder-annotated bytecode from its hex
// rendering. A leading "0x" prefix is accepted. The input must consist of
// whole bytes, each either a pair of hex digits or part of an aligned,
// well-formed placeholder slot.
func BytecodeFromHex(s string) (*Bytecode, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return nil, &InvalidBytecodeError{Offset: len(s), Reason: "odd number of hex characters"}
	}

	var code strings.Builder
	code.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '_' {
			if !isHexDigit(s[i]) || !isHexDigit(s[i+1]) {
				return nil, &InvalidBytecodeError{Offset: i, Reason: "not a hex digit"}
			}
			code.WriteByte(lowerHexDigit(s[i]))
			code.WriteByte(lowerHexDigit(s[i+1]))
			i += 2
			continue
		}

		if len(s)-i < PlaceholderLength {
			return nil, &InvalidBytecodeError{Offset: i, Reason: "truncated placeholder slot"}
		}
		slot := s[i : i+PlaceholderLength]
		if !strings.HasPrefix(slot, "__") {
			return nil, &InvalidBytecodeError{Offset: i, Reason: "malformed placeholder slot"}
		}
		if placeholderName(slot) == "" {
			return nil, &InvalidBytecodeError{Offset: i, Reason: "placeholder slot has no library name"}
		}
		code.WriteString(slot)
		i += PlaceholderLength
	}

	return &Bytecode{code: code.String()}, nil
}

// MustBytecodeFromHex is like BytecodeFromHex but panics on error.
func MustBytecodeFromHex(s string) *Bytecode {
	b, err := BytecodeFromHex(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytecodeFromBytes wraps already-dense bytecode that contains no
// placeholder slots.
func BytecodeFromBytes(code []byte) *Bytecode {
	return &Bytecode{code: hex.EncodeToString(code)}
}

// IsEmpty returns true if the bytecode has zero length.
func (b *Bytecode) IsEmpty() bool {
	return len(b.code) == 0
}

// Len returns the bytecode length in bytes, counting each unresolved
// placeholder slot as the 20 address bytes it stands in for.
func (b *Bytecode) Len() int {
	return len(b.code) / 2
}

// Hex returns the 0x-prefixed hex rendering, placeholder slots included.
func (b *Bytecode) Hex() string {
	return "0x" + b.code
}

// String implements fmt.Stringer.
func (b *Bytecode) String() string {
	return b.Hex()
}

// Clone returns an independent copy of the bytecode.
func (b *Bytecode) Clone() *Bytecode {
	return &Bytecode{code: b.code}
}

// Link substitutes address into every placeholder slot carrying the given
// library name. It returns an UnknownLibraryError if no slot matches, which
// also covers linking the same name twice: the first Link consumes every
// slot for that name.
func (b *Bytecode) Link(name string, address common.Address) error {
	slot, err := placeholderFor(name)
	if err != nil {
		return err
	}
	if !strings.Contains(b.code, slot) {
		return &UnknownLibraryError{Name: name}
	}
	b.code = strings.ReplaceAll(b.code, slot, hex.EncodeToString(address[:]))
	return nil
}

// UndefinedLibraries returns the names of all libraries with unresolved
// placeholder slots, deduplicated, in first-occurrence order.
func (b *Bytecode) UndefinedLibraries() []string {
	var names []string
	seen := make(map[string]bool)

	for i := 0; i < len(b.code); {
		if b.code[i] != '_' {
			i += 2
			continue
		}
		name := placeholderName(b.code[i : i+PlaceholderLength])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i += PlaceholderLength
	}

	return names
}

// RequiresLinking returns true if any placeholder slot remains unresolved.
func (b *Bytecode) RequiresLinking() bool {
	return strings.Contains(b.code, "__")
}

// Bytes converts the bytecode to its dense byte representation. It fails
// with an UnlinkedLibrariesError if any placeholder slot remains
// unresolved.
func (b *Bytecode) Bytes() ([]byte, error) {
	if names := b.UndefinedLibraries(); len(names) > 0 {
		return nil, &UnlinkedLibrariesError{Names: names}
	}
	return hex.DecodeString(b.code)
}

// placeholderFor renders a library name as its placeholder slot:
// "__" + name, right-padded with underscores to PlaceholderLength.
func placeholderFor(name string) (string, error) {
	if name == "" || len(name) > MaxLibraryNameLength {
		return "", &InvalidLibraryNameError{Name: name}
	}
	return "__" + name + strings.Repeat("_", MaxLibraryNameLength-len(name)), nil
}

// placeholderName extracts the library name from a placeholder slot.
// Returns "" for a slot that carries no name.
func placeholderName(slot string) string {
	return strings.TrimRight(slot[2:], "_")
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func lowerHexDigit(c byte) byte {
	if c >= 'A' && c <= 'F' {
		return c + ('a' - 'A')
	}
	return c
}
