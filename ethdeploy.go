// Package ethdeploy prepares Ethereum contracts for deployment and produces
// signed, broadcast-ready raw transactions.
//
// The package covers the two offline halves of a deployment pipeline:
//
//   - A library linker that resolves named placeholder slots in compiled
//     contract bytecode, either to already-deployed library addresses or to
//     libraries that must themselves be deployed first, and emits an ordered
//     deployment plan.
//
//   - A transaction signer that RLP-encodes legacy transaction fields,
//     hashes them with keccak256, signs with a recoverable secp256k1
//     signature, and re-encodes the signed, EIP-155 replay-protected
//     transaction.
//
// Broadcasting the resulting bytes (eth_sendRawTransaction), querying chain
// state, and generating typed per-contract APIs are left to external tools.
//
// # Linking
//
// Compiled Solidity bytecode leaves a 20-byte slot for every library it
// references, rendered in hex as "__LibraryName___..." padded to 40
// characters. The Linker accumulates libraries against one target contract
// and validates the whole set in a single Link call:
//
//	artifact := &ethdeploy.Artifact{
//	    Name:     "Exchange",
//	    ABI:      ethdeploy.MustParseABI(exchangeABI),
//	    Bytecode: ethdeploy.MustBytecodeFromHex(exchangeBin),
//	}
//
//	linker, err := ethdeploy.NewLinker(artifact)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	deployment, err := linker.
//	    Library("SafeMath", safeMathAddr).
//	    DeployLibrary("OrderBook", orderBookBytecode).
//	    Link()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The Deployment lists the libraries that still need their own deployment
// transactions, ordered by first placeholder occurrence, followed by the
// contract payload itself. Libraries that depend on further unresolved
// libraries are rejected (NestedDependenciesError); transitive resolution
// is out of scope.
//
// # Signing
//
// TransactionData holds plain legacy transaction fields. Sign produces the
// exact byte sequence expected by eth_sendRawTransaction:
//
//	tx := &ethdeploy.TransactionData{
//	    Nonce:    nonce,
//	    GasPrice: big.NewInt(params.GWei),
//	    Gas:      2_000_000,
//	    Data:     deployData, // nil To means contract creation
//	}
//	raw, err := tx.Sign(key, chainID)
//
// A nil chain id selects the pre-EIP-155 legacy encoding (v in {27, 28}).
//
// # Concurrency
//
// Linking and signing are pure computations over caller-owned values.
// Independent Linker and TransactionData values may be used from any number
// of goroutines; a single Linker is configured and consumed by one owner.
package ethdeploy
