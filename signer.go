package ethdeploy

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// TransactionData holds the fields of a legacy (pre-typed) Ethereum
// transaction to be signed. It is plain value data: it owns no key material
// and a fresh value is built per transaction.
type TransactionData struct {
	// Nonce of the sending account at signing time.
	Nonce uint64

	// GasPrice in wei. Nil is treated as zero.
	GasPrice *big.Int

	// Gas limit provided for the transaction.
	Gas uint64

	// To is the recipient address. Nil means contract creation, which
	// encodes as an empty byte string, never the zero address.
	To *common.Address

	// Value transferred in wei. Nil is treated as zero.
	Value *big.Int

	// Data is the call data, or the init code for contract creation. May be
	// empty for simple value transfers.
	Data []byte
}

// ContractCreation returns true if the transaction has no recipient.
func (tx *TransactionData) ContractCreation() bool {
	return tx.To == nil
}

// SigningHash returns the keccak256 hash of the transaction's unsigned RLP
// encoding: the 6-field legacy list when chainID is nil, or the 9-field
// EIP-155 form [..., chainID, 0, 0] otherwise.
func (tx *TransactionData) SigningHash(chainID *big.Int) common.Hash {
	fields := []any{
		tx.Nonce,
		tx.GasPrice,
		tx.Gas,
		tx.To,
		tx.Value,
		tx.Data,
	}
	if chainID != nil {
		fields = append(fields, chainID, uint(0), uint(0))
	}

	encoded, err := rlp.EncodeToBytes(fields)
	if err != nil {
		// Only reachable through a broken field type, not caller input.
		panic(err)
	}
	return crypto.Keccak256Hash(encoded)
}

// Sign signs the transaction with the given private key and returns the raw
// signed transaction bytes, ready for eth_sendRawTransaction. A non-nil
// chainID produces an EIP-155 replay-protected signature with
// v = recoveryID + 2*chainID + 35; a nil chainID produces the legacy
// v = recoveryID + 27.
//
// Sign is deterministic and stateless: identical inputs yield identical
// bytes. A SigningError indicates a fault in the signing primitive or the
// key, not a condition the caller can recover from by retrying.
func (tx *TransactionData) Sign(key *ecdsa.PrivateKey, chainID *big.Int) ([]byte, error) {
	hash := tx.SigningHash(chainID)

	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	v := replayProtectedV(sig[64], chainID)

	signed := []any{
		tx.Nonce,
		tx.GasPrice,
		tx.Gas,
		tx.To,
		tx.Value,
		tx.Data,
		v,
		r,
		s,
	}
	encoded, err := rlp.EncodeToBytes(signed)
	if err != nil {
		panic(err)
	}
	return encoded, nil
}

// MustSign is like Sign but panics on error.
func (tx *TransactionData) MustSign(key *ecdsa.PrivateKey, chainID *big.Int) []byte {
	raw, err := tx.Sign(key, chainID)
	if err != nil {
		panic(err)
	}
	return raw
}

// replayProtectedV derives the signature v value from a recovery id in
// {0, 1} per EIP-155: recoveryID + 2*chainID + 35 with a chain id,
// recoveryID + 27 without.
func replayProtectedV(recoveryID byte, chainID *big.Int) *big.Int {
	v := new(big.Int).SetUint64(uint64(recoveryID))
	if chainID == nil {
		return v.Add(v, big.NewInt(27))
	}
	v.Add(v, new(big.Int).Lsh(chainID, 1))
	return v.Add(v, big.NewInt(35))
}
