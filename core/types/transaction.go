package types

import (
	"bytes"
	"math/big"
	"sync/atomic"

	"golang.org/x/crypto/sha3"

	"github.com/blockindex/blockindex/rlp"
)

// Transaction is an opaque payload to the index: beyond its identifying
// Hash, the index never interprets its fields. The structure below is kept
// realistic (enough to round-trip through RLP and through a block body)
// rather than collapsed to a raw byte blob.
type Transaction struct {
	Nonce    uint64
	To       *Address
	Value    *big.Int
	GasLimit uint64
	Data     []byte
	V, R, S  *big.Int

	hash atomic.Pointer[Hash]
}

// Hash returns the Keccak-256 hash of the RLP-encoded transaction, memoized.
func (tx *Transaction) Hash() Hash {
	if cached := tx.hash.Load(); cached != nil {
		return *cached
	}
	enc, err := tx.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	d := sha3.NewLegacyKeccak256()
	d.Write(enc)
	var hash Hash
	copy(hash[:], d.Sum(nil))
	tx.hash.Store(&hash)
	return hash
}

// EncodeRLP returns the RLP encoding of the transaction in field order
// [Nonce, To, Value, GasLimit, Data, V, R, S]. An absent recipient (contract
// creation) encodes as an empty string.
func (tx *Transaction) EncodeRLP() ([]byte, error) {
	var toBytes []byte
	if tx.To != nil {
		toBytes = tx.To.Bytes()
	}
	items := []interface{}{
		tx.Nonce,
		toBytes,
		bigOrZero(tx.Value),
		tx.GasLimit,
		tx.Data,
		bigOrZero(tx.V),
		bigOrZero(tx.R),
		bigOrZero(tx.S),
	}
	var payload []byte
	for _, item := range items {
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

// DecodeTxRLP decodes an RLP-encoded transaction.
func DecodeTxRLP(data []byte) (*Transaction, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, err
	}
	tx := &Transaction{}
	var err error
	tx.Nonce, err = s.Uint64()
	if err != nil {
		return nil, err
	}
	toBytes, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(toBytes) > 0 {
		addr := BytesToAddress(toBytes)
		tx.To = &addr
	}
	tx.Value, err = s.BigInt()
	if err != nil {
		return nil, err
	}
	tx.GasLimit, err = s.Uint64()
	if err != nil {
		return nil, err
	}
	tx.Data, err = s.Bytes()
	if err != nil {
		return nil, err
	}
	tx.V, err = s.BigInt()
	if err != nil {
		return nil, err
	}
	tx.R, err = s.BigInt()
	if err != nil {
		return nil, err
	}
	tx.S, err = s.BigInt()
	if err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return tx, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
