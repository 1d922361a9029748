package types

import (
	"bytes"
	"sync/atomic"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/blockindex/blockindex/rlp"
)

// BlockHeader is the immutable metadata of a block. Genesis has Number == 0.
// Difficulty is this block's own proof-of-work contribution; the cumulative
// total difficulty is maintained separately in the TD key family.
type BlockHeader struct {
	Number     uint64
	ParentHash Hash
	Difficulty *uint256.Int
	Time       uint64
	// TxRoot is an opaque commitment over the body; the index never verifies it.
	TxRoot Hash
	Extra  []byte

	hash atomic.Pointer[Hash]
}

// Hash returns the Keccak-256 hash of the RLP-encoded header, memoized.
func (h *BlockHeader) Hash() Hash {
	if cached := h.hash.Load(); cached != nil {
		return *cached
	}
	hash := computeHeaderHash(h)
	h.hash.Store(&hash)
	return hash
}

// EncodeRLP returns the RLP encoding of the header in field order
// [Number, ParentHash, Difficulty, Time, TxRoot, Extra].
func (h *BlockHeader) EncodeRLP() ([]byte, error) {
	diff := h.Difficulty
	if diff == nil {
		diff = new(uint256.Int)
	}
	var payload []byte
	for _, item := range []interface{}{
		h.Number,
		h.ParentHash,
		diff.ToBig(),
		h.Time,
		h.TxRoot,
		h.Extra,
	} {
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

// DecodeHeaderRLP decodes an RLP-encoded header.
func DecodeHeaderRLP(data []byte) (*BlockHeader, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, err
	}
	h := &BlockHeader{}
	var err error
	h.Number, err = s.Uint64()
	if err != nil {
		return nil, err
	}
	if err := decodeHashField(s, &h.ParentHash); err != nil {
		return nil, err
	}
	diffBig, err := s.BigInt()
	if err != nil {
		return nil, err
	}
	diff, overflow := uint256.FromBig(diffBig)
	if overflow {
		diff = new(uint256.Int).SetAllOne()
	}
	h.Difficulty = diff
	h.Time, err = s.Uint64()
	if err != nil {
		return nil, err
	}
	if err := decodeHashField(s, &h.TxRoot); err != nil {
		return nil, err
	}
	h.Extra, err = s.Bytes()
	if err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return h, nil
}

func decodeHashField(s *rlp.Stream, out *Hash) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	out.SetBytes(b)
	return nil
}

func computeHeaderHash(h *BlockHeader) Hash {
	enc, err := h.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	d := sha3.NewLegacyKeccak256()
	d.Write(enc)
	var hash Hash
	copy(hash[:], d.Sum(nil))
	return hash
}
