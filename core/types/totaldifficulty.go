package types

import "github.com/holiman/uint256"

// TotalDifficulty is the 256-bit unsigned cumulative proof-of-work measure
// tracked per block: TD(genesis) = genesis.difficulty, TD(h) = TD(h.parent)
// + h.difficulty. Addition saturates at the maximum uint256 value instead of
// wrapping, since silent overflow would corrupt canonical-chain comparisons.
type TotalDifficulty struct {
	v uint256.Int
}

// NewTotalDifficulty wraps a uint64 difficulty value.
func NewTotalDifficulty(d uint64) *TotalDifficulty {
	td := &TotalDifficulty{}
	td.v.SetUint64(d)
	return td
}

// NewTotalDifficultyFromUint256 wraps an existing uint256.Int by value.
func NewTotalDifficultyFromUint256(v *uint256.Int) *TotalDifficulty {
	td := &TotalDifficulty{}
	td.v.Set(v)
	return td
}

// Add returns a new TotalDifficulty equal to td + delta, saturating at the
// maximum representable 256-bit value on overflow.
func (td *TotalDifficulty) Add(delta *TotalDifficulty) *TotalDifficulty {
	sum := &TotalDifficulty{}
	overflow := sum.v.AddOverflow(&td.v, &delta.v)
	if overflow {
		sum.v.SetAllOne()
	}
	return sum
}

// Cmp compares td to other: -1 if td < other, 0 if equal, 1 if td > other.
func (td *TotalDifficulty) Cmp(other *TotalDifficulty) int {
	return td.v.Cmp(&other.v)
}

// Uint256 returns the underlying value.
func (td *TotalDifficulty) Uint256() *uint256.Int {
	return &td.v
}

// Bytes32 returns the big-endian 32-byte representation, used for storage
// encoding.
func (td *TotalDifficulty) Bytes32() [32]byte {
	return td.v.Bytes32()
}

// TotalDifficultyFromBytes decodes a big-endian byte slice (as produced by
// Bytes32, possibly trimmed) into a TotalDifficulty.
func TotalDifficultyFromBytes(b []byte) *TotalDifficulty {
	td := &TotalDifficulty{}
	td.v.SetBytes(b)
	return td
}

// String renders the decimal value.
func (td *TotalDifficulty) String() string {
	return td.v.Dec()
}
