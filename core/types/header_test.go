package types

import (
	"testing"

	"github.com/holiman/uint256"
)

func makeTestHeader(number uint64, parent Hash, difficulty uint64) *BlockHeader {
	return &BlockHeader{
		Number:     number,
		ParentHash: parent,
		Difficulty: uint256.NewInt(difficulty),
		Time:       1000 + number,
		Extra:      []byte("test"),
	}
}

func TestHeaderHashDeterministic(t *testing.T) {
	h1 := makeTestHeader(1, HexToHash("0xaa"), 5)
	h2 := makeTestHeader(1, HexToHash("0xaa"), 5)
	if h1.Hash() != h2.Hash() {
		t.Fatalf("identical headers hashed differently: %x vs %x", h1.Hash(), h2.Hash())
	}
}

func TestHeaderHashDistinguishesFields(t *testing.T) {
	h1 := makeTestHeader(1, HexToHash("0xaa"), 5)
	h2 := makeTestHeader(1, HexToHash("0xbb"), 5)
	if h1.Hash() == h2.Hash() {
		t.Fatalf("headers with different parents hashed identically")
	}
}

func TestHeaderHashMemoized(t *testing.T) {
	h := makeTestHeader(1, HexToHash("0xaa"), 5)
	first := h.Hash()
	h.Extra = []byte("mutated after first hash")
	second := h.Hash()
	if first != second {
		t.Fatalf("Hash() recomputed after mutation; expected memoized value")
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	h := makeTestHeader(7, HexToHash("0xdeadbeef"), 123456)
	h.TxRoot = HexToHash("0xcafe")

	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	dec, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatalf("DecodeHeaderRLP: %v", err)
	}
	if dec.Number != h.Number {
		t.Fatalf("Number mismatch: got %d want %d", dec.Number, h.Number)
	}
	if dec.ParentHash != h.ParentHash {
		t.Fatalf("ParentHash mismatch")
	}
	if dec.Difficulty.Cmp(h.Difficulty) != 0 {
		t.Fatalf("Difficulty mismatch: got %s want %s", dec.Difficulty, h.Difficulty)
	}
	if dec.Time != h.Time {
		t.Fatalf("Time mismatch")
	}
	if dec.TxRoot != h.TxRoot {
		t.Fatalf("TxRoot mismatch")
	}
	if string(dec.Extra) != string(h.Extra) {
		t.Fatalf("Extra mismatch")
	}
	if dec.Hash() != h.Hash() {
		t.Fatalf("round-tripped header hash mismatch")
	}
}

func TestGenesisHeaderNumberZero(t *testing.T) {
	g := makeTestHeader(0, Hash{}, 5)
	if g.Number != 0 {
		t.Fatalf("expected genesis number 0, got %d", g.Number)
	}
}
