package types

import "testing"

func TestNewBlockNilBody(t *testing.T) {
	h := makeTestHeader(0, Hash{}, 5)
	b := NewBlock(h, nil)
	if b.Body == nil {
		t.Fatalf("NewBlock with nil body should default to an empty body")
	}
	if len(b.Transactions()) != 0 {
		t.Fatalf("expected no transactions in default body")
	}
}

func TestBlockAccessors(t *testing.T) {
	parent := HexToHash("0xaa")
	h := makeTestHeader(5, parent, 10)
	addr := BytesToAddress([]byte{0x01})
	tx := makeTestTx(1, &addr)
	body := &BlockBody{Transactions: []*Transaction{tx}}
	b := NewBlock(h, body)

	if b.Number() != 5 {
		t.Fatalf("Number mismatch")
	}
	if b.ParentHash() != parent {
		t.Fatalf("ParentHash mismatch")
	}
	if b.Hash() != h.Hash() {
		t.Fatalf("Block.Hash() should equal header hash")
	}
	if len(b.Transactions()) != 1 {
		t.Fatalf("expected one transaction")
	}
}

func TestBodyRLPRoundTrip(t *testing.T) {
	addr := BytesToAddress([]byte{0x02})
	tx1 := makeTestTx(1, &addr)
	tx2 := makeTestTx(2, nil)
	uncle := makeTestHeader(3, HexToHash("0x1234"), 2)

	body := &BlockBody{
		Transactions: []*Transaction{tx1, tx2},
		Uncles:       []*BlockHeader{uncle},
	}

	enc, err := EncodeBodyRLP(body)
	if err != nil {
		t.Fatalf("EncodeBodyRLP: %v", err)
	}
	dec, err := DecodeBodyRLP(enc)
	if err != nil {
		t.Fatalf("DecodeBodyRLP: %v", err)
	}
	if len(dec.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(dec.Transactions))
	}
	if dec.Transactions[0].Hash() != tx1.Hash() {
		t.Fatalf("tx0 hash mismatch")
	}
	if dec.Transactions[1].Hash() != tx2.Hash() {
		t.Fatalf("tx1 hash mismatch")
	}
	if len(dec.Uncles) != 1 {
		t.Fatalf("expected 1 uncle, got %d", len(dec.Uncles))
	}
	if dec.Uncles[0].Hash() != uncle.Hash() {
		t.Fatalf("uncle hash mismatch")
	}
}

func TestEmptyBodyRLPRoundTrip(t *testing.T) {
	enc, err := EncodeBodyRLP(nil)
	if err != nil {
		t.Fatalf("EncodeBodyRLP(nil): %v", err)
	}
	dec, err := DecodeBodyRLP(enc)
	if err != nil {
		t.Fatalf("DecodeBodyRLP: %v", err)
	}
	if len(dec.Transactions) != 0 || len(dec.Uncles) != 0 {
		t.Fatalf("expected empty body, got %d txs %d uncles", len(dec.Transactions), len(dec.Uncles))
	}
}
