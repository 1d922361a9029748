package rawdb

import (
	"testing"

	"github.com/blockindex/blockindex/core/types"
)

func TestEncodeDecodeEmptyReceiptList(t *testing.T) {
	enc, err := encodeReceiptListRLP(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeReceiptListRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestEncodeDecodeHashList(t *testing.T) {
	hashes := []types.Hash{types.HexToHash("0x01"), types.HexToHash("0x02")}
	enc, err := encodeHashListRLP(hashes)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeHashListRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != hashes[0] || got[1] != hashes[1] {
		t.Fatalf("hash list mismatch: got %v want %v", got, hashes)
	}
}

func TestEncodeDecodeEmptyHashList(t *testing.T) {
	enc, err := encodeHashListRLP(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeHashListRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestEncodeDecodeTxLocation(t *testing.T) {
	loc := types.TransactionLocation{BlockHash: types.HexToHash("0xabc"), Index: 7}
	enc, err := encodeTxLocationRLP(loc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeTxLocationRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != loc {
		t.Fatalf("tx location mismatch: got %+v want %+v", got, loc)
	}
}
