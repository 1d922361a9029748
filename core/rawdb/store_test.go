package rawdb

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/blockindex/blockindex/core/types"
)

func newTestStore() *Store {
	return NewStore(NewMemoryDB())
}

func TestStoreHeaderRoundTripAfterCommit(t *testing.T) {
	s := newTestStore()
	h := &types.BlockHeader{Number: 1, Difficulty: uint256.NewInt(5)}
	hash := h.Hash()

	u := s.NewUpdater()
	if err := u.PutHeader(h); err != nil {
		t.Fatalf("PutHeader: %v", err)
	}

	if _, ok := s.GetHeader(hash); ok {
		t.Fatalf("header visible before commit")
	}

	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, ok := s.GetHeader(hash)
	if !ok {
		t.Fatalf("header not visible after commit")
	}
	if got.Number != 1 {
		t.Fatalf("Number mismatch after round trip")
	}
}

func TestStoreRollbackDiscardsWrites(t *testing.T) {
	s := newTestStore()
	h := &types.BlockHeader{Number: 1, Difficulty: uint256.NewInt(5)}
	hash := h.Hash()

	u := s.NewUpdater()
	if err := u.PutHeader(h); err != nil {
		t.Fatalf("PutHeader: %v", err)
	}
	u.Rollback()

	if _, ok := s.GetHeader(hash); ok {
		t.Fatalf("header visible after rollback")
	}
}

func TestStoreChainHeadAndForkHeads(t *testing.T) {
	s := newTestStore()
	hash := types.HexToHash("0xaa")
	fork := types.HexToHash("0xbb")

	u := s.NewUpdater()
	u.SetChainHead(hash)
	if err := u.SetForkHeads([]types.Hash{fork}); err != nil {
		t.Fatalf("SetForkHeads: %v", err)
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, ok := s.GetChainHead()
	if !ok || got != hash {
		t.Fatalf("ChainHead mismatch: got %x ok=%v", got, ok)
	}
	heads, ok := s.GetForkHeads()
	if !ok || len(heads) != 1 || heads[0] != fork {
		t.Fatalf("ForkHeads mismatch: got %v ok=%v", heads, ok)
	}
}

func TestStoreTxLocation(t *testing.T) {
	s := newTestStore()
	txHash := types.HexToHash("0xcc")
	loc := types.TransactionLocation{BlockHash: types.HexToHash("0xdd"), Index: 3}

	u := s.NewUpdater()
	if err := u.PutTxLocation(txHash, loc); err != nil {
		t.Fatalf("PutTxLocation: %v", err)
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, ok := s.GetTxLocation(txHash)
	if !ok {
		t.Fatalf("tx location not found")
	}
	if got.BlockHash != loc.BlockHash || got.Index != loc.Index {
		t.Fatalf("tx location mismatch: got %+v want %+v", got, loc)
	}

	u2 := s.NewUpdater()
	u2.RemoveTxLocation(txHash)
	if err := u2.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok := s.GetTxLocation(txHash); ok {
		t.Fatalf("tx location still present after removal")
	}
}

func TestStoreNum2Hash(t *testing.T) {
	s := newTestStore()
	hash := types.HexToHash("0xee")

	u := s.NewUpdater()
	u.PutHash(5, hash)
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok := s.GetHash(5)
	if !ok || got != hash {
		t.Fatalf("GetHash mismatch: got %x ok=%v", got, ok)
	}

	u2 := s.NewUpdater()
	u2.RemoveHash(5)
	if err := u2.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok := s.GetHash(5); ok {
		t.Fatalf("NUM2HASH(5) still present after removal")
	}
}

func TestStoreTDRoundTrip(t *testing.T) {
	s := newTestStore()
	hash := types.HexToHash("0xff")
	td := types.NewTotalDifficulty(42)

	u := s.NewUpdater()
	u.PutTD(hash, td)
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok := s.GetTD(hash)
	if !ok {
		t.Fatalf("TD not found")
	}
	if got.Cmp(td) != 0 {
		t.Fatalf("TD mismatch: got %s want %s", got, td)
	}
}

func TestStoreReceiptsRoundTrip(t *testing.T) {
	s := newTestStore()
	hash := types.HexToHash("0x01")
	receipts := []*types.TransactionReceipt{
		types.NewReceipt(types.ReceiptStatusSuccessful, 21000),
	}

	u := s.NewUpdater()
	if err := u.PutReceipts(hash, receipts); err != nil {
		t.Fatalf("PutReceipts: %v", err)
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok := s.GetReceipts(hash)
	if !ok || len(got) != 1 {
		t.Fatalf("receipts mismatch: got %v ok=%v", got, ok)
	}
}
