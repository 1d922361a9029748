package core

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/blockindex/blockindex/core/chainerr"
	"github.com/blockindex/blockindex/core/rawdb"
	"github.com/blockindex/blockindex/core/types"
)

func newTestChain(t *testing.T, genesisDifficulty uint64) (*Chain, *types.Block) {
	t.Helper()
	store := rawdb.NewStore(rawdb.NewMemoryDB())
	genesis := makeBlock(0, types.Hash{}, genesisDifficulty, nil, "genesis")
	c, err := NewChain(genesis, store)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c, genesis
}

func makeBlock(number uint64, parent types.Hash, difficulty uint64, txs []*types.Transaction, tag string) *types.Block {
	header := &types.BlockHeader{
		Number:     number,
		ParentHash: parent,
		Difficulty: uint256.NewInt(difficulty),
		Extra:      []byte(tag),
	}
	return types.NewBlock(header, &types.BlockBody{Transactions: txs})
}

func makeTx(nonce uint64) *types.Transaction {
	return &types.Transaction{Nonce: nonce}
}

func receiptsFor(txs []*types.Transaction) []*types.TransactionReceipt {
	rs := make([]*types.TransactionReceipt, len(txs))
	for i := range txs {
		rs[i] = types.NewReceipt(types.ReceiptStatusSuccessful, 21000)
	}
	return rs
}

// Scenario 1: genesis only.
func TestGenesisOnly(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	head := c.ChainHead()
	if head.Hash != genesis.Hash() {
		t.Fatalf("chain head = %x, want genesis %x", head.Hash, genesis.Hash())
	}
	if head.TotalDifficulty.Cmp(types.NewTotalDifficulty(5)) != 0 {
		t.Fatalf("TD = %s, want 5", head.TotalDifficulty)
	}
	if len(c.Forks()) != 0 {
		t.Fatalf("expected no forks, got %v", c.Forks())
	}
}

// Scenario 2: linear advance.
func TestLinearAdvance(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	var events []Event
	c.Subscribe(func(e Event) { events = append(events, e) })

	a := makeBlock(1, genesis.Hash(), 3, nil, "A")
	if err := c.Append(a, nil); err != nil {
		t.Fatalf("append A: %v", err)
	}
	b := makeBlock(2, a.Hash(), 4, nil, "B")
	if err := c.Append(b, nil); err != nil {
		t.Fatalf("append B: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, e := range events {
		if _, ok := e.(HeadAdvanced); !ok {
			t.Fatalf("expected HeadAdvanced events, got %T", e)
		}
	}

	head := c.ChainHead()
	if head.Hash != b.Hash() {
		t.Fatalf("chain head = %x, want B %x", head.Hash, b.Hash())
	}
	if head.TotalDifficulty.Cmp(types.NewTotalDifficulty(12)) != 0 {
		t.Fatalf("TD = %s, want 12", head.TotalDifficulty)
	}
	hashA, ok := c.HashByNumber(1)
	if !ok || hashA != a.Hash() {
		t.Fatalf("hash_by_number(1) mismatch")
	}
	hashB, ok := c.HashByNumber(2)
	if !ok || hashB != b.Hash() {
		t.Fatalf("hash_by_number(2) mismatch")
	}
}

// Scenarios 3-7: fork without reorg, fork extension, reorg, tie-break,
// re-index preservation, chained into one flow as the spec describes them.
func TestForkAndReorgFlow(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	tx1 := makeTx(1)
	a := makeBlock(1, genesis.Hash(), 3, []*types.Transaction{tx1}, "A")
	if err := c.Append(a, receiptsFor(a.Body.Transactions)); err != nil {
		t.Fatalf("append A: %v", err)
	}
	b := makeBlock(2, a.Hash(), 4, nil, "B")
	if err := c.Append(b, nil); err != nil {
		t.Fatalf("append B: %v", err)
	}

	// Scenario 3: fork without reorg. A' shares tx1 with A (re-index
	// preservation, scenario 7) but is tagged differently so its hash
	// differs from A's.
	var lastEvent Event
	c.Subscribe(func(e Event) { lastEvent = e })

	aPrime := makeBlock(1, genesis.Hash(), 3, []*types.Transaction{tx1}, "A'")
	if err := c.Append(aPrime, receiptsFor(aPrime.Body.Transactions)); err != nil {
		t.Fatalf("append A': %v", err)
	}
	if _, ok := lastEvent.(Fork); !ok {
		t.Fatalf("expected Fork event, got %T", lastEvent)
	}
	if head := c.ChainHead(); head.Hash != b.Hash() {
		t.Fatalf("chain head changed on fork: %x", head.Hash)
	}
	if _, ok := c.Forks()[aPrime.Hash()]; !ok {
		t.Fatalf("expected forks = {A'}, got %v", c.Forks())
	}

	// Scenario 4: fork extension. B' extends A', TD(B')=11 < TD(B)=12.
	bPrime := makeBlock(2, aPrime.Hash(), 3, nil, "B'")
	if err := c.Append(bPrime, nil); err != nil {
		t.Fatalf("append B': %v", err)
	}
	if _, ok := lastEvent.(Fork); !ok {
		t.Fatalf("expected Fork event for B', got %T", lastEvent)
	}
	forks := c.Forks()
	if _, ok := forks[bPrime.Hash()]; !ok {
		t.Fatalf("expected forks = {B'}, got %v", forks)
	}
	if _, ok := forks[aPrime.Hash()]; ok {
		t.Fatalf("A' should have been replaced by B' in forks, got %v", forks)
	}

	// Scenario 6: tie-break. X has TD == TD(B); incumbent wins.
	x := makeBlock(1, genesis.Hash(), 7, nil, "X")
	if err := c.Append(x, nil); err != nil {
		t.Fatalf("append X: %v", err)
	}
	if _, ok := lastEvent.(Fork); !ok {
		t.Fatalf("expected Fork event for tie-break X, got %T", lastEvent)
	}
	if head := c.ChainHead(); head.Hash != b.Hash() {
		t.Fatalf("tie-break must not move chain head, got %x", head.Hash)
	}

	// Scenario 5 + 7: reorg. C' extends B' with enough difficulty to win;
	// added = A' ++ B' ++ C', removed = B ++ A. tx1 is preserved on A'.
	cPrime := makeBlock(3, bPrime.Hash(), 100, nil, "C'")
	if err := c.Append(cPrime, nil); err != nil {
		t.Fatalf("append C': %v", err)
	}
	reorg, ok := lastEvent.(ChainReorg)
	if !ok {
		t.Fatalf("expected ChainReorg event, got %T", lastEvent)
	}
	if reorg.NewHead != cPrime.Hash() {
		t.Fatalf("reorg.NewHead = %x, want C' %x", reorg.NewHead, cPrime.Hash())
	}
	if head := c.ChainHead(); head.Hash != cPrime.Hash() {
		t.Fatalf("chain head = %x, want C' %x", head.Hash, cPrime.Hash())
	}

	gotHash1, _ := c.HashByNumber(1)
	gotHash2, _ := c.HashByNumber(2)
	gotHash3, _ := c.HashByNumber(3)
	if gotHash1 != aPrime.Hash() || gotHash2 != bPrime.Hash() || gotHash3 != cPrime.Hash() {
		t.Fatalf("NUM2HASH not rewritten to new canonical chain: %x %x %x", gotHash1, gotHash2, gotHash3)
	}

	if _, ok := c.Forks()[b.Hash()]; !ok {
		t.Fatalf("expected old head B to become a tracked fork head, got %v", c.Forks())
	}

	// Scenario 7: tx1 (shared by A and A') must resolve to A', not be
	// de-indexed, after the reorg makes A' canonical.
	loc, ok := c.TransactionLocation(tx1.Hash())
	if !ok {
		t.Fatalf("tx1 location missing after reorg")
	}
	if loc.BlockHash != aPrime.Hash() {
		t.Fatalf("tx1 location = %x, want A' %x", loc.BlockHash, aPrime.Hash())
	}
}

// Scenario 8: disconnected rejection.
func TestDisconnectedBlockRejected(t *testing.T) {
	c, _ := newTestChain(t, 5)

	orphan := makeBlock(5, types.HexToHash("0xdead"), 1, nil, "orphan")
	err := c.Append(orphan, nil)
	if err == nil {
		t.Fatal("expected DisconnectedBlock error")
	}
	if !chainerr.IsDisconnectedBlock(err) {
		t.Fatalf("expected DisconnectedBlock, got %v", err)
	}
}

// P5: append is idempotent.
func TestAppendIdempotent(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	a := makeBlock(1, genesis.Hash(), 3, nil, "A")
	var count int
	c.Subscribe(func(Event) { count++ })

	if err := c.Append(a, nil); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := c.Append(a, nil); err != nil {
		t.Fatalf("second append: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one event across both appends, got %d", count)
	}
}

// P6: round trip.
func TestHeaderRoundTripViaChain(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	a := makeBlock(1, genesis.Hash(), 3, nil, "A")
	if err := c.Append(a, nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	stored, ok := c.HeaderByHash(a.Hash())
	if !ok {
		t.Fatalf("header not found")
	}
	if stored.Hash() != a.Hash() {
		t.Fatalf("round trip hash mismatch")
	}
}

func TestArgumentErrorOnReceiptMismatch(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	a := makeBlock(1, genesis.Hash(), 3, []*types.Transaction{makeTx(1)}, "A")
	err := c.Append(a, nil)
	if err == nil {
		t.Fatal("expected ArgumentError")
	}
	if !chainerr.IsArgumentError(err) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	c, genesis := newTestChain(t, 5)

	var count int
	id := c.Subscribe(func(Event) { count++ })
	if !c.Unsubscribe(id) {
		t.Fatal("expected Unsubscribe to report removal")
	}
	if c.Unsubscribe(id) {
		t.Fatal("expected second Unsubscribe to report no-op")
	}

	a := makeBlock(1, genesis.Hash(), 3, nil, "A")
	if err := c.Append(a, nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no events delivered after unsubscribe, got %d", count)
	}
}
