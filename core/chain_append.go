package core

import (
	"time"

	"github.com/blockindex/blockindex/core/chainerr"
	"github.com/blockindex/blockindex/core/rawdb"
	"github.com/blockindex/blockindex/core/types"
	"github.com/blockindex/blockindex/metrics"
)

// Append accepts an already-validated block and its receipts, persists them,
// and classifies the result against the current chain head as an advance, a
// fork, or a reorg, notifying observers synchronously before returning. See
// the reorg walk in chain_reorg.go for the case where the new block has
// strictly greater total difficulty than the current head but does not
// directly extend it.
func (c *Chain) Append(block *types.Block, receipts []*types.TransactionReceipt) error {
	if len(receipts) != len(block.Body.Transactions) {
		return chainerr.NewArgumentError("receipts count %d does not match transaction count %d", len(receipts), len(block.Body.Transactions))
	}

	start := time.Now()
	defer func() {
		metrics.AppendLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	hash := block.Hash()

	// Step 1: dedup. Re-appending an already-known block is a silent no-op.
	if _, ok := c.store.GetHeader(hash); ok {
		return nil
	}

	// Step 2: connectivity.
	parentHash := block.Header.ParentHash
	if _, ok := c.store.GetHeader(parentHash); !ok {
		return chainerr.NewDisconnectedBlock(parentHash)
	}

	// Step 3: total difficulty.
	parentTD, ok := c.store.GetTD(parentHash)
	if !ok {
		return chainerr.NewDataCorruption("missing TD for parent %s", parentHash.Hex())
	}
	td := parentTD.Add(types.NewTotalDifficultyFromUint256(block.Header.Difficulty))

	// Step 4: open the updater and write the write-once rows for this block.
	u := c.store.NewUpdater()
	if err := u.PutHeader(block.Header); err != nil {
		u.Rollback()
		return err
	}
	if err := u.PutBody(hash, block.Body); err != nil {
		u.Rollback()
		return err
	}
	if err := u.PutReceipts(hash, receipts); err != nil {
		u.Rollback()
		return err
	}
	u.PutTD(hash, td)

	currentHead := c.head.get()

	// Step 5: classify.
	var event Event
	var classifyErr error
	switch {
	case parentHash == currentHead.Hash:
		event, classifyErr = c.appendAdvance(u, block, hash)
	case td.Cmp(currentHead.TotalDifficulty) > 0:
		event, classifyErr = c.walkReorg(u, block, currentHead)
	default:
		event, classifyErr = c.appendFork(u, block, hash, parentHash)
	}
	if classifyErr != nil {
		u.Rollback()
		return classifyErr
	}

	// Step 6: commit.
	if err := u.Commit(); err != nil {
		return err
	}

	// Step 7: update the cached head/metrics (advance and reorg move the
	// tip; fork does not) and notify observers synchronously.
	metrics.BlocksAppended.Inc()
	metrics.AppendRate.Mark(1)
	switch event.(type) {
	case HeadAdvanced, ChainReorg:
		c.head.set(types.ChainHead{Hash: hash, TotalDifficulty: td})
		c.reportMetrics(block.Header.Number, td)
	}
	switch e := event.(type) {
	case Fork:
		metrics.ForksObserved.Inc()
		c.log.Info("fork appended", "number", block.Header.Number, "hash", hash.Hex())
	case ChainReorg:
		metrics.ReorgsDetected.Inc()
		c.log.Info("chain reorg", "new_head", e.NewHead.Hex(), "added", len(e.AddedTransactions), "removed", len(e.RemovedTransactions))
	}
	c.observers.Notify(event)
	return nil
}

// appendAdvance handles the case where block directly extends the current
// canonical tip: write NUM2HASH, move CHAIN_HEAD, and index every
// transaction in the block.
func (c *Chain) appendAdvance(u *rawdb.Updater, block *types.Block, hash types.Hash) (Event, error) {
	u.PutHash(block.Header.Number, hash)
	u.SetChainHead(hash)
	for i, tx := range block.Body.Transactions {
		loc := types.TransactionLocation{BlockHash: hash, Index: uint32(i)}
		if err := u.PutTxLocation(tx.Hash(), loc); err != nil {
			return nil, err
		}
	}
	return HeadAdvanced{Block: block}, nil
}

// appendFork handles the case where block neither extends the current tip
// nor outweighs it (including an exact total-difficulty tie, where the
// incumbent wins): it updates the tracked FORK_HEADS set in place.
func (c *Chain) appendFork(u *rawdb.Updater, block *types.Block, hash, parentHash types.Hash) (Event, error) {
	if c.forkHeads.Contains(parentHash) {
		c.forkHeads.Remove(parentHash)
	}
	c.forkHeads.Add(hash)
	if err := u.SetForkHeads(c.forkHeads.ToSlice()); err != nil {
		return nil, err
	}
	return Fork{Block: block}, nil
}
