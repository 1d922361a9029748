package core

import (
	"github.com/blockindex/blockindex/core/chainerr"
	"github.com/blockindex/blockindex/core/rawdb"
	"github.com/blockindex/blockindex/core/types"
)

// walkReorg runs the reorg walk-back for a newly appended block whose total
// difficulty exceeds the current head's but which does not directly extend
// it. It rewrites NUM2HASH for every height above the common ancestor, so
// that [0, newBlock.Number] agrees with the new canonical chain (removing
// stale old-chain entries
// along the way, so no ordering artifact ever leaves both chains' heights
// overlapping above the common ancestor) and re-indexes transactions,
// preserving TXLOC for any transaction that happens to appear on both the
// old and new canonical chains.
func (c *Chain) walkReorg(u *rawdb.Updater, newBlock *types.Block, oldHead types.ChainHead) (Event, error) {
	newHash := newBlock.Hash()
	u.SetChainHead(newHash)

	added := make(map[types.Hash][]*types.Transaction)
	var addedOrder []types.Hash // populated tip-to-ancestor, reversed before use
	var removed []*types.Transaction

	nHash, nHeader, nBody := newHash, newBlock.Header, newBlock.Body

	oHash := oldHead.Hash
	oHeader, ok := c.store.GetHeader(oHash)
	if !ok {
		return nil, chainerr.NewDataCorruption("missing header for old head %s", oHash.Hex())
	}

	// Phase A: lower the new chain to the old head's height.
	for nHeader.Number > oHeader.Number {
		u.PutHash(nHeader.Number, nHash)
		added[nHash] = nBody.Transactions
		addedOrder = append(addedOrder, nHash)

		parentHash := nHeader.ParentHash
		parentHeader, ok := c.store.GetHeader(parentHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing header for %s during reorg phase A", parentHash.Hex())
		}
		parentBody, ok := c.store.GetBody(parentHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing body for %s during reorg phase A", parentHash.Hex())
		}
		nHash, nHeader, nBody = parentHash, parentHeader, parentBody
	}

	// Phase B: lower the old chain to the new chain's (now-common) height.
	for oHeader.Number > nHeader.Number {
		u.RemoveHash(oHeader.Number)

		oBody, ok := c.store.GetBody(oHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing body for %s during reorg phase B", oHash.Hex())
		}
		removed = append(removed, oBody.Transactions...)

		parentHash := oHeader.ParentHash
		parentHeader, ok := c.store.GetHeader(parentHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing header for %s during reorg phase B", parentHash.Hex())
		}
		oHash, oHeader = parentHash, parentHeader
	}

	// Phase C: walk both chains in lockstep to the common ancestor.
	for oHash != nHash {
		u.PutHash(nHeader.Number, nHash)
		added[nHash] = nBody.Transactions
		addedOrder = append(addedOrder, nHash)

		oBody, ok := c.store.GetBody(oHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing body for %s during reorg phase C", oHash.Hex())
		}
		removed = append(removed, oBody.Transactions...)

		nParentHash := nHeader.ParentHash
		nParentHeader, ok := c.store.GetHeader(nParentHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing header for %s during reorg phase C", nParentHash.Hex())
		}
		nParentBody, ok := c.store.GetBody(nParentHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing body for %s during reorg phase C", nParentHash.Hex())
		}

		oParentHash := oHeader.ParentHash
		oParentHeader, ok := c.store.GetHeader(oParentHash)
		if !ok {
			return nil, chainerr.NewDataCorruption("missing header for %s during reorg phase C", oParentHash.Hex())
		}

		nHash, nHeader, nBody = nParentHash, nParentHeader, nParentBody
		oHash, oHeader = oParentHash, oParentHeader
	}

	// addedOrder was built tip-to-ancestor; the event and TXLOC rewrite want
	// ancestor-to-tip canonical order.
	for i, j := 0, len(addedOrder)-1; i < j; i, j = i+1, j-1 {
		addedOrder[i], addedOrder[j] = addedOrder[j], addedOrder[i]
	}

	addedTxHashes := make(map[types.Hash]struct{})
	var addedFlat []*types.Transaction
	for _, blockHash := range addedOrder {
		for i, tx := range added[blockHash] {
			loc := types.TransactionLocation{BlockHash: blockHash, Index: uint32(i)}
			if err := u.PutTxLocation(tx.Hash(), loc); err != nil {
				return nil, err
			}
			addedTxHashes[tx.Hash()] = struct{}{}
			addedFlat = append(addedFlat, tx)
		}
	}

	// A transaction demoted from the old chain that also lands on the new
	// canonical chain must keep its (rewritten) TXLOC, not be de-indexed.
	var finalRemoved []*types.Transaction
	for _, tx := range removed {
		if _, reappeared := addedTxHashes[tx.Hash()]; reappeared {
			continue
		}
		u.RemoveTxLocation(tx.Hash())
		finalRemoved = append(finalRemoved, tx)
	}

	// Fork-heads bookkeeping: the demoted old tip becomes a tracked fork
	// head; if the new block's parent was itself a tracked fork head, it no
	// longer has no known children, so it is removed.
	c.forkHeads.Add(oldHead.Hash)
	if c.forkHeads.Contains(newBlock.Header.ParentHash) {
		c.forkHeads.Remove(newBlock.Header.ParentHash)
	}
	if err := u.SetForkHeads(c.forkHeads.ToSlice()); err != nil {
		return nil, err
	}

	return ChainReorg{
		NewHead:             newHash,
		AddedTransactions:   addedFlat,
		RemovedTransactions: finalRemoved,
	}, nil
}
