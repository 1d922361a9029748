// Package core implements the mutable blockchain index: the chain engine
// (C5) that accepts validated blocks and receipts, persists them through
// the rawdb storage backend (C1), and maintains the canonical chain —
// tracking forks, walking reorgs, and keeping the number-to-hash and
// transaction-location reverse indices consistent with whichever chain
// currently carries the greatest total difficulty.
package core

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/blockindex/blockindex/core/chainerr"
	"github.com/blockindex/blockindex/core/rawdb"
	"github.com/blockindex/blockindex/core/types"
	"github.com/blockindex/blockindex/log"
	"github.com/blockindex/blockindex/metrics"
)

// Chain is the chain engine (C5): genesis install, append, fork handling,
// reorg walk-back and indexing, all serialized behind a single writer
// mutex. Reads other than the Forks test hook bypass the mutex and rely on the backing Store's
// own read consistency.
type Chain struct {
	mu        sync.Mutex
	store     *rawdb.Store
	observers *observerRegistry
	log       *log.Logger

	// head caches the current ChainHead so ChainHead()/ChainHeadHash()/
	// ChainHeadNumber() are infallible after construction.
	head cachedHead

	// forkHeads mirrors the persisted FORK_HEADS set; guarded by mu, read
	// only by Forks() (a test hook) and mutated only inside append.
	forkHeads mapset.Set[types.Hash]
}

// cachedHead guards the cached chain head with a plain mutex: the value is
// small and updated only while mu (the engine's writer mutex) is already
// held, but ChainHead() may be called from other goroutines, so
// reads take their own lock rather than the writer mutex.
type cachedHead struct {
	mu    sync.RWMutex
	value types.ChainHead
}

func (c *cachedHead) get() types.ChainHead {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *cachedHead) set(v types.ChainHead) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

// NewChain installs or verifies genesis against store and returns a ready
// engine. Fails with InvalidGenesis if genesis.Header.Number != 0 or the
// stored genesis disagrees with the one supplied; fails with DataCorruption
// if the store's chain references rows that are missing.
func NewChain(genesis *types.Block, store *rawdb.Store) (*Chain, error) {
	if genesis.Header.Number != 0 {
		return nil, chainerr.NewInvalidGenesis("genesis block number must be 0, got %d", genesis.Header.Number)
	}

	c := &Chain{
		store:     store,
		observers: newObserverRegistry(),
		log:       log.Default().Module("core.chain"),
		forkHeads: mapset.NewSet[types.Hash](),
	}

	hash := genesis.Hash()
	existingHead, headExists := store.GetChainHead()
	if !headExists {
		if err := c.installGenesis(genesis, hash); err != nil {
			return nil, err
		}
		return c, nil
	}

	storedGenesisHash, ok := store.GetHash(0)
	if !ok {
		return nil, chainerr.NewDataCorruption("stored chain has a chain head but no NUM2HASH(0) entry")
	}
	if storedGenesisHash != hash {
		return nil, chainerr.NewInvalidGenesis("supplied genesis %s does not match stored genesis %s", hash.Hex(), storedGenesisHash.Hex())
	}

	td, ok := store.GetTD(existingHead)
	if !ok {
		return nil, chainerr.NewDataCorruption("stored chain head %s has no TD entry", existingHead.Hex())
	}
	head, ok := store.GetHeader(existingHead)
	if !ok {
		return nil, chainerr.NewDataCorruption("stored chain head %s has no HEADER entry", existingHead.Hex())
	}
	c.head.set(types.ChainHead{Hash: existingHead, TotalDifficulty: td})
	if heads, ok := store.GetForkHeads(); ok {
		for _, h := range heads {
			c.forkHeads.Add(h)
		}
	}
	c.reportMetrics(head.Number, td)
	return c, nil
}

func (c *Chain) installGenesis(genesis *types.Block, hash types.Hash) error {
	td := types.NewTotalDifficulty(0).Add(types.NewTotalDifficultyFromUint256(genesis.Header.Difficulty))

	u := c.store.NewUpdater()
	if err := u.PutHeader(genesis.Header); err != nil {
		u.Rollback()
		return err
	}
	if err := u.PutBody(hash, genesis.Body); err != nil {
		u.Rollback()
		return err
	}
	if err := u.PutReceipts(hash, nil); err != nil {
		u.Rollback()
		return err
	}
	u.PutTD(hash, td)
	u.PutHash(0, hash)
	u.SetChainHead(hash)
	if err := u.SetForkHeads(nil); err != nil {
		u.Rollback()
		return err
	}
	if err := u.Commit(); err != nil {
		return err
	}

	c.head.set(types.ChainHead{Hash: hash, TotalDifficulty: td})
	c.reportMetrics(genesis.Header.Number, td)
	c.log.Info("genesis installed", "hash", hash.Hex())
	return nil
}

func (c *Chain) reportMetrics(height uint64, td *types.TotalDifficulty) {
	metrics.ChainHeight.Set(int64(height))
	metrics.ChainDifficultyTotal.Set(int64(td.Uint256().Uint64()))
}

// ChainHead returns the current canonical tip. Infallible after construction.
func (c *Chain) ChainHead() types.ChainHead { return c.head.get() }

// ChainHeadHash returns the current canonical tip's hash.
func (c *Chain) ChainHeadHash() types.Hash { return c.head.get().Hash }

// ChainHeadNumber returns the current canonical tip's block number.
func (c *Chain) ChainHeadNumber() uint64 {
	hash := c.ChainHeadHash()
	h, ok := c.store.GetHeader(hash)
	if !ok {
		return 0
	}
	return h.Number
}

// HeaderByHash returns the header stored under hash, if any.
func (c *Chain) HeaderByHash(hash types.Hash) (*types.BlockHeader, bool) {
	return c.store.GetHeader(hash)
}

// HeaderByNumber returns the canonical header at height n, if any.
func (c *Chain) HeaderByNumber(n uint64) (*types.BlockHeader, bool) {
	hash, ok := c.store.GetHash(n)
	if !ok {
		return nil, false
	}
	return c.store.GetHeader(hash)
}

// Body returns the body stored under hash, if any.
func (c *Chain) Body(hash types.Hash) (*types.BlockBody, bool) {
	return c.store.GetBody(hash)
}

// Receipts returns the receipt list stored under hash, if any.
func (c *Chain) Receipts(hash types.Hash) ([]*types.TransactionReceipt, bool) {
	return c.store.GetReceipts(hash)
}

// HashByNumber returns the canonical hash at height n, if any.
func (c *Chain) HashByNumber(n uint64) (types.Hash, bool) {
	return c.store.GetHash(n)
}

// TD returns the total difficulty recorded for hash, if any.
func (c *Chain) TD(hash types.Hash) (*types.TotalDifficulty, bool) {
	return c.store.GetTD(hash)
}

// Transaction resolves a transaction by hash via TXLOC then BODY. Only
// canonical transactions are findable.
func (c *Chain) Transaction(txHash types.Hash) (*types.Transaction, bool) {
	loc, ok := c.store.GetTxLocation(txHash)
	if !ok {
		return nil, false
	}
	body, ok := c.store.GetBody(loc.BlockHash)
	if !ok || int(loc.Index) >= len(body.Transactions) {
		return nil, false
	}
	return body.Transactions[loc.Index], true
}

// TransactionLocation returns the indexed location of a canonical
// transaction, if any.
func (c *Chain) TransactionLocation(txHash types.Hash) (types.TransactionLocation, bool) {
	return c.store.GetTxLocation(txHash)
}

// Subscribe registers an observer and returns its subscription ID.
func (c *Chain) Subscribe(obs Observer) SubscriptionID {
	return c.observers.Subscribe(obs)
}

// Unsubscribe removes a subscription, reporting whether it was present.
func (c *Chain) Unsubscribe(id SubscriptionID) bool {
	return c.observers.Unsubscribe(id)
}

// Forks returns the current set of tracked fork-head hashes (test hook).
func (c *Chain) Forks() map[types.Hash]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[types.Hash]struct{}, c.forkHeads.Cardinality())
	for _, h := range c.forkHeads.ToSlice() {
		out[h] = struct{}{}
	}
	return out
}
