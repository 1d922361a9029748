// Package rawdb implements the storage backend (C1): a low-level
// key-value Database contract (database.go, memorydb.go, pebbledb.go) and,
// on top of it, Store/Updater, which expose the chain engine's exact
// contract of optional reads and an atomic, commit-or-rollback updater.
package rawdb

import (
	"github.com/VictoriaMetrics/fastcache"

	"github.com/blockindex/blockindex/core/types"
)

const fastcacheSize = 32 * 1024 * 1024 // 32MB read-through cache.

// Store is the read side of the storage backend: pure reads returning an
// optional value (ok == false when absent), backed by a low-level Database
// and a fastcache read-through layer for header/body/receipt/TD lookups
// (the hottest paths during chain traversal and reorg walks).
type Store struct {
	db    Database
	cache *fastcache.Cache
}

// NewStore wraps a low-level Database with the Store/Updater contract.
func NewStore(db Database) *Store {
	return &Store{db: db, cache: fastcache.New(fastcacheSize)}
}

// GetHeader returns the header stored under hash, if any.
func (s *Store) GetHeader(hash types.Hash) (*types.BlockHeader, bool) {
	data, ok := s.cachedGet(headerKey(hash))
	if !ok {
		return nil, false
	}
	h, err := types.DecodeHeaderRLP(data)
	if err != nil {
		return nil, false
	}
	return h, true
}

// GetBody returns the body stored under hash, if any.
func (s *Store) GetBody(hash types.Hash) (*types.BlockBody, bool) {
	data, ok := s.cachedGet(bodyKey(hash))
	if !ok {
		return nil, false
	}
	b, err := types.DecodeBodyRLP(data)
	if err != nil {
		return nil, false
	}
	return b, true
}

// GetReceipts returns the receipt list stored under hash, if any.
func (s *Store) GetReceipts(hash types.Hash) ([]*types.TransactionReceipt, bool) {
	data, ok := s.cachedGet(receiptKey(hash))
	if !ok {
		return nil, false
	}
	rs, err := decodeReceiptListRLP(data)
	if err != nil {
		return nil, false
	}
	return rs, true
}

// GetTD returns the total difficulty stored for hash, if any.
func (s *Store) GetTD(hash types.Hash) (*types.TotalDifficulty, bool) {
	data, ok := s.cachedGet(tdKey(hash))
	if !ok {
		return nil, false
	}
	return types.TotalDifficultyFromBytes(data), true
}

// GetHash returns the canonical hash recorded for a block number, if any.
func (s *Store) GetHash(number uint64) (types.Hash, bool) {
	data, err := s.db.Get(num2HashKey(number))
	if err != nil {
		return types.Hash{}, false
	}
	return types.BytesToHash(data), true
}

// GetTxLocation returns the indexed location of a canonical transaction.
func (s *Store) GetTxLocation(txHash types.Hash) (types.TransactionLocation, bool) {
	data, err := s.db.Get(txLookupKey(txHash))
	if err != nil {
		return types.TransactionLocation{}, false
	}
	loc, err := decodeTxLocationRLP(data)
	if err != nil {
		return types.TransactionLocation{}, false
	}
	return loc, true
}

// GetChainHead returns the current canonical tip hash, if the chain has
// been initialized.
func (s *Store) GetChainHead() (types.Hash, bool) {
	data, err := s.db.Get(chainHeadKey)
	if err != nil {
		return types.Hash{}, false
	}
	return types.BytesToHash(data), true
}

// GetForkHeads returns the current set of tracked fork-head hashes.
func (s *Store) GetForkHeads() ([]types.Hash, bool) {
	data, err := s.db.Get(forkHeadsKey)
	if err != nil {
		return nil, false
	}
	heads, err := decodeHashListRLP(data)
	if err != nil {
		return nil, false
	}
	return heads, true
}

func (s *Store) cachedGet(key []byte) ([]byte, bool) {
	if v, ok := s.cache.HasGet(nil, key); ok {
		return v, true
	}
	data, err := s.db.Get(key)
	if err != nil {
		return nil, false
	}
	s.cache.Set(key, data)
	return data, true
}

// NewUpdater opens a new atomic updater against this store. Writes staged on
// the updater are invisible to the Store (and to any other reader) until
// Commit succeeds.
func (s *Store) NewUpdater() *Updater {
	return &Updater{store: s, staged: make(map[string]stagedValue)}
}
