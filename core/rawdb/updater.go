package rawdb

import (
	"github.com/blockindex/blockindex/core/types"
)

// stagedValue is one pending write. A nil value with delete == true records
// a removal; the zero value (delete == false, value == nil) never occurs.
type stagedValue struct {
	value  []byte
	delete bool
}

// Updater stages a batch of writes and commits or discards them atomically.
// Reads against the owning Store never observe a staged write before
// Commit succeeds; if Commit is never called (Rollback, or the process
// dies first), none of the staged writes become visible. An Updater is
// owned by the stack frame that creates it and must not be shared.
type Updater struct {
	store  *Store
	staged map[string]stagedValue
	done   bool
}

func (u *Updater) put(key, value []byte) {
	u.staged[string(key)] = stagedValue{value: value}
}

func (u *Updater) remove(key []byte) {
	u.staged[string(key)] = stagedValue{delete: true}
}

// PutHeader stages a header write keyed by its hash.
func (u *Updater) PutHeader(h *types.BlockHeader) error {
	enc, err := h.EncodeRLP()
	if err != nil {
		return err
	}
	u.put(headerKey(h.Hash()), enc)
	return nil
}

// PutBody stages a body write keyed by the owning block's hash.
func (u *Updater) PutBody(hash types.Hash, body *types.BlockBody) error {
	enc, err := types.EncodeBodyRLP(body)
	if err != nil {
		return err
	}
	u.put(bodyKey(hash), enc)
	return nil
}

// PutReceipts stages a receipt-list write keyed by the owning block's hash.
func (u *Updater) PutReceipts(hash types.Hash, receipts []*types.TransactionReceipt) error {
	enc, err := encodeReceiptListRLP(receipts)
	if err != nil {
		return err
	}
	u.put(receiptKey(hash), enc)
	return nil
}

// PutTD stages a total-difficulty write keyed by block hash.
func (u *Updater) PutTD(hash types.Hash, td *types.TotalDifficulty) {
	b := td.Bytes32()
	u.put(tdKey(hash), b[:])
}

// PutHash stages a NUM2HASH write for a canonical block number.
func (u *Updater) PutHash(number uint64, hash types.Hash) {
	u.put(num2HashKey(number), hash.Bytes())
}

// RemoveHash stages removal of the NUM2HASH entry for a block number.
func (u *Updater) RemoveHash(number uint64) {
	u.remove(num2HashKey(number))
}

// PutTxLocation stages a TXLOC write.
func (u *Updater) PutTxLocation(txHash types.Hash, loc types.TransactionLocation) error {
	enc, err := encodeTxLocationRLP(loc)
	if err != nil {
		return err
	}
	u.put(txLookupKey(txHash), enc)
	return nil
}

// RemoveTxLocation stages removal of a TXLOC entry.
func (u *Updater) RemoveTxLocation(txHash types.Hash) {
	u.remove(txLookupKey(txHash))
}

// SetChainHead stages the CHAIN_HEAD scalar write.
func (u *Updater) SetChainHead(hash types.Hash) {
	u.put(chainHeadKey, hash.Bytes())
}

// SetForkHeads stages the FORK_HEADS scalar write.
func (u *Updater) SetForkHeads(heads []types.Hash) error {
	enc, err := encodeHashListRLP(heads)
	if err != nil {
		return err
	}
	u.put(forkHeadsKey, enc)
	return nil
}

// Commit applies every staged write atomically to the backing Database and
// invalidates any cached entries it overwrote. After Commit, the Updater
// must not be reused.
func (u *Updater) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	if len(u.staged) == 0 {
		return nil
	}
	batch := u.store.db.NewBatch()
	for k, sv := range u.staged {
		key := []byte(k)
		if sv.delete {
			if err := batch.Delete(key); err != nil {
				return err
			}
		} else {
			if err := batch.Put(key, sv.value); err != nil {
				return err
			}
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	for k, sv := range u.staged {
		key := []byte(k)
		if sv.delete {
			u.store.cache.Del(key)
		} else {
			u.store.cache.Set(key, sv.value)
		}
	}
	return nil
}

// Rollback discards every staged write. It is always safe to call, even
// after Commit (a no-op in that case).
func (u *Updater) Rollback() {
	u.done = true
	u.staged = nil
}
