package rawdb

import (
	"github.com/cockroachdb/pebble"
)

// PebbleDB is a Database implementation backed by a Pebble LSM-tree store,
// for a real persistent deployment (MemoryDB remains the choice for tests
// and embedding).
type PebbleDB struct {
	db *pebble.DB
}

// OpenPebbleDB opens (creating if necessary) a Pebble database at dir.
func OpenPebbleDB(dir string) (*PebbleDB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleDB{db: db}, nil
}

func (p *PebbleDB) Has(key []byte) (bool, error) {
	v, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	_ = v
	return true, nil
}

func (p *PebbleDB) Get(key []byte) ([]byte, error) {
	v, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(v))
	copy(out, v)
	closer.Close()
	return out, nil
}

func (p *PebbleDB) Put(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *PebbleDB) Delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *PebbleDB) Close() error {
	return p.db.Close()
}

// NewBatch returns a Batch backed by a Pebble write batch, applied
// atomically on Write.
func (p *PebbleDB) NewBatch() Batch {
	return &pebbleBatch{db: p.db, batch: p.db.NewBatch()}
}

// NewIterator returns an Iterator over all keys with the given prefix.
func (p *PebbleDB) NewIterator(prefix []byte) Iterator {
	// The upper bound is the smallest key greater than every key carrying
	// the prefix; an empty or all-0xff prefix has no upper bound.
	var upper []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			upper = append([]byte{}, prefix[:i+1]...)
			upper[i]++
			break
		}
	}
	it, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upper,
	})
	if err != nil {
		return &pebbleIterator{err: err}
	}
	return &pebbleIterator{it: it, started: false}
}

type pebbleBatch struct {
	db    *pebble.DB
	batch *pebble.Batch
	size  int
}

func (b *pebbleBatch) Put(key, value []byte) error {
	b.size += len(key) + len(value)
	return b.batch.Set(key, value, nil)
}

func (b *pebbleBatch) Delete(key []byte) error {
	b.size += len(key)
	return b.batch.Delete(key, nil)
}

func (b *pebbleBatch) ValueSize() int { return b.size }

func (b *pebbleBatch) Write() error {
	return b.batch.Commit(pebble.Sync)
}

func (b *pebbleBatch) Reset() {
	b.batch.Reset()
	b.size = 0
}

type pebbleIterator struct {
	it      *pebble.Iterator
	started bool
	err     error
}

func (it *pebbleIterator) Next() bool {
	if it.err != nil || it.it == nil {
		return false
	}
	if !it.started {
		it.started = true
		return it.it.First()
	}
	return it.it.Next()
}

func (it *pebbleIterator) Key() []byte {
	if it.it == nil {
		return nil
	}
	return it.it.Key()
}

func (it *pebbleIterator) Value() []byte {
	if it.it == nil {
		return nil
	}
	return it.it.Value()
}

func (it *pebbleIterator) Release() {
	if it.it != nil {
		it.it.Close()
	}
}

// Compile-time interface checks.
var (
	_ Database         = (*PebbleDB)(nil)
	_ KeyValueIterator = (*PebbleDB)(nil)
)
