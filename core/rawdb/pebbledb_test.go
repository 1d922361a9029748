package rawdb

import (
	"testing"
)

func TestPebbleDBPutGetDelete(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenPebbleDB(dir)
	if err != nil {
		t.Fatalf("OpenPebbleDB: %v", err)
	}
	defer db.Close()

	key, value := []byte("k1"), []byte("v1")
	if err := db.Put(key, value); err != nil {
		t.Fatalf("Put: %v", err)
	}
	has, err := db.Has(key)
	if err != nil || !has {
		t.Fatalf("Has: %v %v", has, err)
	}
	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(value) {
		t.Fatalf("Get = %q, want %q", got, value)
	}

	if err := db.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(key); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPebbleDBBatchAtomicity(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenPebbleDB(dir)
	if err != nil {
		t.Fatalf("OpenPebbleDB: %v", err)
	}
	defer db.Close()

	batch := db.NewBatch()
	if err := batch.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("batch Put: %v", err)
	}
	if err := batch.Put([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("batch Put: %v", err)
	}

	if _, err := db.Get([]byte("a")); err != ErrNotFound {
		t.Fatalf("expected write to be invisible before batch.Write")
	}

	if err := batch.Write(); err != nil {
		t.Fatalf("batch Write: %v", err)
	}
	got, err := db.Get([]byte("a"))
	if err != nil || string(got) != "1" {
		t.Fatalf("Get(a) = %q, %v", got, err)
	}
}

func TestPebbleDBIterator(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenPebbleDB(dir)
	if err != nil {
		t.Fatalf("OpenPebbleDB: %v", err)
	}
	defer db.Close()

	if err := db.Put([]byte("p-1"), []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Put([]byte("p-2"), []byte("y")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Put([]byte("q-1"), []byte("z")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	it := db.NewIterator([]byte("p-"))
	defer it.Release()

	var count int
	for it.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 keys under prefix p-, got %d", count)
	}
}
