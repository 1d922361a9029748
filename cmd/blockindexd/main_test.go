package main

import "testing"

func TestOpenBackendMemory(t *testing.T) {
	db, closeFn, err := openBackend("memory", "")
	if err != nil {
		t.Fatalf("openBackend(memory): %v", err)
	}
	defer closeFn()

	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := db.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestOpenBackendPebble(t *testing.T) {
	db, closeFn, err := openBackend("pebble", t.TempDir())
	if err != nil {
		t.Fatalf("openBackend(pebble): %v", err)
	}
	defer closeFn()

	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	if _, _, err := openBackend("bogus", ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestDevGenesisBlockIsNumberZero(t *testing.T) {
	g := devGenesisBlock()
	if g.Number() != 0 {
		t.Fatalf("genesis number = %d, want 0", g.Number())
	}
}

func TestVerbosityToLevel(t *testing.T) {
	cases := map[int]string{0: "ERROR", 1: "WARN", 2: "INFO", 4: "DEBUG"}
	for v, want := range cases {
		if got := verbosityToLevel(v).String(); got != want {
			t.Fatalf("verbosityToLevel(%d) = %s, want %s", v, got, want)
		}
	}
}
