package chainerr

import (
	"testing"

	"github.com/blockindex/blockindex/core/types"
)

func TestDisconnectedBlockMessage(t *testing.T) {
	hash := types.HexToHash("0xabc")
	err := NewDisconnectedBlock(hash)
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	if got := err.Error(); got == "" {
		t.Fatal("expected non-empty message")
	}
}

func TestIsDataCorruption(t *testing.T) {
	err := NewDataCorruption("missing row for %s", "header")
	if !IsDataCorruption(err) {
		t.Fatal("expected IsDataCorruption to recognize wrapped DataCorruption")
	}
	if IsDataCorruption(NewArgumentError("bad arg")) {
		t.Fatal("ArgumentError must not be classified as DataCorruption")
	}
}
