package core

import "github.com/blockindex/blockindex/core/types"

// Event is the common interface satisfied by every chain event variant.
// Consumers type-switch on the concrete type to recover the payload.
type Event interface {
	eventMarker()
}

// HeadAdvanced fires when a newly appended block directly extends the
// canonical tip.
type HeadAdvanced struct {
	Block *types.Block
}

func (HeadAdvanced) eventMarker() {}

// Fork fires when a newly appended block lands on a side chain that does
// not become canonical.
type Fork struct {
	Block *types.Block
}

func (Fork) eventMarker() {}

// ChainReorg fires when the canonical chain switches to a previously
// non-canonical branch. AddedTransactions lists transactions newly made
// canonical, in ancestor-to-tip order; RemovedTransactions lists
// transactions demoted from the old canonical chain, in the order they
// were walked back (old tip toward the common ancestor).
type ChainReorg struct {
	NewHead             types.Hash
	AddedTransactions   []*types.Transaction
	RemovedTransactions []*types.Transaction
}

func (ChainReorg) eventMarker() {}
