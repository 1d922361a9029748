package types

import (
	"bytes"

	"github.com/blockindex/blockindex/rlp"
)

// BlockBody is the ordered sequence of transactions plus ancillary data
// (uncles/ommers) carried alongside a header. Both are opaque to the index:
// it stores and returns them without interpretation, except for walking
// Transactions to maintain the transaction-location index.
type BlockBody struct {
	Transactions []*Transaction
	Uncles       []*BlockHeader
}

// Block pairs a header with its body.
type Block struct {
	Header *BlockHeader
	Body   *BlockBody
}

// NewBlock constructs a Block from a header and body. If body is nil, an
// empty body is used (valid for genesis).
func NewBlock(header *BlockHeader, body *BlockBody) *Block {
	if body == nil {
		body = &BlockBody{}
	}
	return &Block{Header: header, Body: body}
}

// Hash returns the block's identifying hash (the header hash).
func (b *Block) Hash() Hash { return b.Header.Hash() }

// Number returns the block height.
func (b *Block) Number() uint64 { return b.Header.Number }

// ParentHash returns the parent block's hash.
func (b *Block) ParentHash() Hash { return b.Header.ParentHash }

// Transactions returns the block's transaction list.
func (b *Block) Transactions() []*Transaction { return b.Body.Transactions }

// Uncles returns the block's ancillary header list.
func (b *Block) Uncles() []*BlockHeader { return b.Body.Uncles }

// EncodeBodyRLP encodes the body portion of a block (transactions + uncles)
// as a standalone payload, independent of the header.
func EncodeBodyRLP(body *BlockBody) ([]byte, error) {
	if body == nil {
		body = &BlockBody{}
	}
	var txsPayload []byte
	for _, tx := range body.Transactions {
		enc, err := tx.EncodeRLP()
		if err != nil {
			return nil, err
		}
		txsPayload = append(txsPayload, enc...)
	}

	var unclesPayload []byte
	for _, uncle := range body.Uncles {
		enc, err := uncle.EncodeRLP()
		if err != nil {
			return nil, err
		}
		unclesPayload = append(unclesPayload, enc...)
	}

	var payload []byte
	payload = append(payload, rlp.WrapList(txsPayload)...)
	payload = append(payload, rlp.WrapList(unclesPayload)...)
	return rlp.WrapList(payload), nil
}

// DecodeBodyRLP decodes a body previously produced by EncodeBodyRLP.
func DecodeBodyRLP(data []byte) (*BlockBody, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, err
	}
	var txs []*Transaction
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTxRLP(raw)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, err
	}
	var uncles []*BlockHeader
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		uncle, err := DecodeHeaderRLP(raw)
		if err != nil {
			return nil, err
		}
		uncles = append(uncles, uncle)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	return &BlockBody{Transactions: txs, Uncles: uncles}, nil
}
