package rawdb

import (
	"bytes"

	"github.com/blockindex/blockindex/core/types"
	"github.com/blockindex/blockindex/rlp"
)

func encodeReceiptListRLP(receipts []*types.TransactionReceipt) ([]byte, error) {
	var payload []byte
	for _, r := range receipts {
		enc, err := r.EncodeRLP()
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

func decodeReceiptListRLP(data []byte) ([]*types.TransactionReceipt, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, err
	}
	var receipts []*types.TransactionReceipt
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		r, err := types.DecodeReceiptRLP(raw)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return receipts, nil
}

func encodeTxLocationRLP(loc types.TransactionLocation) ([]byte, error) {
	var payload []byte
	for _, item := range []interface{}{loc.BlockHash, loc.Index} {
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

func decodeTxLocationRLP(data []byte) (types.TransactionLocation, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return types.TransactionLocation{}, err
	}
	var loc types.TransactionLocation
	b, err := s.Bytes()
	if err != nil {
		return types.TransactionLocation{}, err
	}
	loc.BlockHash = types.BytesToHash(b)
	idx, err := s.Uint64()
	if err != nil {
		return types.TransactionLocation{}, err
	}
	loc.Index = uint32(idx)
	if err := s.ListEnd(); err != nil {
		return types.TransactionLocation{}, err
	}
	return loc, nil
}

func encodeHashListRLP(hashes []types.Hash) ([]byte, error) {
	var payload []byte
	for _, h := range hashes {
		enc, err := rlp.EncodeToBytes(h)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

func decodeHashListRLP(data []byte) ([]types.Hash, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, err
	}
	var hashes []types.Hash
	for !s.AtListEnd() {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, types.BytesToHash(b))
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return hashes, nil
}
