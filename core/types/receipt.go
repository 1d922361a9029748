package types

import (
	"bytes"

	"github.com/blockindex/blockindex/rlp"
)

// Receipt status values.
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Log is an opaque contract event entry carried inside a receipt.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// TransactionReceipt is an opaque payload stored alongside a block; the
// index persists and returns it unexamined.
type TransactionReceipt struct {
	Status            uint64
	CumulativeGasUsed uint64
	Logs              []Log
}

// NewReceipt creates a new receipt with the given status and cumulative gas.
func NewReceipt(status uint64, cumulativeGasUsed uint64) *TransactionReceipt {
	return &TransactionReceipt{Status: status, CumulativeGasUsed: cumulativeGasUsed}
}

// Succeeded reports whether the receipt indicates a successful transaction.
func (r *TransactionReceipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}

// EncodeRLP returns the RLP encoding of the receipt.
func (r *TransactionReceipt) EncodeRLP() ([]byte, error) {
	var logsPayload []byte
	for _, lg := range r.Logs {
		enc, err := encodeLogRLP(lg)
		if err != nil {
			return nil, err
		}
		logsPayload = append(logsPayload, enc...)
	}
	var payload []byte
	for _, item := range []interface{}{r.Status, r.CumulativeGasUsed} {
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	payload = append(payload, rlp.WrapList(logsPayload)...)
	return rlp.WrapList(payload), nil
}

func encodeLogRLP(lg Log) ([]byte, error) {
	var topicsPayload []byte
	for _, t := range lg.Topics {
		enc, err := rlp.EncodeToBytes(t)
		if err != nil {
			return nil, err
		}
		topicsPayload = append(topicsPayload, enc...)
	}
	var payload []byte
	addrEnc, err := rlp.EncodeToBytes(lg.Address)
	if err != nil {
		return nil, err
	}
	payload = append(payload, addrEnc...)
	payload = append(payload, rlp.WrapList(topicsPayload)...)
	dataEnc, err := rlp.EncodeToBytes(lg.Data)
	if err != nil {
		return nil, err
	}
	payload = append(payload, dataEnc...)
	return rlp.WrapList(payload), nil
}

// DecodeReceiptRLP decodes an RLP-encoded receipt.
func DecodeReceiptRLP(data []byte) (*TransactionReceipt, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, err
	}
	r := &TransactionReceipt{}
	var err error
	r.Status, err = s.Uint64()
	if err != nil {
		return nil, err
	}
	r.CumulativeGasUsed, err = s.Uint64()
	if err != nil {
		return nil, err
	}
	if _, err := s.List(); err != nil {
		return nil, err
	}
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		lg, err := decodeLogRLP(raw)
		if err != nil {
			return nil, err
		}
		r.Logs = append(r.Logs, lg)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeLogRLP(data []byte) (Log, error) {
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return Log{}, err
	}
	var lg Log
	addrBytes, err := s.Bytes()
	if err != nil {
		return Log{}, err
	}
	lg.Address = BytesToAddress(addrBytes)
	if _, err := s.List(); err != nil {
		return Log{}, err
	}
	for !s.AtListEnd() {
		b, err := s.Bytes()
		if err != nil {
			return Log{}, err
		}
		lg.Topics = append(lg.Topics, BytesToHash(b))
	}
	if err := s.ListEnd(); err != nil {
		return Log{}, err
	}
	lg.Data, err = s.Bytes()
	if err != nil {
		return Log{}, err
	}
	if err := s.ListEnd(); err != nil {
		return Log{}, err
	}
	return lg, nil
}
