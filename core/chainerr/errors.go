// Package chainerr defines the error taxonomy raised by the chain engine:
// ArgumentError, DisconnectedBlock, InvalidGenesis, and DataCorruption.
// Errors carry stack traces via cockroachdb/errors so operators can locate
// the offending call site in logs without a debugger attached.
package chainerr

import (
	"github.com/cockroachdb/errors"

	"github.com/blockindex/blockindex/core/types"
)

// ArgumentError is raised when a caller-supplied argument violates a
// precondition of the call (e.g. a receipts/transactions length mismatch).
// No state change occurs; it is always safe to retry with corrected input.
type ArgumentError struct {
	msg string
}

func (e *ArgumentError) Error() string { return e.msg }

// NewArgumentError builds an ArgumentError with a stack trace attached.
func NewArgumentError(format string, args ...interface{}) error {
	return errors.WithStack(&ArgumentError{msg: errors.Newf(format, args...).Error()})
}

// DisconnectedBlock is raised when append is given a block whose parent
// header is not known to the index.
type DisconnectedBlock struct {
	ParentHash types.Hash
}

func (e *DisconnectedBlock) Error() string {
	return "disconnected block: unknown parent " + e.ParentHash.Hex()
}

// NewDisconnectedBlock builds a DisconnectedBlock error with a stack trace.
func NewDisconnectedBlock(parentHash types.Hash) error {
	return errors.WithStack(&DisconnectedBlock{ParentHash: parentHash})
}

// InvalidGenesis is raised when the genesis block supplied at construction
// disagrees with the genesis already recorded in the storage backend, or
// does not have block number zero.
type InvalidGenesis struct {
	msg string
}

func (e *InvalidGenesis) Error() string { return e.msg }

// NewInvalidGenesis builds an InvalidGenesis error with a stack trace.
func NewInvalidGenesis(format string, args ...interface{}) error {
	return errors.WithStack(&InvalidGenesis{msg: errors.Newf(format, args...).Error()})
}

// DataCorruption is raised when an operation finds an expected row missing
// mid-operation (a violated storage invariant). The batch that triggered it
// has already been rolled back; the engine should be treated as unusable
// until an operator investigates.
type DataCorruption struct {
	msg string
}

func (e *DataCorruption) Error() string { return e.msg }

// NewDataCorruption builds a DataCorruption error with a stack trace.
func NewDataCorruption(format string, args ...interface{}) error {
	return errors.WithStack(&DataCorruption{msg: errors.Newf(format, args...).Error()})
}

// IsDataCorruption reports whether err is (or wraps) a DataCorruption.
func IsDataCorruption(err error) bool {
	var dc *DataCorruption
	return errors.As(err, &dc)
}

// IsArgumentError reports whether err is (or wraps) an ArgumentError.
func IsArgumentError(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}

// IsDisconnectedBlock reports whether err is (or wraps) a DisconnectedBlock.
func IsDisconnectedBlock(err error) bool {
	var db *DisconnectedBlock
	return errors.As(err, &db)
}

// IsInvalidGenesis reports whether err is (or wraps) an InvalidGenesis.
func IsInvalidGenesis(err error) bool {
	var ig *InvalidGenesis
	return errors.As(err, &ig)
}
