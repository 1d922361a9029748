package rawdb

import "encoding/binary"

// Key prefixes for the database schema, following the single-byte
// key-family-prefix convention: each data family owns a distinct leading
// byte so that families never collide inside one flat keyspace.
var (
	headerPrefix    = []byte("h") // h + hash -> header RLP
	bodyPrefix      = []byte("b") // b + hash -> body RLP
	receiptPrefix   = []byte("r") // r + hash -> receipts RLP
	tdPrefix        = []byte("t") // t + hash -> total difficulty (32-byte big-endian)
	num2HashPrefix  = []byte("n") // n + num (8 bytes BE) -> canonical hash
	txLookupPrefix  = []byte("l") // l + tx hash -> TransactionLocation RLP
	chainHeadKey    = []byte("H") // -> current canonical tip hash
	forkHeadsKey    = []byte("F") // -> RLP list of fork-head hashes
)

// encodeBlockNumber encodes a block number as an 8-byte big-endian value,
// so that lexicographic key order matches numeric order.
func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

func headerKey(hash [32]byte) []byte {
	return append(append([]byte{}, headerPrefix...), hash[:]...)
}

func bodyKey(hash [32]byte) []byte {
	return append(append([]byte{}, bodyPrefix...), hash[:]...)
}

func receiptKey(hash [32]byte) []byte {
	return append(append([]byte{}, receiptPrefix...), hash[:]...)
}

func tdKey(hash [32]byte) []byte {
	return append(append([]byte{}, tdPrefix...), hash[:]...)
}

func num2HashKey(number uint64) []byte {
	return append(append([]byte{}, num2HashPrefix...), encodeBlockNumber(number)...)
}

func txLookupKey(txHash [32]byte) []byte {
	return append(append([]byte{}, txLookupPrefix...), txHash[:]...)
}
