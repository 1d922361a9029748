package types

// ChainHead is the current canonical tip: its hash and the total difficulty
// accumulated up to and including it.
type ChainHead struct {
	Hash            Hash
	TotalDifficulty *TotalDifficulty
}
