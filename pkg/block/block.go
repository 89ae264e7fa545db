// Package block defines block types and validation.
package block

import (
	"github.com/Borishbc/kpgchain/pkg/tx"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Block represents a block in the chain.
type Block struct {
	Header       *Header           `json:"header"`
	Transactions []*tx.Transaction `json:"transactions"`
}

// NewBlock creates a new block with the given header and transactions.
func NewBlock(header *Header, txs []*tx.Transaction) *Block {
	return &Block{
		Header:       header,
		Transactions: txs,
	}
}

// Hash returns the block header hash.
func (b *Block) Hash() types.Hash {
	if b.Header == nil {
		return types.Hash{}
	}
	return b.Header.Hash()
}

// IsProofOfStake reports whether the block carries a coinstake: the
// header claims a staked outpoint and the second transaction has the
// coinstake shape.
func (b *Block) IsProofOfStake() bool {
	return b.Header != nil &&
		b.Header.IsProofOfStake() &&
		len(b.Transactions) > 1 &&
		b.Transactions[1].IsCoinStake()
}

// CoinStake returns the block's coinstake transaction, or nil for a
// proof-of-work block.
func (b *Block) CoinStake() *tx.Transaction {
	if !b.IsProofOfStake() {
		return nil
	}
	return b.Transactions[1]
}
