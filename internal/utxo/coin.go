// Package utxo models unspent transaction outputs and the coin views the
// proof-of-stake validation core reads through.
package utxo

import (
	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Coin is one transaction output together with the metadata the kernel
// checks need: the locking script, the value, the creation height, and
// whether it came from a coinbase.
type Coin struct {
	Outpoint types.Outpoint `json:"outpoint"`
	Value    int64          `json:"value"`
	Script   script.Script  `json:"script"`
	Height   int32          `json:"height"`
	Coinbase bool           `json:"coinbase"`

	// Spent marks coins reconstructed from historical block bodies; a
	// coin in the live set is always unspent.
	Spent bool `json:"spent,omitempty"`
}

// View is the read interface the validation core uses. Get consults the
// current UTXO set only; GetSpentCoinFromMainChain is the separate,
// explicitly-invoked capability that reconstructs an already-spent coin
// from stored main-chain block bodies.
type View interface {
	// Get returns the live coin for the outpoint, or nil if it is not
	// in the current UTXO set. The error reports lookup failures only,
	// never absence.
	Get(outpoint types.Outpoint) (*Coin, error)

	// GetSpentCoinFromMainChain walks main-chain block bodies backward
	// from tip looking for the transaction that created the outpoint.
	// Returns nil if no such output exists on the branch.
	GetSpentCoinFromMainChain(tip *chain.BlockIndex, outpoint types.Outpoint) (*Coin, error)
}
