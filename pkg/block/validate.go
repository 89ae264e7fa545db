package block

import (
	"errors"
	"fmt"

	"github.com/Borishbc/kpgchain/config"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Validation errors.
var (
	ErrNilHeader             = errors.New("block has nil header")
	ErrNoTransactions        = errors.New("block has no transactions")
	ErrBadMerkleRoot         = errors.New("merkle root mismatch")
	ErrBadVersion            = errors.New("unsupported block version")
	ErrZeroTimestamp         = errors.New("block timestamp is zero")
	ErrNoCoinbase            = errors.New("first transaction must be coinbase")
	ErrTooManyTxs            = errors.New("too many transactions in block")
	ErrBlockTooLarge         = errors.New("block too large")
	ErrDuplicateBlockInput   = errors.New("duplicate input across transactions in block")
	ErrMultipleCoinbase      = errors.New("multiple coinbase transactions in block")
	ErrMissingCoinStake      = errors.New("proof-of-stake block missing coinstake at position 1")
	ErrUnexpectedCoinStake   = errors.New("coinstake transaction in unexpected position")
	ErrStakeOutpointMismatch = errors.New("header prevoutStake does not match coinstake input")
)

// Block version constants.
const (
	CurrentVersion = 1 // The current block version produced by this software.
	MaxVersion     = 1 // Bump when a fork introduces a new block version.
)

// Validate checks block structure and internal consistency.
// This does NOT verify consensus rules; the proof-of-stake kernel and
// signature checks live in internal/consensus.
func (b *Block) Validate() error {
	if b.Header == nil {
		return ErrNilHeader
	}

	if b.Header.Version < 1 || b.Header.Version > MaxVersion {
		return fmt.Errorf("%w: got %d, want 1..%d", ErrBadVersion, b.Header.Version, MaxVersion)
	}

	if b.Header.Time == 0 {
		return ErrZeroTimestamp
	}

	if len(b.Transactions) == 0 {
		return ErrNoTransactions
	}

	if len(b.Transactions) > config.MaxBlockTxs {
		return fmt.Errorf("%w: %d txs, max %d", ErrTooManyTxs, len(b.Transactions), config.MaxBlockTxs)
	}

	// Check total block size (header signing bytes + all tx signing bytes).
	blockSize := len(b.Header.SigningBytes())
	for _, t := range b.Transactions {
		blockSize += len(t.SigningBytes())
	}
	if blockSize > config.MaxBlockSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrBlockTooLarge, blockSize, config.MaxBlockSize)
	}

	// First tx must be the coinbase, and no other tx may create coins.
	if !b.Transactions[0].IsCoinBase() {
		return ErrNoCoinbase
	}
	for i, t := range b.Transactions[1:] {
		for _, in := range t.Inputs {
			if in.PrevOut.IsZero() {
				return fmt.Errorf("tx %d: %w", i+1, ErrMultipleCoinbase)
			}
		}
	}

	// A header claiming a stake must carry the coinstake at position 1,
	// spending exactly the claimed outpoint; a PoW header must not carry
	// a coinstake anywhere.
	if b.Header.IsProofOfStake() {
		if len(b.Transactions) < 2 || !b.Transactions[1].IsCoinStake() {
			return ErrMissingCoinStake
		}
		if b.Transactions[1].Inputs[0].PrevOut != b.Header.PrevoutStake {
			return fmt.Errorf("%w: header %s, coinstake %s", ErrStakeOutpointMismatch,
				b.Header.PrevoutStake, b.Transactions[1].Inputs[0].PrevOut)
		}
		for i, t := range b.Transactions[2:] {
			if t.IsCoinStake() {
				return fmt.Errorf("tx %d: %w", i+2, ErrUnexpectedCoinStake)
			}
		}
	} else {
		for i, t := range b.Transactions[1:] {
			if t.IsCoinStake() {
				return fmt.Errorf("tx %d: %w", i+1, ErrUnexpectedCoinStake)
			}
		}
	}

	// Verify merkle root.
	txHashes := make([]types.Hash, len(b.Transactions))
	for i, t := range b.Transactions {
		txHashes[i] = t.Hash()
	}
	expectedRoot := ComputeMerkleRoot(txHashes)
	if b.Header.MerkleRoot != expectedRoot {
		return fmt.Errorf("%w: header=%s computed=%s", ErrBadMerkleRoot, b.Header.MerkleRoot, expectedRoot)
	}

	// Validate each transaction structurally.
	for i, t := range b.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
	}

	// Check for duplicate inputs across different transactions in the block.
	// (Per-tx duplicates are caught by tx.Validate above.)
	allInputs := make(map[types.Outpoint]int) // outpoint -> tx index
	for i, t := range b.Transactions {
		for _, in := range t.Inputs {
			if in.PrevOut.IsZero() {
				continue // Coinbase inputs.
			}
			if prevTx, exists := allInputs[in.PrevOut]; exists {
				return fmt.Errorf("tx %d: %w: outpoint %s also spent in tx %d",
					i, ErrDuplicateBlockInput, in.PrevOut, prevTx)
			}
			allInputs[in.PrevOut] = i
		}
	}

	return nil
}
