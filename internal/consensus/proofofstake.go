// Package consensus implements the proof-of-stake kernel validation core:
// the stake modifier chain, the kernel predicate, full coinstake
// verification, block signature recovery, the staker's candidate cache,
// and MPoS reward script selection.
package consensus

import (
	"fmt"
	"math/big"

	"github.com/Borishbc/kpgchain/config"
	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/internal/log"
	"github.com/Borishbc/kpgchain/internal/utxo"
	"github.com/Borishbc/kpgchain/pkg/block"
	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/tx"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// ProofOfStakeResult carries the evaluated kernel of an accepted
// coinstake; the proof hash feeds the next stake modifier.
type ProofOfStakeResult struct {
	Proof  types.Hash
	Target *big.Int
}

// CheckProofOfStake runs the full block-context verification of a
// coinstake transaction claiming the slot at timeBlock on top of parent.
// The checks run in a fixed order; later checks assume earlier successes.
func CheckProofOfStake(parent *chain.BlockIndex, t *tx.Transaction, bits uint32,
	timeBlock uint32, view utxo.View, sigCache *script.SigCache,
	params *config.Params) (*ProofOfStakeResult, error) {

	if !t.IsCoinStake() {
		return nil, ruleError(ErrNotCoinstake, "transaction %s is not a coinstake", t.Hash())
	}

	txin := t.Inputs[0]
	coinPrev, err := view.Get(txin.PrevOut)
	if err != nil {
		return nil, fmt.Errorf("stake prevout lookup: %w", err)
	}
	if coinPrev == nil || coinPrev.Spent {
		return nil, ruleError(ErrMissingStakePrevout,
			"stake prevout %s not found in utxo set", txin.PrevOut)
	}

	superStaker := params.SuperStakers.Contains(coinPrev.Script)

	if !superStaker && parent.Height+1-coinPrev.Height < params.CoinbaseMaturity {
		return nil, ruleError(ErrImmature,
			"stake prevout %s at height %d has %d confirmations, need %d",
			txin.PrevOut, coinPrev.Height, parent.Height+1-coinPrev.Height,
			params.CoinbaseMaturity)
	}

	blockFrom := parent.Ancestor(coinPrev.Height)
	if blockFrom == nil {
		return nil, ruleError(ErrMissingAncestor,
			"no ancestor at height %d for stake prevout %s", coinPrev.Height, txin.PrevOut)
	}

	sp := script.Spender{
		PubKey:    txin.PubKey,
		Signature: txin.Signature,
		SigHash:   t.SignatureHash(),
	}
	if err := script.VerifySpend(coinPrev.Script, sp, sigCache); err != nil {
		return nil, ruleError(ErrBadSignature,
			"coinstake input does not spend %s: %v", txin.PrevOut, err)
	}

	proof, target, err := CheckStakeKernelHash(parent, bits, blockFrom.Time,
		coinPrev.Value, txin.PrevOut, timeBlock, superStaker)
	if err != nil {
		log.Consensus.Debug().
			Str("tx", t.Hash().String()).
			Uint32("time", timeBlock).
			Err(err).
			Msg("proof of stake rejected")
		return nil, err
	}

	return &ProofOfStakeResult{Proof: proof, Target: target}, nil
}

// CheckBlockInputPubKeyMatchesOutputPubKey enforces key correspondence
// between the staked coin and the first reward output: either the exact
// same script, or a hash-of-pubkey stake paying out to the raw pubkey of
// the same key.
func CheckBlockInputPubKeyMatchesOutputPubKey(b *block.Block, view utxo.View) error {
	coinIn, err := view.Get(b.Header.PrevoutStake)
	if err != nil {
		return fmt.Errorf("stake prevout lookup: %w", err)
	}
	if coinIn == nil {
		return ruleError(ErrMissingStakePrevout,
			"stake prevout %s not found in utxo set", b.Header.PrevoutStake)
	}

	if len(b.Transactions) < 2 || len(b.Transactions[1].Outputs) < 2 {
		return ruleError(ErrMalformedCoinstake,
			"coinstake must carry at least two outputs")
	}

	scriptIn := coinIn.Script
	scriptOut := b.Transactions[1].Outputs[1].Script

	if scriptIn.Equal(scriptOut) {
		return nil
	}

	// The only permitted asymmetry: P2PKH stake paying a P2PK output of
	// the same key.
	if scriptIn.IsPayToPubKeyHash() && scriptOut.IsPayToPubKey() {
		inKey, _ := scriptIn.KeyID()
		outKey, _ := scriptOut.KeyID()
		if inKey == outKey {
			return nil
		}
	}

	return ruleError(ErrInputOutputKeyMismatch,
		"coinstake output key does not correspond to staked coin key")
}

// CheckRecoveredPubKeyFromBlockSignature verifies that the block was
// signed by the owner of the staked coin: some recovery of the header
// signature must hash to the key-id the stake script pays. The staked
// coin is already spent by the block's own coinstake, so lookup falls
// back to main-chain history.
func CheckRecoveredPubKeyFromBlockSignature(tip *chain.BlockIndex, header *block.Header,
	view utxo.View) (bool, error) {

	coinPrev, err := view.Get(header.PrevoutStake)
	if err != nil {
		return false, fmt.Errorf("stake prevout lookup: %w", err)
	}
	if coinPrev == nil {
		coinPrev, err = view.GetSpentCoinFromMainChain(tip, header.PrevoutStake)
		if err != nil {
			return false, fmt.Errorf("spent stake recovery: %w", err)
		}
		if coinPrev == nil {
			return false, fmt.Errorf("stake prevout %s not found in utxo set or main chain",
				header.PrevoutStake)
		}
	}

	if len(header.BlockSig) == 0 {
		return false, nil
	}

	keyID, ok := coinPrev.Script.KeyID()
	if !ok {
		return false, nil
	}

	hash := header.Hash()
	for recID := byte(0); recID < 4; recID++ {
		for _, compressed := range []bool{false, true} {
			pub, err := crypto.RecoverPubKey(hash[:], header.BlockSig, recID, compressed)
			if err != nil {
				continue
			}
			if crypto.Hash160(crypto.SerializePubKey(pub, compressed)) == keyID {
				return true, nil
			}
		}
	}
	return false, nil
}
