package consensus

import (
	"fmt"

	"github.com/Borishbc/kpgchain/config"
	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/internal/utxo"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// CachedStake memoizes the two expensive inputs to the kernel hash for a
// candidate outpoint. Both are immutable until a reorg crosses the
// coin's creation height.
type CachedStake struct {
	BlockFromTime uint32
	Amount        int64
}

// StakeCache maps candidate outpoints to their cached kernel inputs. A
// cache belongs to a single staker task; the caller bounds its size and
// flushes it on reorg.
type StakeCache map[types.Outpoint]CachedStake

// CacheKernel inserts the kernel inputs for prevout if the outpoint is a
// usable candidate: present in the view, mature, with its source block on
// the parent branch. Present entries are never overwritten. Super-staker
// coins are skipped — their kernel bypasses the difficulty check, so
// caching the failing path buys nothing.
func CacheKernel(cache StakeCache, prevout types.Outpoint, parent *chain.BlockIndex,
	view utxo.View, params *config.Params) error {

	if cache == nil {
		return nil
	}
	if _, ok := cache[prevout]; ok {
		return nil
	}

	coinPrev, err := view.Get(prevout)
	if err != nil {
		return fmt.Errorf("stake prevout lookup: %w", err)
	}
	if coinPrev == nil || coinPrev.Spent {
		return nil
	}
	if params.SuperStakers.Contains(coinPrev.Script) {
		return nil
	}
	if parent.Height+1-coinPrev.Height < params.CoinbaseMaturity {
		return nil
	}
	blockFrom := parent.Ancestor(coinPrev.Height)
	if blockFrom == nil {
		return nil
	}

	cache[prevout] = CachedStake{BlockFromTime: blockFrom.Time, Amount: coinPrev.Value}
	return nil
}

// CheckKernel evaluates the kernel predicate for a staker's candidate.
// With a cache hit the predicate runs on the memoized pair first — the
// common failing candidate costs one hash and one compare. A passing
// cached kernel is then re-proved through the uncached path: a deep
// reorg can leave the cached pair pointing at a branch that no longer
// exists, and only the authoritative path notices.
func CheckKernel(parent *chain.BlockIndex, bits uint32, timeBlock uint32,
	prevout types.Outpoint, view utxo.View, cache StakeCache,
	params *config.Params) error {

	if entry, ok := cache[prevout]; ok {
		if _, _, err := CheckStakeKernelHash(parent, bits, entry.BlockFromTime,
			entry.Amount, prevout, timeBlock, false); err != nil {
			return err
		}
		return checkKernelUncached(parent, bits, timeBlock, prevout, view, params)
	}
	return checkKernelUncached(parent, bits, timeBlock, prevout, view, params)
}

// checkKernelUncached is the authoritative kernel evaluation: it re-reads
// the coin, re-checks maturity and spentness, resolves the source block,
// and runs the kernel predicate.
func checkKernelUncached(parent *chain.BlockIndex, bits uint32, timeBlock uint32,
	prevout types.Outpoint, view utxo.View, params *config.Params) error {

	coinPrev, err := view.Get(prevout)
	if err != nil {
		return fmt.Errorf("stake prevout lookup: %w", err)
	}
	if coinPrev == nil || coinPrev.Spent {
		return ruleError(ErrMissingStakePrevout,
			"stake prevout %s not found in utxo set", prevout)
	}

	superStaker := params.SuperStakers.Contains(coinPrev.Script)
	if !superStaker && parent.Height+1-coinPrev.Height < params.CoinbaseMaturity {
		return ruleError(ErrImmature,
			"stake prevout %s has %d confirmations, need %d",
			prevout, parent.Height+1-coinPrev.Height, params.CoinbaseMaturity)
	}

	blockFrom := parent.Ancestor(coinPrev.Height)
	if blockFrom == nil {
		return ruleError(ErrMissingAncestor,
			"no ancestor at height %d for stake prevout %s", coinPrev.Height, prevout)
	}

	_, _, err = CheckStakeKernelHash(parent, bits, blockFrom.Time, coinPrev.Value,
		prevout, timeBlock, superStaker)
	return err
}
