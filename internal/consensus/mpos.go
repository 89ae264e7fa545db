package consensus

import (
	"fmt"
	"sync"

	"github.com/Borishbc/kpgchain/config"
	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/internal/log"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/tx"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// StakeIndexReader resolves the key-id of the staker that produced the
// block at a height. A zero key-id is the missing-entry sentinel.
type StakeIndexReader interface {
	ReadStakeIndex(height int32) (types.KeyID, error)
}

// scriptCacheEntry pins a resolved reward script to the block hash it
// was resolved against, so reorgs invalidate it.
type scriptCacheEntry struct {
	script    script.Script
	blockHash types.Hash
}

// MPoSSelector resolves the historical stake scripts that share each
// block reward. It owns the process-wide script cache: created at node
// start, cleaned around the working height on every use, and dropped at
// shutdown with the selector itself.
type MPoSSelector struct {
	mu         sync.Mutex
	cache      map[int32]scriptCacheEntry
	chain      *chain.ActiveChain
	stakeIndex StakeIndexReader
	params     *config.Params
}

// NewMPoSSelector creates a reward selector reading the given active
// chain and stake index.
func NewMPoSSelector(active *chain.ActiveChain, stakeIndex StakeIndexReader, params *config.Params) *MPoSSelector {
	return &MPoSSelector{
		cache:      make(map[int32]scriptCacheEntry),
		chain:      active,
		stakeIndex: stakeIndex,
		params:     params,
	}
}

// GetOutputScripts returns the reward scripts of the N-1 stakers that
// share the reward of the block at height, oldest offset last. The
// recipients are taken CoinbaseMaturity blocks back so their own rewards
// have matured.
func (m *MPoSSelector) GetOutputScripts(height int32) ([]script.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The cache is keyed by recipient heights, so the working window is
	// centered on the base of the recipient range, not the new block.
	base := height - m.params.CoinbaseMaturity
	m.cleanLocked(base)
	scripts := make([]script.Script, 0, m.params.MPoSRewardRecipients-1)
	for i := 0; i < m.params.MPoSRewardRecipients-1; i++ {
		if err := m.addScriptLocked(&scripts, base-int32(i)); err != nil {
			return nil, err
		}
	}
	return scripts, nil
}

// addScriptLocked appends the reward script of the block at height. The
// caller holds m.mu with the cache already cleaned around the working
// height.
func (m *MPoSSelector) addScriptLocked(list *[]script.Script, height int32) error {
	idx := m.chain.ByHeight(height)
	if idx == nil {
		return fmt.Errorf("no active block at height %d", height)
	}

	if entry, ok := m.cache[height]; ok && entry.blockHash == idx.Hash {
		*list = append(*list, entry.script)
		return nil
	}

	if !idx.ProofOfStake {
		// Only a regtest-style chain may interleave on-demand PoW blocks
		// into an MPoS window; their share is burned.
		if !m.params.MineBlocksOnDemand {
			return fmt.Errorf("non-pos block at height %d inside mpos window", height)
		}
		*list = append(*list, script.Burn())
		return nil
	}

	staker, err := m.stakeIndex.ReadStakeIndex(height)
	if err != nil {
		return fmt.Errorf("read stake index at %d: %w", height, err)
	}
	if staker.IsZero() {
		// A lost index entry burns that share rather than halting the
		// chain; the entry stays uncached so a repaired index recovers.
		log.Consensus.Warn().
			Int32("height", height).
			Msg("stake index missing, burning mpos share")
		*list = append(*list, script.Burn())
		return nil
	}

	s := script.PayToKeyHash(staker)
	m.cache[height] = scriptCacheEntry{script: s, blockHash: idx.Hash}
	*list = append(*list, s)
	return nil
}

// CreateOutputs appends the N-1 MPoS reward outputs, each paying
// rewardPiece, to the given coinstake transaction.
func (m *MPoSSelector) CreateOutputs(t *tx.Transaction, rewardPiece int64, height int32) error {
	scripts, err := m.GetOutputScripts(height)
	if err != nil {
		return fmt.Errorf("mpos output scripts: %w", err)
	}
	for _, s := range scripts {
		t.Outputs = append(t.Outputs, tx.Output{Value: rewardPiece, Script: s})
	}
	return nil
}

// CleanCache drops cache entries outside the working window around
// height and entries whose pinned block hash fell off the active chain.
func (m *MPoSSelector) CleanCache(height int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanLocked(height)
}

// cleanLocked implements CleanCache with m.mu held.
func (m *MPoSSelector) cleanLocked(height int32) {
	window := int32(3 * m.params.MPoSRewardRecipients / 2)
	for h, entry := range m.cache {
		if h < height-window || h > height+window {
			delete(m.cache, h)
			continue
		}
		idx := m.chain.ByHeight(h)
		if idx == nil || idx.Hash != entry.blockHash {
			delete(m.cache, h)
		}
	}
}

// cacheLen reports the live entry count (test hook).
func (m *MPoSSelector) cacheLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}
