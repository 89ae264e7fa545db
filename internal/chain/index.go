// Package chain maintains the block index and the active chain used by the
// proof-of-stake validation core.
package chain

import (
	"sync"

	"github.com/Borishbc/kpgchain/pkg/types"
)

// BlockIndex is the in-memory index entry for one block. Entries form a
// tree through Parent; one branch is distinguished as the active chain.
type BlockIndex struct {
	// Hash is the block header hash.
	Hash types.Hash

	// Parent points at the previous block's entry, nil at genesis.
	Parent *BlockIndex

	// Height is the block's distance from genesis.
	Height int32

	// Time is the header timestamp.
	Time uint32

	// Bits is the compact difficulty target the block was validated
	// against.
	Bits uint32

	// StakeModifier scrambles kernel hashes built on top of this block.
	StakeModifier types.Hash

	// ProofOfStake marks blocks produced by staking; PrevoutStake is the
	// staked coin for such blocks.
	ProofOfStake bool
	PrevoutStake types.Outpoint
}

// Ancestor returns the entry at the given height on the branch ending at
// this entry, or nil if height is out of range.
func (bi *BlockIndex) Ancestor(height int32) *BlockIndex {
	if height < 0 || height > bi.Height {
		return nil
	}
	n := bi
	for n != nil && n.Height != height {
		n = n.Parent
	}
	return n
}

// ActiveChain tracks the currently-best branch, indexable by height.
type ActiveChain struct {
	mu    sync.RWMutex
	nodes []*BlockIndex
}

// NewActiveChain creates an empty active chain.
func NewActiveChain() *ActiveChain {
	return &ActiveChain{}
}

// SetTip rewinds or extends the active chain so it ends at tip. Passing
// nil empties the chain.
func (c *ActiveChain) SetTip(tip *BlockIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tip == nil {
		c.nodes = nil
		return
	}

	needed := int(tip.Height) + 1
	if cap(c.nodes) < needed {
		grown := make([]*BlockIndex, needed, needed+64)
		copy(grown, c.nodes)
		c.nodes = grown
	}
	c.nodes = c.nodes[:needed]

	// Walk back until the branch joins what is already stored.
	for n := tip; n != nil && c.nodes[n.Height] != n; n = n.Parent {
		c.nodes[n.Height] = n
	}
}

// Tip returns the last entry, or nil when empty.
func (c *ActiveChain) Tip() *BlockIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

// ByHeight returns the active entry at the given height, or nil.
func (c *ActiveChain) ByHeight(height int32) *BlockIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if height < 0 || int(height) >= len(c.nodes) {
		return nil
	}
	return c.nodes[height]
}

// Contains reports whether the entry lies on the active chain.
func (c *ActiveChain) Contains(bi *BlockIndex) bool {
	if bi == nil {
		return false
	}
	return c.ByHeight(bi.Height) == bi
}

// Height returns the tip height, or -1 when empty.
func (c *ActiveChain) Height() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int32(len(c.nodes)) - 1
}
