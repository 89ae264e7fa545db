package consensus

import (
	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// ComputeStakeModifier derives the stake modifier for a block from its
// accepted kernel hash and the parent's modifier. The modifier chain is
// what keeps future kernels unpredictable: each accepted block folds its
// kernel into the scrambler every descendant will hash against.
//
// At genesis (nil parent) the modifier is zero. Everywhere else it is
// SHA-256d over the 64-byte concatenation kernelHash || parent modifier,
// both in their 32-byte little-endian serialization.
func ComputeStakeModifier(parent *chain.BlockIndex, kernelHash types.Hash) types.Hash {
	if parent == nil {
		return types.Hash{}
	}

	var buf [64]byte
	copy(buf[:32], kernelHash[:])
	copy(buf[32:], parent.StakeModifier[:])
	return crypto.Hash256(buf[:])
}
