package consensus

import (
	"encoding/binary"
	"math/big"

	"github.com/Borishbc/kpgchain/config"
	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/internal/log"
	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// kernelBytes is the exact serialized width of the kernel preimage.
// Any deviation forks the chain.
const kernelBytes = 76

// KernelHash computes the proof hash a staker must drive below the
// weighted target. The preimage is, in order: the parent chain's stake
// modifier (32), the timestamp of the block that created the staked coin
// (4, LE), the staked outpoint (32+4, LE), and the candidate block
// timestamp (4, LE).
func KernelHash(modifier types.Hash, blockFromTime uint32, prevout types.Outpoint, timeBlock uint32) types.Hash {
	buf := make([]byte, 0, kernelBytes)
	buf = append(buf, modifier[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, blockFromTime)
	buf = append(buf, prevout.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, prevout.Index)
	buf = binary.LittleEndian.AppendUint32(buf, timeBlock)
	return crypto.Hash256(buf)
}

// CheckCoinStakeTimestamp reports whether a block timestamp sits on the
// staking grid defined by the network's timestamp mask.
func CheckCoinStakeTimestamp(timeBlock uint32, params *config.Params) bool {
	return timeBlock&params.StakeTimestampMask == 0
}

// CheckStakeKernelHash evaluates the kernel predicate for one candidate:
// does staking `prevout` (worth `amount`, created at the block whose
// timestamp is blockFromTime) win the slot at timeBlock under the
// difficulty in bits?
//
// The proof hash and weighted target are returned in all cases so
// callers can log them. A nil error means the kernel passes. Registered
// super-stakers skip the difficulty comparison once the candidate
// timestamp is at least config.SuperStakerDelay seconds past the parent
// block's.
func CheckStakeKernelHash(parent *chain.BlockIndex, bits uint32, blockFromTime uint32,
	amount int64, prevout types.Outpoint, timeBlock uint32,
	superStaker bool) (types.Hash, *big.Int, error) {

	if timeBlock < blockFromTime {
		return types.Hash{}, nil, ruleError(ErrTimestampViolation,
			"kernel timestamp %d precedes stake source block %d", timeBlock, blockFromTime)
	}

	target := WeightedTarget(bits, amount)
	proof := KernelHash(parent.StakeModifier, blockFromTime, prevout, timeBlock)

	if superStaker && timeBlock >= parent.Time+config.SuperStakerDelay {
		return proof, target, nil
	}

	if HashToBig(proof).Cmp(target) >= 0 {
		log.Consensus.Debug().
			Str("proof", proof.String()).
			Str("target", target.Text(16)).
			Str("prevout", prevout.String()).
			Msg("kernel target not met")
		return proof, target, ruleError(ErrKernelFailed,
			"kernel hash %s does not meet weighted target", proof)
	}
	return proof, target, nil
}
