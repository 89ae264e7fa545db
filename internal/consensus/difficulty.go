package consensus

import (
	"math/big"

	"github.com/Borishbc/kpgchain/pkg/types"
)

// maxUint256 is 2^256 - 1, the saturation bound of every target
// computation.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// CompactToBig converts a compact difficulty representation to a big
// integer.
//
// The representation packs a 256-bit number into 32 bits like IEEE754
// floating point: the most significant 8 bits are the unsigned base-256
// exponent, bit 23 is the sign, and the low 23 bits are the mantissa.
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	// Treat the exponent as the number of bytes and shift the mantissa
	// accordingly.
	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact converts a big integer to the compact representation,
// keeping only the 23 most significant mantissa bits.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// When the mantissa's sign bit is set, shift it right one byte and
	// bump the exponent so the result stays positive.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// HashToBig interprets a hash as an unsigned 256-bit integer for target
// comparisons. The hash's little-endian byte order is reversed first.
func HashToBig(hash types.Hash) *big.Int {
	for i := 0; i < types.HashSize/2; i++ {
		hash[i], hash[types.HashSize-1-i] = hash[types.HashSize-1-i], hash[i]
	}
	return new(big.Int).SetBytes(hash[:])
}

// WeightedTarget scales the compact difficulty target by the staked
// amount. A malformed (negative or over-wide) compact value and any
// product exceeding 2^256-1 saturate at 2^256-1; consensus requires
// defined behavior at overflow rather than wrapping.
func WeightedTarget(bits uint32, amount int64) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() < 0 || target.BitLen() > 256 {
		return new(big.Int).Set(maxUint256)
	}

	weighted := new(big.Int).Mul(target, big.NewInt(amount))
	if weighted.Sign() < 0 || weighted.BitLen() > 256 {
		return new(big.Int).Set(maxUint256)
	}
	return weighted
}
