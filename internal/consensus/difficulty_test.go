package consensus

import (
	"math/big"
	"testing"

	"github.com/Borishbc/kpgchain/pkg/types"
)

func TestCompactToBig_KnownValues(t *testing.T) {
	tests := []struct {
		compact uint32
		wantHex string
	}{
		{0x01003456, "0"},
		{0x01123456, "12"},
		{0x02008000, "80"},
		{0x05009234, "92340000"},
		{0x04923456, "-12345600"},
		{0x04123456, "12345600"},
	}
	for _, tt := range tests {
		got := CompactToBig(tt.compact)
		want, ok := new(big.Int).SetString(tt.wantHex, 16)
		if !ok {
			t.Fatalf("bad test hex %q", tt.wantHex)
		}
		if got.Cmp(want) != 0 {
			t.Errorf("CompactToBig(%#08x) = %x, want %s", tt.compact, got, tt.wantHex)
		}
	}
}

func TestCompactRoundTrip(t *testing.T) {
	// Values in the encodable range survive a round trip.
	compacts := []uint32{
		0x1d00ffff, // classic pow limit
		0x207fffff, // regtest limit
		0x1b0404cb,
		0x181bc330,
	}
	for _, c := range compacts {
		if got := BigToCompact(CompactToBig(c)); got != c {
			t.Errorf("BigToCompact(CompactToBig(%#08x)) = %#08x", c, got)
		}
	}

	// And exact integers round-trip through the encoding.
	n := new(big.Int).Lsh(big.NewInt(0xffff), 208)
	if CompactToBig(BigToCompact(n)).Cmp(n) != 0 {
		t.Error("CompactToBig(BigToCompact(n)) != n for exactly-representable n")
	}

	if BigToCompact(big.NewInt(0)) != 0 {
		t.Error("zero should encode to zero")
	}
}

func TestHashToBig_ReversesByteOrder(t *testing.T) {
	var h types.Hash
	h[0] = 0x01 // least significant in little-endian order
	if HashToBig(h).Cmp(big.NewInt(1)) != 0 {
		t.Error("first hash byte should be the least significant")
	}

	var top types.Hash
	top[31] = 0x80
	want := new(big.Int).Lsh(big.NewInt(0x80), 248)
	if HashToBig(top).Cmp(want) != 0 {
		t.Error("last hash byte should be the most significant")
	}
}

func TestWeightedTarget_IdentityAtAmountOne(t *testing.T) {
	for _, bits := range []uint32{0x1d00ffff, 0x207fffff, 0x1b0404cb} {
		if WeightedTarget(bits, 1).Cmp(CompactToBig(bits)) != 0 {
			t.Errorf("WeightedTarget(%#08x, 1) != CompactToBig(%#08x)", bits, bits)
		}
	}
}

func TestWeightedTarget_ScalesLinearly(t *testing.T) {
	bits := uint32(0x1d00ffff)
	base := CompactToBig(bits)
	want := new(big.Int).Mul(base, big.NewInt(250000000))
	if WeightedTarget(bits, 250000000).Cmp(want) != 0 {
		t.Error("weighted target should be target * amount")
	}
}

func TestWeightedTarget_Saturates(t *testing.T) {
	// Negative compact saturates.
	if WeightedTarget(0x04923456, 10).Cmp(maxUint256) != 0 {
		t.Error("negative target should saturate at 2^256-1")
	}

	// An over-wide decoded target saturates.
	if WeightedTarget(0xff7fffff, 1).Cmp(maxUint256) != 0 {
		t.Error("over-wide target should saturate at 2^256-1")
	}

	// A product overflowing 256 bits saturates instead of wrapping.
	if WeightedTarget(0x207fffff, int64(1)<<50).Cmp(maxUint256) != 0 {
		t.Error("overflowing product should saturate at 2^256-1")
	}
}
