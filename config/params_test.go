package config

import "testing"

func TestSuperStakerSet_Contains(t *testing.T) {
	a := []byte{0x76, 0xa9, 0x01}
	b := []byte{0x76, 0xa9, 0x02}
	set := NewSuperStakerSet([][]byte{a, b, a})

	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (duplicates collapse)", set.Len())
	}
	if !set.Contains(a) || !set.Contains(b) {
		t.Error("set should contain its members")
	}
	if set.Contains([]byte{0x76, 0xa9, 0x03}) {
		t.Error("set should not contain a non-member")
	}

	var nilSet *SuperStakerSet
	if nilSet.Contains(a) {
		t.Error("nil set contains nothing")
	}
	if nilSet.Len() != 0 {
		t.Error("nil set has length 0")
	}
}

func TestSuperStakerSet_CanonicalOrder(t *testing.T) {
	set := NewSuperStakerSet([][]byte{{0x03}, {0x01}, {0x02}})
	scripts := set.Scripts()
	for i := 1; i < len(scripts); i++ {
		if string(scripts[i-1]) >= string(scripts[i]) {
			t.Fatalf("scripts not in canonical order at %d", i)
		}
	}
}

func TestNetworkParams(t *testing.T) {
	for _, p := range []Params{MainNetParams, TestNetParams, RegNetParams} {
		if p.CoinbaseMaturity != 500 {
			t.Errorf("%s: CoinbaseMaturity = %d, want 500", p.Name, p.CoinbaseMaturity)
		}
		if p.StakeTimestampMask != 0x0f {
			t.Errorf("%s: StakeTimestampMask = %#x, want 0x0f", p.Name, p.StakeTimestampMask)
		}
		if p.MPoSRewardRecipients < 1 {
			t.Errorf("%s: MPoSRewardRecipients must be >= 1", p.Name)
		}
	}
	if !RegNetParams.MineBlocksOnDemand {
		t.Error("regnet must allow blocks on demand")
	}
	if MainNetParams.MineBlocksOnDemand {
		t.Error("mainnet must not allow blocks on demand")
	}
	if MainNetParams.SuperStakers.Len() == 0 {
		t.Error("mainnet super-staker whitelist must not be empty")
	}
}
