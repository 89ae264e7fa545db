package tx

import (
	"encoding/json"
	"testing"

	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// testOutpoint builds a deterministic non-zero outpoint.
func testOutpoint(seed string, index uint32) types.Outpoint {
	return types.Outpoint{TxID: crypto.Hash256([]byte(seed)), Index: index}
}

func testKeyID(seed string) types.KeyID {
	return crypto.Hash160([]byte(seed))
}

func TestTransaction_HashExcludesSignature(t *testing.T) {
	txn := &Transaction{
		Version: 1,
		Inputs: []Input{{
			PrevOut: testOutpoint("prev", 0),
			PubKey:  []byte{0x02, 0x01},
		}},
		Outputs: []Output{{
			Value:  1000,
			Script: script.PayToKeyHash(testKeyID("dest")),
		}},
	}

	before := txn.Hash()
	txn.Inputs[0].Signature = []byte{0x30, 0x01, 0x02}
	after := txn.Hash()
	if before != after {
		t.Error("signing must not change the transaction hash")
	}
}

func TestTransaction_HashCoversOutputs(t *testing.T) {
	txn := &Transaction{
		Version: 1,
		Inputs:  []Input{{PrevOut: testOutpoint("prev", 0)}},
		Outputs: []Output{{Value: 1000, Script: script.PayToKeyHash(testKeyID("a"))}},
	}
	h1 := txn.Hash()
	txn.Outputs[0].Value = 1001
	if txn.Hash() == h1 {
		t.Error("output value must be committed to by the hash")
	}
}

func TestIsCoinBase(t *testing.T) {
	cb := &Transaction{
		Inputs:  []Input{{PrevOut: types.Outpoint{}, Signature: []byte{0, 0, 0, 1}}},
		Outputs: []Output{{Value: 50, Script: script.PayToKeyHash(testKeyID("miner"))}},
	}
	if !cb.IsCoinBase() {
		t.Error("zero-outpoint single-input tx is a coinbase")
	}

	regular := &Transaction{
		Inputs:  []Input{{PrevOut: testOutpoint("prev", 0)}},
		Outputs: []Output{{Value: 50}},
	}
	if regular.IsCoinBase() {
		t.Error("tx spending a real outpoint is not a coinbase")
	}
}

func TestIsCoinStake(t *testing.T) {
	stakeOut := script.PayToKeyHash(testKeyID("staker"))

	valid := &Transaction{
		Inputs: []Input{{PrevOut: testOutpoint("stake", 0)}},
		Outputs: []Output{
			{}, // Empty marker.
			{Value: 5000, Script: stakeOut},
		},
	}
	if !valid.IsCoinStake() {
		t.Error("canonical coinstake shape should be recognized")
	}

	tests := []struct {
		name string
		txn  *Transaction
	}{
		{"no inputs", &Transaction{Outputs: valid.Outputs}},
		{"zero first prevout", &Transaction{
			Inputs:  []Input{{PrevOut: types.Outpoint{}}},
			Outputs: valid.Outputs,
		}},
		{"single output", &Transaction{
			Inputs:  valid.Inputs,
			Outputs: []Output{{}},
		}},
		{"non-empty first output", &Transaction{
			Inputs: valid.Inputs,
			Outputs: []Output{
				{Value: 1, Script: stakeOut},
				{Value: 5000, Script: stakeOut},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.txn.IsCoinStake() {
				t.Error("shape should not be a coinstake")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	good := &Transaction{
		Version: 1,
		Inputs: []Input{{
			PrevOut:   testOutpoint("prev", 1),
			Signature: []byte{0x30},
			PubKey:    []byte{0x02},
		}},
		Outputs: []Output{{Value: 77, Script: script.PayToKeyHash(testKeyID("x"))}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid tx rejected: %v", err)
	}

	dup := &Transaction{
		Version: 1,
		Inputs: []Input{
			{PrevOut: testOutpoint("prev", 1), Signature: []byte{1}, PubKey: []byte{2}},
			{PrevOut: testOutpoint("prev", 1), Signature: []byte{1}, PubKey: []byte{2}},
		},
		Outputs: good.Outputs,
	}
	if err := dup.Validate(); err == nil {
		t.Error("duplicate inputs should be rejected")
	}

	unsigned := &Transaction{
		Version: 1,
		Inputs:  []Input{{PrevOut: testOutpoint("prev", 1), PubKey: []byte{2}}},
		Outputs: good.Outputs,
	}
	if err := unsigned.Validate(); err == nil {
		t.Error("missing signature should be rejected")
	}

	negative := &Transaction{
		Version: 1,
		Inputs:  good.Inputs,
		Outputs: []Output{{Value: -1, Script: script.PayToKeyHash(testKeyID("x"))}},
	}
	if err := negative.Validate(); err == nil {
		t.Error("negative output should be rejected")
	}
}

func TestValidate_CoinstakeEmptyMarkerAllowed(t *testing.T) {
	cs := &Transaction{
		Version: 1,
		Inputs: []Input{{
			PrevOut:   testOutpoint("stake", 0),
			Signature: []byte{0x30},
			PubKey:    []byte{0x02},
		}},
		Outputs: []Output{
			{}, // The empty marker must not trip the zero-value rule.
			{Value: 5000, Script: script.PayToKeyHash(testKeyID("staker"))},
		},
	}
	if err := cs.Validate(); err != nil {
		t.Errorf("coinstake with empty marker rejected: %v", err)
	}
}

func TestTransaction_JSONRoundTrip(t *testing.T) {
	orig := &Transaction{
		Version: 1,
		Inputs: []Input{{
			PrevOut:   testOutpoint("prev", 2),
			Signature: []byte{0x30, 0x44},
			PubKey:    []byte{0x02, 0xaa},
		}},
		Outputs: []Output{{Value: 123, Script: script.PayToKeyHash(testKeyID("d"))}},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Hash() != orig.Hash() {
		t.Error("JSON round-trip must preserve the transaction hash")
	}
}
