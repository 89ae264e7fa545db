package chain

import (
	"testing"

	"github.com/Borishbc/kpgchain/internal/storage"
	"github.com/Borishbc/kpgchain/pkg/block"
	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/tx"
	"github.com/Borishbc/kpgchain/pkg/types"
)

func testBlock(tag byte) *block.Block {
	cb := &tx.Transaction{
		Version: 1,
		Inputs: []tx.Input{{
			PrevOut:   types.Outpoint{},
			Signature: []byte{tag, 0, 0, 0},
		}},
		Outputs: []tx.Output{{
			Value:  5000,
			Script: script.PayToKeyHash(crypto.Hash160([]byte{tag})),
		}},
	}
	hdr := &block.Header{
		Version: 1,
		Time:    1600000000 + uint32(tag)*16,
	}
	hdr.MerkleRoot = block.ComputeMerkleRoot([]types.Hash{cb.Hash()})
	return block.NewBlock(hdr, []*tx.Transaction{cb})
}

func TestBlockStore_PutGetRoundTrip(t *testing.T) {
	bs := NewBlockStore(storage.NewMemory())

	blk := testBlock(1)
	if err := bs.PutBlock(blk, 1); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}

	got, err := bs.GetBlock(blk.Hash())
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if got.Hash() != blk.Hash() {
		t.Error("round-tripped block hash mismatch")
	}

	byHeight, err := bs.GetBlockByHeight(1)
	if err != nil {
		t.Fatalf("GetBlockByHeight: %v", err)
	}
	if byHeight.Hash() != blk.Hash() {
		t.Error("height index should resolve to the same block")
	}

	if _, err := bs.GetBlockByHeight(2); err == nil {
		t.Error("missing height should error")
	}

	ok, err := bs.HasBlock(blk.Hash())
	if err != nil || !ok {
		t.Error("HasBlock should report stored blocks")
	}
}

func TestBlockStore_StakeIndex(t *testing.T) {
	bs := NewBlockStore(storage.NewMemory())

	staker := crypto.Hash160([]byte("staker key"))
	if err := bs.PutStakeIndex(42, staker); err != nil {
		t.Fatalf("PutStakeIndex: %v", err)
	}

	got, err := bs.ReadStakeIndex(42)
	if err != nil {
		t.Fatalf("ReadStakeIndex: %v", err)
	}
	if got != staker {
		t.Errorf("ReadStakeIndex = %s, want %s", got, staker)
	}

	// Missing entries return the zero sentinel without error.
	missing, err := bs.ReadStakeIndex(43)
	if err != nil {
		t.Fatalf("ReadStakeIndex missing: %v", err)
	}
	if !missing.IsZero() {
		t.Error("missing stake index entry should be the zero sentinel")
	}

	if err := bs.DeleteStakeIndex(42); err != nil {
		t.Fatalf("DeleteStakeIndex: %v", err)
	}
	gone, err := bs.ReadStakeIndex(42)
	if err != nil {
		t.Fatalf("ReadStakeIndex after delete: %v", err)
	}
	if !gone.IsZero() {
		t.Error("deleted stake index entry should read as zero")
	}
}
