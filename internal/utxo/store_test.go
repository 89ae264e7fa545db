package utxo

import (
	"testing"

	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/internal/storage"
	"github.com/Borishbc/kpgchain/pkg/block"
	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/tx"
	"github.com/Borishbc/kpgchain/pkg/types"
)

func testCoin(seed string, value int64, height int32) *Coin {
	return &Coin{
		Outpoint: types.Outpoint{TxID: crypto.Hash256([]byte(seed)), Index: 0},
		Value:    value,
		Script:   script.PayToKeyHash(crypto.Hash160([]byte(seed))),
		Height:   height,
	}
}

func TestStore_PutGetSpend(t *testing.T) {
	s := NewStore(storage.NewMemory(), nil)

	c := testCoin("coin", 1234, 10)
	if err := s.Put(c); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(c.Outpoint)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Value != c.Value || got.Height != c.Height {
		t.Errorf("Get returned %+v, want %+v", got, c)
	}
	if !got.Script.Equal(c.Script) {
		t.Error("round-tripped script mismatch")
	}

	// Absence is (nil, nil), not an error.
	missing, err := s.Get(types.Outpoint{TxID: crypto.Hash256([]byte("other"))})
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if missing != nil {
		t.Error("missing coin should be nil")
	}

	if err := s.Spend(c.Outpoint); err != nil {
		t.Fatalf("Spend: %v", err)
	}
	spent, err := s.Get(c.Outpoint)
	if err != nil {
		t.Fatalf("Get after spend: %v", err)
	}
	if spent != nil {
		t.Error("spent coin should leave the live set")
	}
}

func TestStore_GetSpentCoinFromMainChain(t *testing.T) {
	db := storage.NewMemory()
	blocks := chain.NewBlockStore(db)
	s := NewStore(db, blocks)

	// Height 1 holds the transaction that created the coin.
	creator := &tx.Transaction{
		Version: 1,
		Inputs: []tx.Input{{
			PrevOut:   types.Outpoint{TxID: crypto.Hash256([]byte("funding")), Index: 0},
			Signature: []byte{0x30},
			PubKey:    []byte{0x02},
		}},
		Outputs: []tx.Output{{
			Value:  9000,
			Script: script.PayToKeyHash(crypto.Hash160([]byte("owner"))),
		}},
	}
	cb := &tx.Transaction{
		Version: 1,
		Inputs:  []tx.Input{{PrevOut: types.Outpoint{}, Signature: []byte{1, 0, 0, 0}}},
		Outputs: []tx.Output{{Value: 50, Script: script.PayToKeyHash(crypto.Hash160([]byte("m")))}},
	}
	txs := []*tx.Transaction{cb, creator}
	hdr := &block.Header{Version: 1, Time: 1600000016}
	hdr.MerkleRoot = block.ComputeMerkleRoot([]types.Hash{cb.Hash(), creator.Hash()})
	blk := block.NewBlock(hdr, txs)
	if err := blocks.PutBlock(blk, 1); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}

	genesisBlk := block.NewBlock(&block.Header{Version: 1, Time: 1600000000}, []*tx.Transaction{cb})
	if err := blocks.PutBlock(genesisBlk, 0); err != nil {
		t.Fatalf("PutBlock genesis: %v", err)
	}

	genesis := &chain.BlockIndex{Hash: genesisBlk.Hash(), Height: 0}
	tip := &chain.BlockIndex{Hash: blk.Hash(), Parent: genesis, Height: 1}

	op := types.Outpoint{TxID: creator.Hash(), Index: 0}
	coin, err := s.GetSpentCoinFromMainChain(tip, op)
	if err != nil {
		t.Fatalf("GetSpentCoinFromMainChain: %v", err)
	}
	if coin == nil {
		t.Fatal("expected to recover the spent coin")
	}
	if coin.Value != 9000 || coin.Height != 1 || !coin.Spent {
		t.Errorf("recovered coin %+v has wrong metadata", coin)
	}

	// Out-of-range output index.
	bad := types.Outpoint{TxID: creator.Hash(), Index: 5}
	coin, err = s.GetSpentCoinFromMainChain(tip, bad)
	if err != nil || coin != nil {
		t.Error("out-of-range output index should yield nil, nil")
	}

	// Unknown transaction.
	unknown := types.Outpoint{TxID: crypto.Hash256([]byte("nowhere")), Index: 0}
	coin, err = s.GetSpentCoinFromMainChain(tip, unknown)
	if err != nil || coin != nil {
		t.Error("unknown outpoint should yield nil, nil")
	}
}

func TestStore_SpentRecoveryWithoutBlockStore(t *testing.T) {
	s := NewStore(storage.NewMemory(), nil)
	_, err := s.GetSpentCoinFromMainChain(nil, types.Outpoint{})
	if err == nil {
		t.Error("recovery without a block store should error")
	}
}
