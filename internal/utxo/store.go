package utxo

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/Borishbc/kpgchain/internal/chain"
	"github.com/Borishbc/kpgchain/internal/storage"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// prefixCoin keys the live UTXO set: u/<txid(32)><index(4)> -> Coin JSON.
var prefixCoin = []byte("u/")

// Store implements View backed by a storage.DB for the live set and a
// chain.BlockStore for spent-coin recovery. The UTXO keyspace is isolated
// under its own prefix so the store can share a database with the chain.
type Store struct {
	db     storage.DB
	blocks *chain.BlockStore
}

// NewStore creates a UTXO store. The block store may be nil when spent
// coin recovery is not needed (only the block-signature check uses it;
// the staker's kernel checks read the live set alone).
func NewStore(db storage.DB, blocks *chain.BlockStore) *Store {
	return &Store{db: storage.NewPrefixDB(db, []byte("utxo/")), blocks: blocks}
}

// coinKey builds a storage key for an outpoint: "u/" + txid(32) + index(4).
func coinKey(op types.Outpoint) []byte {
	key := make([]byte, len(prefixCoin)+types.HashSize+4)
	copy(key, prefixCoin)
	copy(key[len(prefixCoin):], op.TxID[:])
	binary.BigEndian.PutUint32(key[len(prefixCoin)+types.HashSize:], op.Index)
	return key
}

// Get retrieves a live coin by its outpoint. Absence is (nil, nil).
func (s *Store) Get(outpoint types.Outpoint) (*Coin, error) {
	ok, err := s.db.Has(coinKey(outpoint))
	if err != nil {
		return nil, fmt.Errorf("coin has: %w", err)
	}
	if !ok {
		return nil, nil
	}
	data, err := s.db.Get(coinKey(outpoint))
	if err != nil {
		return nil, fmt.Errorf("coin get: %w", err)
	}
	var c Coin
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("coin unmarshal: %w", err)
	}
	return &c, nil
}

// Put stores a coin in the live set.
func (s *Store) Put(c *Coin) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("coin marshal: %w", err)
	}
	if err := s.db.Put(coinKey(c.Outpoint), data); err != nil {
		return fmt.Errorf("coin put: %w", err)
	}
	return nil
}

// Spend removes a coin from the live set.
func (s *Store) Spend(outpoint types.Outpoint) error {
	if err := s.db.Delete(coinKey(outpoint)); err != nil {
		return fmt.Errorf("coin delete: %w", err)
	}
	return nil
}

// GetSpentCoinFromMainChain reconstructs an already-spent coin by walking
// stored block bodies backward from tip until the creating transaction is
// found. Returns nil when the outpoint was never created on this branch.
func (s *Store) GetSpentCoinFromMainChain(tip *chain.BlockIndex, outpoint types.Outpoint) (*Coin, error) {
	if s.blocks == nil {
		return nil, fmt.Errorf("spent-coin recovery needs a block store")
	}
	for n := tip; n != nil; n = n.Parent {
		blk, err := s.blocks.GetBlock(n.Hash)
		if err != nil {
			return nil, fmt.Errorf("read block %s: %w", n.Hash, err)
		}
		for _, t := range blk.Transactions {
			if t.Hash() != outpoint.TxID {
				continue
			}
			if int(outpoint.Index) >= len(t.Outputs) {
				return nil, nil
			}
			out := t.Outputs[outpoint.Index]
			return &Coin{
				Outpoint: outpoint,
				Value:    out.Value,
				Script:   out.Script,
				Height:   n.Height,
				Coinbase: t.IsCoinBase(),
				Spent:    true,
			}, nil
		}
	}
	return nil, nil
}
