package chain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/Borishbc/kpgchain/internal/storage"
	"github.com/Borishbc/kpgchain/pkg/block"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Key prefixes for the block store.
var (
	prefixBlock  = []byte("b/") // b/<hash(32)> -> block JSON
	prefixHeight = []byte("h/") // h/<height(4)> -> hash(32)
	prefixStake  = []byte("s/") // s/<height(4)> -> staker key-id(20)
)

// BlockStore persists block bodies, the height index, and the per-block
// stake index (height -> hash160 of the staker key) to a storage.DB.
type BlockStore struct {
	db storage.DB
}

// NewBlockStore creates a block store backed by the given database.
func NewBlockStore(db storage.DB) *BlockStore {
	return &BlockStore{db: db}
}

// blockKey builds a storage key for a block hash: "b/" + hash(32).
func blockKey(hash types.Hash) []byte {
	key := make([]byte, len(prefixBlock)+types.HashSize)
	copy(key, prefixBlock)
	copy(key[len(prefixBlock):], hash[:])
	return key
}

// heightKey builds a height index key: "h/" + height(4).
func heightKey(height int32) []byte {
	key := make([]byte, len(prefixHeight)+4)
	copy(key, prefixHeight)
	binary.BigEndian.PutUint32(key[len(prefixHeight):], uint32(height))
	return key
}

// stakeKey builds a stake index key: "s/" + height(4).
func stakeKey(height int32) []byte {
	key := make([]byte, len(prefixStake)+4)
	copy(key, prefixStake)
	binary.BigEndian.PutUint32(key[len(prefixStake):], uint32(height))
	return key
}

// PutBlock stores a block body and indexes it by hash and height.
func (bs *BlockStore) PutBlock(blk *block.Block, height int32) error {
	data, err := json.Marshal(blk)
	if err != nil {
		return fmt.Errorf("block marshal: %w", err)
	}

	hash := blk.Hash()
	if err := bs.db.Put(blockKey(hash), data); err != nil {
		return fmt.Errorf("block put: %w", err)
	}
	if err := bs.db.Put(heightKey(height), hash[:]); err != nil {
		return fmt.Errorf("height index put: %w", err)
	}
	return nil
}

// GetBlock retrieves a block body by its hash.
func (bs *BlockStore) GetBlock(hash types.Hash) (*block.Block, error) {
	data, err := bs.db.Get(blockKey(hash))
	if err != nil {
		return nil, fmt.Errorf("block get: %w", err)
	}
	var blk block.Block
	if err := json.Unmarshal(data, &blk); err != nil {
		return nil, fmt.Errorf("block unmarshal: %w", err)
	}
	return &blk, nil
}

// GetBlockByHeight retrieves a block body by its height on the stored
// chain.
func (bs *BlockStore) GetBlockByHeight(height int32) (*block.Block, error) {
	hashBytes, err := bs.db.Get(heightKey(height))
	if err != nil {
		return nil, fmt.Errorf("height index get: %w", err)
	}
	if len(hashBytes) != types.HashSize {
		return nil, fmt.Errorf("corrupt height index: got %d bytes, want %d", len(hashBytes), types.HashSize)
	}
	var hash types.Hash
	copy(hash[:], hashBytes)
	return bs.GetBlock(hash)
}

// HasBlock checks whether a block body is stored for the given hash.
func (bs *BlockStore) HasBlock(hash types.Hash) (bool, error) {
	return bs.db.Has(blockKey(hash))
}

// PutStakeIndex records the key-id of the staker that produced the block
// at the given height.
func (bs *BlockStore) PutStakeIndex(height int32, staker types.KeyID) error {
	if err := bs.db.Put(stakeKey(height), staker[:]); err != nil {
		return fmt.Errorf("stake index put: %w", err)
	}
	return nil
}

// ReadStakeIndex returns the key-id of the block's staker. A missing
// entry yields the zero key-id sentinel, not an error.
func (bs *BlockStore) ReadStakeIndex(height int32) (types.KeyID, error) {
	ok, err := bs.db.Has(stakeKey(height))
	if err != nil {
		return types.KeyID{}, fmt.Errorf("stake index has: %w", err)
	}
	if !ok {
		return types.KeyID{}, nil
	}
	data, err := bs.db.Get(stakeKey(height))
	if err != nil {
		return types.KeyID{}, fmt.Errorf("stake index get: %w", err)
	}
	if len(data) != types.KeyIDSize {
		return types.KeyID{}, fmt.Errorf("corrupt stake index: got %d bytes, want %d", len(data), types.KeyIDSize)
	}
	var id types.KeyID
	copy(id[:], data)
	return id, nil
}

// DeleteStakeIndex removes the stake index entry at the given height
// (used when disconnecting blocks during a reorg).
func (bs *BlockStore) DeleteStakeIndex(height int32) error {
	if err := bs.db.Delete(stakeKey(height)); err != nil {
		return fmt.Errorf("stake index delete: %w", err)
	}
	return nil
}
