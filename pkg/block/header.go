package block

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Header contains block metadata. A proof-of-stake block commits to the
// staked outpoint in PrevoutStake and carries the producer's signature in
// BlockSig; both are zero/empty on proof-of-work blocks.
type Header struct {
	Version      uint32         `json:"version"`
	PrevHash     types.Hash     `json:"prev_hash"`
	MerkleRoot   types.Hash     `json:"merkle_root"`
	Time         uint32         `json:"time"`
	Bits         uint32         `json:"bits"`
	Nonce        uint32         `json:"nonce"`
	PrevoutStake types.Outpoint `json:"prevout_stake"`
	BlockSig     []byte         `json:"block_sig,omitempty"`
}

// headerJSON is the JSON representation of Header with a hex-encoded
// block signature.
type headerJSON struct {
	Version      uint32         `json:"version"`
	PrevHash     types.Hash     `json:"prev_hash"`
	MerkleRoot   types.Hash     `json:"merkle_root"`
	Time         uint32         `json:"time"`
	Bits         uint32         `json:"bits"`
	Nonce        uint32         `json:"nonce"`
	PrevoutStake types.Outpoint `json:"prevout_stake"`
	BlockSig     string         `json:"block_sig,omitempty"`
}

// MarshalJSON encodes the header with a hex-encoded block signature.
func (h *Header) MarshalJSON() ([]byte, error) {
	j := headerJSON{
		Version:      h.Version,
		PrevHash:     h.PrevHash,
		MerkleRoot:   h.MerkleRoot,
		Time:         h.Time,
		Bits:         h.Bits,
		Nonce:        h.Nonce,
		PrevoutStake: h.PrevoutStake,
	}
	if h.BlockSig != nil {
		j.BlockSig = hex.EncodeToString(h.BlockSig)
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a header with a hex-encoded block signature.
func (h *Header) UnmarshalJSON(data []byte) error {
	var j headerJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	h.Version = j.Version
	h.PrevHash = j.PrevHash
	h.MerkleRoot = j.MerkleRoot
	h.Time = j.Time
	h.Bits = j.Bits
	h.Nonce = j.Nonce
	h.PrevoutStake = j.PrevoutStake
	if j.BlockSig != "" {
		b, err := hex.DecodeString(j.BlockSig)
		if err != nil {
			return err
		}
		h.BlockSig = b
	}
	return nil
}

// Hash computes the block header hash. BlockSig is excluded so the hash
// is stable for signing and public-key recovery.
func (h *Header) Hash() types.Hash {
	return crypto.Hash256(h.SigningBytes())
}

// SigningBytes returns the canonical header bytes without the signature.
// Format: version(4) | prev_hash(32) | merkle_root(32) | time(4) |
// bits(4) | nonce(4) | prevout_stake_txid(32) | prevout_stake_index(4)
func (h *Header) SigningBytes() []byte {
	buf := make([]byte, 0, 116)
	buf = binary.LittleEndian.AppendUint32(buf, h.Version)
	buf = append(buf, h.PrevHash[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, h.Time)
	buf = binary.LittleEndian.AppendUint32(buf, h.Bits)
	buf = binary.LittleEndian.AppendUint32(buf, h.Nonce)
	buf = append(buf, h.PrevoutStake.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, h.PrevoutStake.Index)
	return buf
}

// IsProofOfStake reports whether the header claims a staked coin.
func (h *Header) IsProofOfStake() bool {
	return !h.PrevoutStake.IsZero()
}
