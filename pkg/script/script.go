// Package script implements the consensus output-script shapes of kpgchain:
// pay-to-pubkey, pay-to-pubkey-hash, and the OP_RETURN burn marker used by
// the MPoS reward path.
package script

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Script opcodes used by the consensus shapes.
const (
	OpReturn      = 0x6a
	OpDup         = 0x76
	OpEqualVerify = 0x88
	OpHash160     = 0xa9
	OpCheckSig    = 0xac

	// Direct data-push opcodes for the pubkey and key-id sizes.
	opData20 = 0x14
	opData33 = 0x21
	opData65 = 0x41
)

// Compressed and uncompressed secp256k1 public key lengths.
const (
	pubKeyLenCompressed   = 33
	pubKeyLenUncompressed = 65
)

// Script is a raw serialized output script.
type Script []byte

// Equal reports byte-for-byte equality.
func (s Script) Equal(other Script) bool {
	return bytes.Equal(s, other)
}

// IsEmpty reports whether the script has no bytes.
func (s Script) IsEmpty() bool {
	return len(s) == 0
}

// String returns the hex encoding of the script.
func (s Script) String() string {
	return hex.EncodeToString(s)
}

// MarshalJSON encodes the script as a hex string.
func (s Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(s))
}

// UnmarshalJSON decodes a hex string into a script.
func (s *Script) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*s = nil
		return nil
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return err
	}
	*s = b
	return nil
}

// IsPayToPubKeyHash reports whether the script has the canonical P2PKH
// shape: OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func (s Script) IsPayToPubKeyHash() bool {
	return len(s) == 25 &&
		s[0] == OpDup &&
		s[1] == OpHash160 &&
		s[2] == opData20 &&
		s[23] == OpEqualVerify &&
		s[24] == OpCheckSig
}

// IsPayToPubKey reports whether the script has the canonical P2PK shape:
// <33 or 65 byte pubkey push> OP_CHECKSIG.
func (s Script) IsPayToPubKey() bool {
	switch len(s) {
	case pubKeyLenCompressed + 2:
		return s[0] == opData33 && s[34] == OpCheckSig
	case pubKeyLenUncompressed + 2:
		return s[0] == opData65 && s[66] == OpCheckSig
	}
	return false
}

// IsBurn reports whether the script is the single-opcode OP_RETURN burn
// marker emitted for unrecoverable MPoS reward shares.
func (s Script) IsBurn() bool {
	return len(s) == 1 && s[0] == OpReturn
}

// PubKey returns the raw public key embedded in a P2PK script.
func (s Script) PubKey() ([]byte, bool) {
	if !s.IsPayToPubKey() {
		return nil, false
	}
	return s[1 : len(s)-1], true
}

// KeyID extracts the key-id a script pays to. For P2PKH it is the embedded
// hash; for P2PK it is the hash160 of the embedded public key. Other
// shapes have no key-id.
func (s Script) KeyID() (types.KeyID, bool) {
	switch {
	case s.IsPayToPubKeyHash():
		var id types.KeyID
		copy(id[:], s[3:23])
		return id, true
	case s.IsPayToPubKey():
		pub, _ := s.PubKey()
		return crypto.Hash160(pub), true
	}
	return types.KeyID{}, false
}

// PayToKeyHash builds the canonical P2PKH script for a key-id.
func PayToKeyHash(id types.KeyID) Script {
	s := make(Script, 25)
	s[0] = OpDup
	s[1] = OpHash160
	s[2] = opData20
	copy(s[3:23], id[:])
	s[23] = OpEqualVerify
	s[24] = OpCheckSig
	return s
}

// PayToPubKey builds the canonical P2PK script for a serialized public key.
func PayToPubKey(pubKey []byte) Script {
	s := make(Script, 0, len(pubKey)+2)
	s = append(s, byte(len(pubKey)))
	s = append(s, pubKey...)
	s = append(s, OpCheckSig)
	return s
}

// Burn returns the OP_RETURN burn script.
func Burn() Script {
	return Script{OpReturn}
}
