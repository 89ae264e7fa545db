package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyIDSize is the length of a public key hash in bytes.
const KeyIDSize = 20

// KeyID is the 160-bit hash of a public key, as embedded in P2PKH
// outputs and in the per-block stake index.
type KeyID [KeyIDSize]byte

// IsZero returns true if the key ID is all zeros. A zero key ID is the
// stake-index sentinel for a missing entry.
func (k KeyID) IsZero() bool {
	return k == KeyID{}
}

// String returns the hex-encoded key ID.
func (k KeyID) String() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns a copy of the key ID as a byte slice.
func (k KeyID) Bytes() []byte {
	b := make([]byte, KeyIDSize)
	copy(b, k[:])
	return b
}

// MarshalJSON encodes the key ID as a hex string.
func (k KeyID) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a hex string into a key ID.
func (k *KeyID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = KeyID{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid key id hex: %w", err)
	}
	if len(decoded) != KeyIDSize {
		return fmt.Errorf("key id must be %d bytes, got %d", KeyIDSize, len(decoded))
	}
	copy(k[:], decoded)
	return nil
}
