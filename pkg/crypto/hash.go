// Package crypto provides the cryptographic primitives of the kpgchain
// consensus protocol.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"

	"github.com/Borishbc/kpgchain/pkg/types"
)

// Hash256 computes SHA256(SHA256(data)), the hash used by every
// consensus-critical hasher in the protocol.
func Hash256(data []byte) types.Hash {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Hash160 computes RIPEMD160(SHA256(data)). It is the key-id derivation
// used by P2PKH outputs and the stake index.
func Hash160(data []byte) types.KeyID {
	first := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(first[:])
	var id types.KeyID
	copy(id[:], r.Sum(nil))
	return id
}

// HashConcat hashes the concatenation of two hashes.
// Used for building merkle trees.
func HashConcat(a, b types.Hash) types.Hash {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return Hash256(buf[:])
}
