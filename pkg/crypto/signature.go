package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer signs 32-byte hashes with an ECDSA/secp256k1 private key.
type Signer interface {
	// Sign produces a DER-encoded ECDSA signature over a 32-byte hash.
	Sign(hash []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key for ECDSA signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// Sign produces a DER-encoded ECDSA signature over a 32-byte hash.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig := ecdsa.Sign(pk.key, hash)
	return sig.Serialize(), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// PublicKeyUncompressed returns the uncompressed 65-byte public key.
func (pk *PrivateKey) PublicKeyUncompressed() []byte {
	return pk.key.PubKey().SerializeUncompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// VerifySignature checks a DER-encoded ECDSA signature against a 32-byte
// hash and a serialized (compressed or uncompressed) public key.
// Returns false on any error.
func VerifySignature(hash, signature, publicKey []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// compactSigMagicOffset is the header-byte base of the compact signature
// format consumed by ecdsa.RecoverCompact. A header of 27+recID selects an
// uncompressed recovered key; adding compactSigCompressed selects the
// compressed encoding.
const (
	compactSigMagicOffset = 27
	compactSigCompressed  = 4
)

// derToScalars extracts the big-endian 32-byte R and S scalars from a
// DER-encoded ECDSA signature (SEQUENCE of two INTEGERs).
func derToScalars(sig []byte) (r, s [32]byte, err error) {
	fail := func(msg string) (a, b [32]byte, e error) {
		return a, b, fmt.Errorf("malformed DER signature: %s", msg)
	}
	if len(sig) < 8 || sig[0] != 0x30 {
		return fail("no sequence header")
	}
	if int(sig[1]) != len(sig)-2 {
		return fail("bad sequence length")
	}
	// R integer.
	if sig[2] != 0x02 {
		return fail("no R marker")
	}
	rLen := int(sig[3])
	if rLen == 0 || 4+rLen > len(sig) {
		return fail("bad R length")
	}
	rBytes := sig[4 : 4+rLen]
	// S integer.
	sOff := 4 + rLen
	if sOff+2 > len(sig) || sig[sOff] != 0x02 {
		return fail("no S marker")
	}
	sLen := int(sig[sOff+1])
	if sLen == 0 || sOff+2+sLen != len(sig) {
		return fail("bad S length")
	}
	sBytes := sig[sOff+2:]

	// Strip the sign padding byte and left-pad to 32.
	for len(rBytes) > 1 && rBytes[0] == 0x00 {
		rBytes = rBytes[1:]
	}
	for len(sBytes) > 1 && sBytes[0] == 0x00 {
		sBytes = sBytes[1:]
	}
	if len(rBytes) > 32 || len(sBytes) > 32 {
		return fail("scalar too large")
	}
	copy(r[32-len(rBytes):], rBytes)
	copy(s[32-len(sBytes):], sBytes)
	return r, s, nil
}

// RecoverPubKey recovers the public key that produced the given DER-encoded
// ECDSA signature over hash, for one of the four recovery IDs. The
// compressed flag selects which encoding of the recovered key the caller
// intends to hash; recovery itself yields the same point either way.
func RecoverPubKey(hash, derSig []byte, recID byte, compressed bool) (*secp256k1.PublicKey, error) {
	if recID > 3 {
		return nil, fmt.Errorf("recovery id %d out of range", recID)
	}
	r, s, err := derToScalars(derSig)
	if err != nil {
		return nil, err
	}
	compact := make([]byte, 65)
	compact[0] = compactSigMagicOffset + recID
	if compressed {
		compact[0] += compactSigCompressed
	}
	copy(compact[1:33], r[:])
	copy(compact[33:65], s[:])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, fmt.Errorf("recover pubkey: %w", err)
	}
	return pub, nil
}

// SerializePubKey returns the requested encoding of a public key: 33-byte
// compressed or 65-byte uncompressed. The choice changes the hash160 and
// therefore which key-id the key matches.
func SerializePubKey(pub *secp256k1.PublicKey, compressed bool) []byte {
	if compressed {
		return pub.SerializeCompressed()
	}
	return pub.SerializeUncompressed()
}
