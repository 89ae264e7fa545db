package script

import (
	"errors"
	"fmt"

	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Spend verification errors.
var (
	ErrUnknownScriptShape = errors.New("unsupported output script shape")
	ErrMissingPubKey      = errors.New("input carries no public key")
	ErrMissingSignature   = errors.New("input carries no signature")
	ErrKeyMismatch        = errors.New("public key does not satisfy output script")
	ErrBadSignature       = errors.New("signature verification failed")
)

// Spender is the slice of a transaction input this package needs to check
// a spend: the claimed public key, the DER signature, and the 32-byte
// digest the signature commits to.
type Spender struct {
	PubKey    []byte
	Signature []byte
	SigHash   types.Hash
}

// VerifySpend checks that the spender satisfies the given output script:
// the public key must match the script (by key-id for P2PKH, byte-equal
// for P2PK) and the signature must verify over the signature hash.
// A non-nil cache short-circuits signatures already verified.
func VerifySpend(pkScript Script, sp Spender, cache *SigCache) error {
	if len(sp.PubKey) == 0 {
		return ErrMissingPubKey
	}
	if len(sp.Signature) == 0 {
		return ErrMissingSignature
	}

	switch {
	case pkScript.IsPayToPubKeyHash():
		want, _ := pkScript.KeyID()
		if crypto.Hash160(sp.PubKey) != want {
			return fmt.Errorf("%w: key-id mismatch", ErrKeyMismatch)
		}
	case pkScript.IsPayToPubKey():
		embedded, _ := pkScript.PubKey()
		if string(embedded) != string(sp.PubKey) {
			return fmt.Errorf("%w: pubkey mismatch", ErrKeyMismatch)
		}
	default:
		return ErrUnknownScriptShape
	}

	if cache != nil && cache.Exists(sp.SigHash, sp.Signature, sp.PubKey) {
		return nil
	}
	if !crypto.VerifySignature(sp.SigHash[:], sp.Signature, sp.PubKey) {
		return ErrBadSignature
	}
	if cache != nil {
		cache.Add(sp.SigHash, sp.Signature, sp.PubKey)
	}
	return nil
}
