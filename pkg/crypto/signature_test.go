package crypto

import (
	"bytes"
	"testing"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	hash := Hash256([]byte("signing payload"))

	sig, err := key.Sign(hash[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !VerifySignature(hash[:], sig, key.PublicKey()) {
		t.Error("signature should verify against compressed pubkey")
	}
	if !VerifySignature(hash[:], sig, key.PublicKeyUncompressed()) {
		t.Error("signature should verify against uncompressed pubkey")
	}

	other := Hash256([]byte("different payload"))
	if VerifySignature(other[:], sig, key.PublicKey()) {
		t.Error("signature should not verify against a different hash")
	}
}

func TestSign_RejectsBadHashLength(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if _, err := key.Sign([]byte("short")); err == nil {
		t.Error("Sign should reject a non-32-byte hash")
	}
}

func TestPrivateKeyFromBytes_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	restored, err := PrivateKeyFromBytes(key.Serialize())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	if !bytes.Equal(restored.PublicKey(), key.PublicKey()) {
		t.Error("restored key should have the same public key")
	}

	if _, err := PrivateKeyFromBytes([]byte{1, 2, 3}); err == nil {
		t.Error("PrivateKeyFromBytes should reject short input")
	}
}

func TestRecoverPubKey_FindsSigner(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	hash := Hash256([]byte("block to sign"))
	sig, err := key.Sign(hash[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// One of the eight (recID, compressed) candidates must recover the
	// signer's key under the matching encoding.
	found := false
	for recID := byte(0); recID < 4 && !found; recID++ {
		for _, compressed := range []bool{false, true} {
			pub, err := RecoverPubKey(hash[:], sig, recID, compressed)
			if err != nil {
				continue
			}
			if bytes.Equal(SerializePubKey(pub, true), key.PublicKey()) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no recovery candidate matched the signing key")
	}
}

func TestRecoverPubKey_RejectsBadInput(t *testing.T) {
	hash := Hash256([]byte("x"))
	if _, err := RecoverPubKey(hash[:], []byte{0x30, 0x00}, 0, true); err == nil {
		t.Error("RecoverPubKey should reject a truncated DER signature")
	}
	if _, err := RecoverPubKey(hash[:], nil, 5, true); err == nil {
		t.Error("RecoverPubKey should reject recovery id > 3")
	}
}

func TestDerToScalars_Malformed(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x30},
		{0x02, 0x01, 0x00},
		bytes.Repeat([]byte{0x30}, 80),
	}
	for i, c := range cases {
		if _, _, err := derToScalars(c); err == nil {
			t.Errorf("case %d: expected error for malformed DER", i)
		}
	}
}
