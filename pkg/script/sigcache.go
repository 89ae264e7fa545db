package script

import (
	"github.com/decred/dcrd/lru"

	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// SigCache remembers signatures that already verified so a staker probing
// many candidate timestamps does not re-run ECDSA for the same spend.
// Entries are keyed by a hash binding (sigHash, signature, pubkey), so a
// hit is only possible for an identical, already-valid triple.
type SigCache struct {
	cache lru.Cache
}

// NewSigCache creates a signature cache holding up to limit entries,
// evicting least-recently-used entries beyond that.
func NewSigCache(limit uint) *SigCache {
	return &SigCache{cache: lru.NewCache(limit)}
}

// entryKey collapses the triple into a fixed comparable key.
func entryKey(sigHash types.Hash, sig, pubKey []byte) types.Hash {
	buf := make([]byte, 0, len(sigHash)+len(sig)+len(pubKey))
	buf = append(buf, sigHash[:]...)
	buf = append(buf, sig...)
	buf = append(buf, pubKey...)
	return crypto.Hash256(buf)
}

// Exists reports whether the triple was previously added.
func (c *SigCache) Exists(sigHash types.Hash, sig, pubKey []byte) bool {
	if c == nil {
		return false
	}
	return c.cache.Contains(entryKey(sigHash, sig, pubKey))
}

// Add records a verified triple.
func (c *SigCache) Add(sigHash types.Hash, sig, pubKey []byte) {
	if c == nil {
		return
	}
	c.cache.Add(entryKey(sigHash, sig, pubKey))
}
