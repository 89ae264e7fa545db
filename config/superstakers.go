package config

import (
	"bytes"
	"sort"
)

// SuperStakerSet is an immutable set of canonical scriptPubKey byte
// sequences granted the super-staker relaxations. Membership is part of
// consensus; changing the set forks the chain.
type SuperStakerSet struct {
	members map[string]struct{}
	ordered [][]byte
}

// NewSuperStakerSet builds a set from the given scripts. The input is
// copied and kept in canonical (lexicographic) order.
func NewSuperStakerSet(scripts [][]byte) *SuperStakerSet {
	s := &SuperStakerSet{members: make(map[string]struct{}, len(scripts))}
	for _, sc := range scripts {
		key := string(sc)
		if _, ok := s.members[key]; ok {
			continue
		}
		s.members[key] = struct{}{}
		cp := make([]byte, len(sc))
		copy(cp, sc)
		s.ordered = append(s.ordered, cp)
	}
	sort.Slice(s.ordered, func(i, j int) bool {
		return bytes.Compare(s.ordered[i], s.ordered[j]) < 0
	})
	return s
}

// Contains reports whether script is a super-staker script.
func (s *SuperStakerSet) Contains(script []byte) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[string(script)]
	return ok
}

// Len returns the number of scripts in the set.
func (s *SuperStakerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ordered)
}

// Scripts returns the member scripts in canonical order. The caller must
// not modify the returned slices.
func (s *SuperStakerSet) Scripts() [][]byte {
	if s == nil {
		return nil
	}
	return s.ordered
}

// mainNetSuperStakers is the compile-time whitelist for mainnet. The
// entries are the canonical P2PKH scripts of the anti-attack provision
// operators fixed at the last consensus fork.
var mainNetSuperStakers = NewSuperStakerSet([][]byte{
	hexScript("76a914cb2b26acf0079f9d9c14a4b34a1c31a537b2f54c88ac"),
	hexScript("76a9141f9a0b4d7fbf8a1c0b21af9e0c4a6f6ded6a42b988ac"),
	hexScript("76a914903bf1f4f5c01eac1c5e2f1ab0e17a0e53d2a8e788ac"),
})

// hexScript decodes a compile-time hex constant; it panics on malformed
// input because the whitelist is consensus data baked into the binary.
func hexScript(s string) []byte {
	b := make([]byte, len(s)/2)
	for i := 0; i < len(b); i++ {
		b[i] = hexNibble(s[2*i])<<4 | hexNibble(s[2*i+1])
	}
	return b
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	panic("invalid hex in super-staker script")
}
