// Package tx defines transaction types and validation.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/Borishbc/kpgchain/pkg/crypto"
	"github.com/Borishbc/kpgchain/pkg/script"
	"github.com/Borishbc/kpgchain/pkg/types"
)

// Transaction represents a kpgchain transaction.
type Transaction struct {
	Version  uint32   `json:"version"`
	Inputs   []Input  `json:"inputs"`
	Outputs  []Output `json:"outputs"`
	LockTime uint32   `json:"locktime"`
}

// Input references a UTXO being spent.
type Input struct {
	PrevOut   types.Outpoint `json:"prevout"`
	Signature []byte         `json:"signature"`
	PubKey    []byte         `json:"pubkey"`
}

// inputJSON is the JSON representation of Input with hex-encoded byte fields.
type inputJSON struct {
	PrevOut   types.Outpoint `json:"prevout"`
	Signature *string        `json:"signature"`
	PubKey    *string        `json:"pubkey"`
}

// MarshalJSON encodes the input with hex-encoded signature and pubkey.
func (in Input) MarshalJSON() ([]byte, error) {
	j := inputJSON{PrevOut: in.PrevOut}
	if in.Signature != nil {
		s := hex.EncodeToString(in.Signature)
		j.Signature = &s
	}
	if in.PubKey != nil {
		p := hex.EncodeToString(in.PubKey)
		j.PubKey = &p
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes an input with hex-encoded signature and pubkey.
func (in *Input) UnmarshalJSON(data []byte) error {
	var j inputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	in.PrevOut = j.PrevOut
	if j.Signature != nil {
		b, err := hex.DecodeString(*j.Signature)
		if err != nil {
			return err
		}
		in.Signature = b
	}
	if j.PubKey != nil {
		b, err := hex.DecodeString(*j.PubKey)
		if err != nil {
			return err
		}
		in.PubKey = b
	}
	return nil
}

// Output defines a new UTXO. Value is in base units.
type Output struct {
	Value  int64         `json:"value"`
	Script script.Script `json:"script"`
}

// IsEmpty reports whether the output is the empty marker used at vout[0]
// of a coinstake: zero value and no script.
func (o Output) IsEmpty() bool {
	return o.Value == 0 && len(o.Script) == 0
}

// Hash computes the transaction ID: the SHA-256d hash of the signing bytes.
// Signatures are excluded so the ID is stable under signing.
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash256(tx.SigningBytes())
}

// SignatureHash returns the digest every input signature commits to.
func (tx *Transaction) SignatureHash() types.Hash {
	return tx.Hash()
}

// SigningBytes returns the canonical byte representation used for hashing
// and signing.
// Format: version(4) | input_count(4) | [prevout(36)]... |
// output_count(4) | [value(8) + script_len(4) + script]... | locktime(4)
func (tx *Transaction) SigningBytes() []byte {
	var buf []byte

	// Version.
	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)

	// Input count + prevouts (no signatures, except coinbase data).
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevOut.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
		// Include coinbase data (height) in the hash so each coinbase tx
		// has a unique ID. Regular inputs skip this (signature is excluded
		// to avoid circular dependency during signing).
		if in.PrevOut.IsZero() && len(in.Signature) > 0 {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(in.Signature)))
			buf = append(buf, in.Signature...)
		}
	}

	// Output count + outputs.
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(out.Value))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.Script)))
		buf = append(buf, out.Script...)
	}

	// Locktime.
	buf = binary.LittleEndian.AppendUint32(buf, tx.LockTime)

	return buf
}

// IsCoinBase reports whether the transaction creates coins: a single input
// with a zero outpoint.
func (tx *Transaction) IsCoinBase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PrevOut.IsZero()
}

// IsCoinStake reports whether the transaction has the coinstake shape:
// at least one input spending a real outpoint, at least two outputs, and
// an empty first output.
func (tx *Transaction) IsCoinStake() bool {
	return len(tx.Inputs) > 0 &&
		!tx.Inputs[0].PrevOut.IsZero() &&
		len(tx.Outputs) >= 2 &&
		tx.Outputs[0].IsEmpty()
}
