package consensus

import "fmt"

// ErrorCode identifies a consensus rejection. The set and the ban score
// attached to each code are part of the consensus contract: peers must be
// penalized identically on every node.
type ErrorCode int

const (
	// ErrNotCoinstake: the claimed coinstake transaction lacks the
	// coinstake shape.
	ErrNotCoinstake ErrorCode = iota

	// ErrMissingStakePrevout: the staked outpoint is not in the UTXO set.
	ErrMissingStakePrevout

	// ErrImmature: the staked coin has not reached coinbase maturity.
	ErrImmature

	// ErrMissingAncestor: the block that created the staked coin is not
	// an ancestor of the parent.
	ErrMissingAncestor

	// ErrBadSignature: the coinstake input does not validly spend the
	// staked coin.
	ErrBadSignature

	// ErrMalformedCoinstake: the coinstake output vector is too short.
	ErrMalformedCoinstake

	// ErrInputOutputKeyMismatch: the coinstake pays a key other than the
	// one the staked coin is locked to.
	ErrInputOutputKeyMismatch

	// ErrKernelFailed: the kernel hash did not meet the weighted target.
	ErrKernelFailed

	// ErrTimestampViolation: the kernel timestamp precedes the timestamp
	// of the block that created the staked coin.
	ErrTimestampViolation
)

// banScores maps each rejection to the penalty applied to the sending
// peer. Kernel and timestamp failures score low because they arise
// legitimately while a peer is still syncing.
var banScores = map[ErrorCode]int{
	ErrNotCoinstake:           100,
	ErrMissingStakePrevout:    100,
	ErrImmature:               100,
	ErrMissingAncestor:        100,
	ErrBadSignature:           100,
	ErrMalformedCoinstake:     100,
	ErrInputOutputKeyMismatch: 100,
	ErrKernelFailed:           1,
	ErrTimestampViolation:     1,
}

// RuleError is a consensus rejection: the block is invalid and the peer
// that relayed it is penalized by BanScore. Lookup and storage failures
// are ordinary errors, never RuleErrors.
type RuleError struct {
	Code        ErrorCode
	BanScore    int
	Description string
}

// Error implements the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError builds a RuleError with the consensus ban score for code.
func ruleError(code ErrorCode, format string, args ...interface{}) RuleError {
	return RuleError{
		Code:        code,
		BanScore:    banScores[code],
		Description: fmt.Sprintf(format, args...),
	}
}

// IsErrorCode reports whether err is a RuleError with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var re RuleError
	if !asRuleError(err, &re) {
		return false
	}
	return re.Code == code
}

// BanScore extracts the peer penalty from err, or 0 for non-consensus
// errors.
func BanScore(err error) int {
	var re RuleError
	if !asRuleError(err, &re) {
		return 0
	}
	return re.BanScore
}

// asRuleError unwraps err into a RuleError if possible.
func asRuleError(err error, out *RuleError) bool {
	for err != nil {
		if re, ok := err.(RuleError); ok {
			*out = re
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
