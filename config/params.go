// Package config defines the consensus parameters of the kpgchain networks.
//
// Everything in this package is consensus data: every node on a network must
// agree on these values or fork. Runtime/node settings live with the node
// operator, not here.
package config

// Shared protocol limits.
const (
	// MaxTxInputs and MaxTxOutputs bound transaction shape.
	MaxTxInputs  = 10000
	MaxTxOutputs = 10000

	// MaxScriptSize bounds a single output script.
	MaxScriptSize = 10000

	// MaxBlockTxs and MaxBlockSize bound block shape.
	MaxBlockTxs  = 50000
	MaxBlockSize = 8 * 1024 * 1024
)

// Params holds the consensus parameters of one kpgchain network.
type Params struct {
	// Name identifies the network.
	Name string

	// CoinbaseMaturity is the number of blocks a coinbase or coinstake
	// output must age before it can be staked or spent.
	CoinbaseMaturity int32

	// StakeTimestampMask snaps block timestamps onto the staking grid:
	// a timestamp is valid iff time&mask == 0.
	StakeTimestampMask uint32

	// MPoSRewardRecipients is the number of stakers sharing each block
	// reward (the producer plus MPoSRewardRecipients-1 predecessors).
	MPoSRewardRecipients int

	// MineBlocksOnDemand is set on regression-test networks where
	// proof-of-work blocks may appear at any height.
	MineBlocksOnDemand bool

	// SuperStakers is the fixed whitelist of stake scripts exempt from
	// the maturity rule and, after a 64-second delay, the difficulty
	// check.
	SuperStakers *SuperStakerSet
}

// SuperStakerDelay is the number of seconds past the parent block time
// after which a super-staker kernel skips the difficulty comparison.
const SuperStakerDelay = 64

// MainNetParams defines the main kpgchain network.
var MainNetParams = Params{
	Name:                 "mainnet",
	CoinbaseMaturity:     500,
	StakeTimestampMask:   0x0f,
	MPoSRewardRecipients: 10,
	MineBlocksOnDemand:   false,
	SuperStakers:         mainNetSuperStakers,
}

// TestNetParams defines the public test network.
var TestNetParams = Params{
	Name:                 "testnet",
	CoinbaseMaturity:     500,
	StakeTimestampMask:   0x0f,
	MPoSRewardRecipients: 10,
	MineBlocksOnDemand:   false,
	SuperStakers:         NewSuperStakerSet(nil),
}

// RegNetParams defines the regression test network. Blocks can be mined on
// demand, so proof-of-work blocks are tolerated inside MPoS windows.
var RegNetParams = Params{
	Name:                 "regnet",
	CoinbaseMaturity:     500,
	StakeTimestampMask:   0x0f,
	MPoSRewardRecipients: 10,
	MineBlocksOnDemand:   true,
	SuperStakers:         NewSuperStakerSet(nil),
}
