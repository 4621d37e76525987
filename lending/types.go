package lending

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Action identifies one of the mutating flows the orchestrator can run. The
// value doubles as the metrics/trace label and the gas-policy key.
type Action string

const (
	ActionSupply           Action = "supply"
	ActionBorrow           Action = "borrow"
	ActionRepay            Action = "repay"
	ActionWithdraw         Action = "withdraw"
	ActionAddCollateral    Action = "addCollateral"
	ActionRemoveCollateral Action = "removeCollateral"
	ActionApprove          Action = "approve"
	ActionOracleUpdate     Action = "oracleUpdate"
	ActionRegistryWrite    Action = "registryWrite"
)

// PairConfig captures the immutable deployment parameters of a lending pair.
// Values are read straight from the pair contract and are never defaulted.
type PairConfig struct {
	// Asset is the ERC-20 token lent and borrowed through the pair.
	Asset common.Address
	// Collateral is the ERC-20 token pledged against borrows.
	Collateral common.Address
	// MaxLTV is the maximum loan-to-value ratio expressed in parts per
	// 100,000 to match the contract's fixed-point convention.
	MaxLTV *big.Int
	// CleanLiquidationFee applies to full liquidations, in parts per 100,000.
	CleanLiquidationFee *big.Int
	// DirtyLiquidationFee applies to partial liquidations, in parts per 100,000.
	DirtyLiquidationFee *big.Int
	// ProtocolLiquidationFee is the protocol's cut of liquidation proceeds.
	ProtocolLiquidationFee *big.Int
}

// BorrowTotals is the pair's aggregate debt expressed as an {amount, shares}
// pair. The ratio of the two fields is the shares-to-amount exchange rate and
// drifts upward as interest accrues.
type BorrowTotals struct {
	Amount *big.Int
	Shares *big.Int
}

// RateInfo snapshots the pair's interest-rate model state.
type RateInfo struct {
	LastBlock         uint64
	FeeToProtocolRate uint64
	LastTimestamp     uint64
	RatePerSec        *big.Int
}

// ExchangeRateInfo reports the oracle wiring and the most recent low/high
// exchange rates published for the pair.
type ExchangeRateInfo struct {
	Oracle             common.Address
	MaxOracleDeviation uint32
	LastTimestamp      uint64
	LowExchangeRate    *big.Int
	HighExchangeRate   *big.Int
}

// PairState aggregates the mutable accounting fields of a pair. Every
// mutating call on the remote contract can change these values, so a state
// snapshot is only valid for the flow that fetched it.
type PairState struct {
	TotalAssets     *big.Int
	TotalBorrow     BorrowTotals
	TotalCollateral *big.Int
	Rate            RateInfo
	ExchangeRate    ExchangeRateInfo
}

// UserPosition is the per-user view of a pair: collateral is held as a token
// amount while debt is held as borrow shares. Use DebtFromShares to convert
// shares into an amount; shares do not directly represent tokens while
// interest accrues.
type UserPosition struct {
	Pair              common.Address
	User              common.Address
	CollateralBalance *big.Int
	BorrowShares      *big.Int
}

// OraclePrices is the raw price report from the oracle contract. When
// IsBadData is set the prices must not be trusted for any risk computation.
type OraclePrices struct {
	IsBadData bool
	PriceLow  *big.Int
	PriceHigh *big.Int
}

// OracleSnapshot couples an oracle price report with its last update time.
type OracleSnapshot struct {
	OraclePrices
	LastUpdate time.Time
}

// ApprovalState is an ephemeral read of an ERC-20 allowance. It is fetched
// immediately before use and never cached: a concurrent actor can change the
// allowance between read and use, so the value is advisory only.
type ApprovalState struct {
	Owner            common.Address
	Spender          common.Address
	Token            common.Address
	CurrentAllowance *big.Int
}

// TokenMetadata describes an ERC-20 token for display purposes. Lookups are
// best effort and fall back to 18 decimals and the "Unknown" symbol.
type TokenMetadata struct {
	Decimals uint8
	Symbol   string
}

// ApprovalResult reports the outcome of an EnsureAllowance call. Approved is
// false when the existing allowance already covered the requested amount and
// no transaction was issued.
type ApprovalResult struct {
	Approved bool
	TxHash   common.Hash
	Amount   *big.Int
	Symbol   string
}

// ActionResult is produced once per successful mutating action and is
// immutable after construction.
type ActionResult struct {
	Action           Action
	TxHash           common.Hash
	BlockNumber      uint64
	Amount           *big.Int
	Symbol           string
	Collateral       *big.Int
	CollateralSymbol string
}

// PositionSummary is a one-shot aggregation of everything a caller needs to
// display or evaluate a position: raw state plus the derived risk metrics.
type PositionSummary struct {
	Config          PairConfig
	State           PairState
	Position        UserPosition
	Oracle          OracleSnapshot
	AssetToken      TokenMetadata
	CollateralToken TokenMetadata

	// Debt is the position's borrow shares converted to an asset amount at
	// the pair's current exchange rate.
	Debt *big.Int
	// BorrowCapacity is the amount that may be borrowed against the current
	// collateral at the low oracle price.
	BorrowCapacity *big.Int
	// LiquidationPrice is zero when the position has no debt or no
	// collateral.
	LiquidationPrice *big.Int
	// Utilization is the debt value as a percentage of collateral value.
	// UtilizationKnown is false when the position holds no collateral.
	Utilization      *big.Int
	UtilizationKnown bool
	// Solvent reports whether debt value is within MaxLTV of collateral
	// value. Always true for a position with no debt.
	Solvent bool
}
