package lending

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PairCaller is the read surface of a lending pair contract. Implementations
// live in the chain package; tests substitute in-memory fakes.
type PairCaller interface {
	Asset(ctx context.Context) (common.Address, error)
	CollateralContract(ctx context.Context) (common.Address, error)
	MaxLTV(ctx context.Context) (*big.Int, error)
	CleanLiquidationFee(ctx context.Context) (*big.Int, error)
	DirtyLiquidationFee(ctx context.Context) (*big.Int, error)
	ProtocolLiquidationFee(ctx context.Context) (*big.Int, error)
	TotalAssets(ctx context.Context) (*big.Int, error)
	TotalBorrow(ctx context.Context) (BorrowTotals, error)
	TotalCollateral(ctx context.Context) (*big.Int, error)
	CurrentRateInfo(ctx context.Context) (RateInfo, error)
	ExchangeRateInfo(ctx context.Context) (ExchangeRateInfo, error)
	UserCollateralBalance(ctx context.Context, user common.Address) (*big.Int, error)
	UserBorrowShares(ctx context.Context, user common.Address) (*big.Int, error)
	Address() common.Address
}

// TokenCaller is the read surface of an ERC-20 token contract.
type TokenCaller interface {
	Decimals(ctx context.Context) (uint8, error)
	Symbol(ctx context.Context) (string, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Address() common.Address
}

// OracleCaller is the read surface of a price oracle contract.
type OracleCaller interface {
	GetPrices(ctx context.Context) (OraclePrices, error)
	LastUpdateTime(ctx context.Context) (uint64, error)
	Address() common.Address
}

// TokenResolver produces a token binding for an address discovered at read
// time. Pair token addresses are read on demand rather than cached, so the
// reader resolves bindings per call.
type TokenResolver func(common.Address) TokenCaller

// StateReader fetches read-only projections of remote contract state. All
// reads are idempotent and side-effect free. Failures surface as
// RemoteReadError and abort the calling flow, with the single exception of
// token metadata, which is best effort.
type StateReader struct {
	pair   PairCaller
	oracle OracleCaller
	tokens TokenResolver
	log    *slog.Logger
}

// NewStateReader wires a reader over the given bindings. A nil logger falls
// back to slog.Default.
func NewStateReader(pair PairCaller, oracle OracleCaller, tokens TokenResolver, logger *slog.Logger) *StateReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateReader{pair: pair, oracle: oracle, tokens: tokens, log: logger}
}

// PairConfig reads the pair's immutable deployment parameters.
func (r *StateReader) PairConfig(ctx context.Context) (PairConfig, error) {
	var cfg PairConfig
	var err error
	if cfg.Asset, err = r.pair.Asset(ctx); err != nil {
		return PairConfig{}, readErr("pair.asset", err)
	}
	if cfg.Collateral, err = r.pair.CollateralContract(ctx); err != nil {
		return PairConfig{}, readErr("pair.collateralContract", err)
	}
	if cfg.MaxLTV, err = r.pair.MaxLTV(ctx); err != nil {
		return PairConfig{}, readErr("pair.maxLTV", err)
	}
	if cfg.CleanLiquidationFee, err = r.pair.CleanLiquidationFee(ctx); err != nil {
		return PairConfig{}, readErr("pair.cleanLiquidationFee", err)
	}
	if cfg.DirtyLiquidationFee, err = r.pair.DirtyLiquidationFee(ctx); err != nil {
		return PairConfig{}, readErr("pair.dirtyLiquidationFee", err)
	}
	if cfg.ProtocolLiquidationFee, err = r.pair.ProtocolLiquidationFee(ctx); err != nil {
		return PairConfig{}, readErr("pair.protocolLiquidationFee", err)
	}
	return cfg, nil
}

// PairState reads the pair's mutable accounting aggregate. The snapshot is
// only coherent for the flow that requested it; any mutating call on the
// remote contract invalidates it.
func (r *StateReader) PairState(ctx context.Context) (PairState, error) {
	var state PairState
	var err error
	if state.TotalAssets, err = r.pair.TotalAssets(ctx); err != nil {
		return PairState{}, readErr("pair.totalAssets", err)
	}
	if state.TotalBorrow, err = r.pair.TotalBorrow(ctx); err != nil {
		return PairState{}, readErr("pair.totalBorrow", err)
	}
	if state.TotalCollateral, err = r.pair.TotalCollateral(ctx); err != nil {
		return PairState{}, readErr("pair.totalCollateral", err)
	}
	if state.Rate, err = r.pair.CurrentRateInfo(ctx); err != nil {
		return PairState{}, readErr("pair.currentRateInfo", err)
	}
	if state.ExchangeRate, err = r.pair.ExchangeRateInfo(ctx); err != nil {
		return PairState{}, readErr("pair.exchangeRateInfo", err)
	}
	return state, nil
}

// UserPosition reads a user's collateral balance and borrow shares.
func (r *StateReader) UserPosition(ctx context.Context, user common.Address) (UserPosition, error) {
	position := UserPosition{Pair: r.pair.Address(), User: user}
	var err error
	if position.CollateralBalance, err = r.pair.UserCollateralBalance(ctx, user); err != nil {
		return UserPosition{}, readErr("pair.userCollateralBalance", err)
	}
	if position.BorrowShares, err = r.pair.UserBorrowShares(ctx, user); err != nil {
		return UserPosition{}, readErr("pair.userBorrowShares", err)
	}
	return position, nil
}

// OracleSnapshot reads the oracle's current prices and last update time.
func (r *StateReader) OracleSnapshot(ctx context.Context) (OracleSnapshot, error) {
	prices, err := r.oracle.GetPrices(ctx)
	if err != nil {
		return OracleSnapshot{}, readErr("oracle.getPrices", err)
	}
	updatedAt, err := r.oracle.LastUpdateTime(ctx)
	if err != nil {
		return OracleSnapshot{}, readErr("oracle.lastUpdateTime", err)
	}
	return OracleSnapshot{
		OraclePrices: prices,
		LastUpdate:   time.Unix(int64(updatedAt), 0),
	}, nil
}

// TokenMetadata reads a token's decimals and symbol. Lookups are best effort
// and must never abort an otherwise-valid flow: a failed read logs and
// returns 18 decimals with the "Unknown" symbol.
func (r *StateReader) TokenMetadata(ctx context.Context, token common.Address) TokenMetadata {
	meta := TokenMetadata{Decimals: 18, Symbol: "Unknown"}
	if r.tokens == nil {
		return meta
	}
	binding := r.tokens(token)
	if binding == nil {
		return meta
	}
	if decimals, err := binding.Decimals(ctx); err == nil {
		meta.Decimals = decimals
	} else {
		r.log.Warn("token decimals lookup failed", "token", token.Hex(), "err", err)
	}
	if symbol, err := binding.Symbol(ctx); err == nil && symbol != "" {
		meta.Symbol = symbol
	} else if err != nil {
		r.log.Warn("token symbol lookup failed", "token", token.Hex(), "err", err)
	}
	return meta
}

// Summary aggregates pair config, state, the user's position, the oracle
// snapshot and the derived risk metrics into a single report.
func (r *StateReader) Summary(ctx context.Context, user common.Address) (*PositionSummary, error) {
	cfg, err := r.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	state, err := r.PairState(ctx)
	if err != nil {
		return nil, err
	}
	position, err := r.UserPosition(ctx, user)
	if err != nil {
		return nil, err
	}
	oracle, err := r.OracleSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary := &PositionSummary{
		Config:          cfg,
		State:           state,
		Position:        position,
		Oracle:          oracle,
		AssetToken:      r.TokenMetadata(ctx, cfg.Asset),
		CollateralToken: r.TokenMetadata(ctx, cfg.Collateral),
	}
	summary.Debt = DebtFromShares(position.BorrowShares, state.TotalBorrow)
	summary.BorrowCapacity = BorrowCapacity(position.CollateralBalance, oracle.PriceLow, cfg.MaxLTV)
	summary.LiquidationPrice = LiquidationPrice(position.BorrowShares, state.ExchangeRate.LowExchangeRate, position.CollateralBalance)
	collateralValue := CollateralValue(position.CollateralBalance, oracle.PriceLow)
	summary.Utilization, summary.UtilizationKnown = UtilizationRatio(summary.Debt, collateralValue)
	summary.Solvent = IsSolvent(summary.Debt, collateralValue, cfg.MaxLTV)
	return summary, nil
}
