package lending

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"pairlend/observability"
)

// OracleTransactor extends OracleCaller with the write surface needed to
// refresh a stale feed.
type OracleTransactor interface {
	OracleCaller
	EstimateUpdate(ctx context.Context) (uint64, error)
	Update(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error)
	WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)
}

// OracleGuard decides whether price data backing a pair may be trusted for
// risk-sensitive actions. The check is mandatory before any borrow and any
// collateral removal that could reduce the collateralization ratio; pure
// supply, repay, and surplus withdrawals cannot increase risk and skip it.
type OracleGuard struct {
	gas            GasPolicy
	staleThreshold time.Duration
	log            *slog.Logger
	metrics        *observability.ActionMetrics
	now            func() time.Time
}

// NewOracleGuard constructs a guard with the given staleness threshold.
func NewOracleGuard(gas GasPolicy, staleThreshold time.Duration, logger *slog.Logger) *OracleGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &OracleGuard{
		gas:            gas,
		staleThreshold: staleThreshold,
		log:            logger,
		metrics:        observability.Metrics(),
		now:            time.Now,
	}
}

// EnsureFreshPrice returns a trusted oracle snapshot or fails. Data older
// than the staleness threshold triggers an on-chain refresh which is
// confirmed before the prices are re-read. A bad-data flag or a zero price
// rejects the snapshot outright, even after a successful refresh: proceeding
// with zero or default prices would silently zero out every risk check.
func (g *OracleGuard) EnsureFreshPrice(ctx context.Context, oracle OracleTransactor) (OracleSnapshot, error) {
	updatedAt, err := oracle.LastUpdateTime(ctx)
	if err != nil {
		return OracleSnapshot{}, readErr("oracle.lastUpdateTime", err)
	}
	lastUpdate := time.Unix(int64(updatedAt), 0)

	if g.staleThreshold > 0 && g.now().Sub(lastUpdate) > g.staleThreshold {
		refreshed, err := g.refresh(ctx, oracle)
		if err != nil {
			return OracleSnapshot{}, err
		}
		lastUpdate = refreshed
		if g.now().Sub(lastUpdate) > g.staleThreshold {
			return OracleSnapshot{}, &OracleStaleError{
				Oracle:     oracle.Address(),
				LastUpdate: lastUpdate,
				Threshold:  g.staleThreshold,
			}
		}
	}

	prices, err := oracle.GetPrices(ctx)
	if err != nil {
		return OracleSnapshot{}, readErr("oracle.getPrices", err)
	}
	if prices.IsBadData || prices.PriceLow == nil || prices.PriceLow.Sign() == 0 ||
		prices.PriceHigh == nil || prices.PriceHigh.Sign() == 0 {
		return OracleSnapshot{}, &OracleDataInvalidError{
			Oracle:    oracle.Address(),
			BadData:   prices.IsBadData,
			PriceLow:  prices.PriceLow,
			PriceHigh: prices.PriceHigh,
		}
	}
	return OracleSnapshot{OraclePrices: prices, LastUpdate: lastUpdate}, nil
}

// refresh submits the oracle's update transaction, waits for confirmation,
// and returns the re-read last update time. A read-only binding cannot
// refresh and reports the feed as stale.
func (g *OracleGuard) refresh(ctx context.Context, oracle OracleTransactor) (time.Time, error) {
	gasLimit := g.gas.Fallback(ActionOracleUpdate)
	if estimate, err := oracle.EstimateUpdate(ctx); err == nil {
		gasLimit = g.gas.Pad(ActionOracleUpdate, estimate)
	} else {
		g.log.Warn("oracle update gas estimation failed, using fallback ceiling",
			"oracle", oracle.Address().Hex(), "gasLimit", gasLimit, "err", err)
	}

	tx, err := oracle.Update(ctx, gasLimit)
	if err != nil {
		if errors.Is(err, ErrWriteCapability) {
			return time.Time{}, &OracleStaleError{Oracle: oracle.Address(), Threshold: g.staleThreshold}
		}
		return time.Time{}, &TransactionRevertedError{Action: ActionOracleUpdate, Reason: err.Error()}
	}
	receipt, err := oracle.WaitMined(ctx, tx)
	if err != nil {
		return time.Time{}, confirmationError(ActionOracleUpdate, tx.Hash(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return time.Time{}, &TransactionRevertedError{Action: ActionOracleUpdate, TxHash: tx.Hash()}
	}
	g.metrics.OracleRefreshed()
	g.log.Info("oracle refreshed", "oracle", oracle.Address().Hex(), "tx", tx.Hash().Hex())

	updatedAt, err := oracle.LastUpdateTime(ctx)
	if err != nil {
		return time.Time{}, readErr("oracle.lastUpdateTime", err)
	}
	return time.Unix(int64(updatedAt), 0), nil
}
