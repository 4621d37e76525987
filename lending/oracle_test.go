package lending

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

type stubOracle struct {
	addr   common.Address
	prices OraclePrices

	lastUpdate  int64
	afterUpdate int64

	pricesErr   error
	estimateErr error
	updateErr   error
	waitErr     error

	updates       int
	lastGasLimit  uint64
	receiptStatus uint64
	nonce         uint64
}

func newStubOracle(now time.Time) *stubOracle {
	return &stubOracle{
		addr:          common.HexToAddress("0x0000000000000000000000000000000000000002"),
		prices:        OraclePrices{PriceLow: eth(99), PriceHigh: eth(101)},
		lastUpdate:    now.Unix(),
		receiptStatus: gethtypes.ReceiptStatusSuccessful,
	}
}

func (s *stubOracle) GetPrices(ctx context.Context) (OraclePrices, error) {
	if s.pricesErr != nil {
		return OraclePrices{}, s.pricesErr
	}
	return s.prices, nil
}

func (s *stubOracle) LastUpdateTime(ctx context.Context) (uint64, error) {
	return uint64(s.lastUpdate), nil
}

func (s *stubOracle) Address() common.Address { return s.addr }

func (s *stubOracle) EstimateUpdate(ctx context.Context) (uint64, error) {
	if s.estimateErr != nil {
		return 0, s.estimateErr
	}
	return 120_000, nil
}

func (s *stubOracle) Update(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updates++
	s.lastGasLimit = gasLimit
	s.lastUpdate = s.afterUpdate
	s.nonce++
	return testTx(s.nonce), nil
}

func (s *stubOracle) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	if s.waitErr != nil {
		return nil, s.waitErr
	}
	return &gethtypes.Receipt{Status: s.receiptStatus, TxHash: tx.Hash(), BlockNumber: big.NewInt(9)}, nil
}

func testGuard(now time.Time, threshold time.Duration) *OracleGuard {
	guard := NewOracleGuard(DefaultGasPolicy(), threshold, nil)
	guard.now = func() time.Time { return now }
	return guard
}

func TestEnsureFreshPriceFreshFeed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now.Add(-time.Minute))
	guard := testGuard(now, time.Hour)

	snapshot, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.updates != 0 {
		t.Fatalf("fresh feed must not be refreshed, got %d updates", oracle.updates)
	}
	if snapshot.PriceLow.Cmp(eth(99)) != 0 || snapshot.PriceHigh.Cmp(eth(101)) != 0 {
		t.Fatalf("snapshot prices wrong: low=%s high=%s", snapshot.PriceLow, snapshot.PriceHigh)
	}
}

func TestEnsureFreshPriceRefreshesStaleFeed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now.Add(-2 * time.Hour))
	oracle.afterUpdate = now.Unix()
	guard := testGuard(now, time.Hour)

	snapshot, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.updates != 1 {
		t.Fatalf("expected one refresh, got %d", oracle.updates)
	}
	if snapshot.LastUpdate.Unix() != now.Unix() {
		t.Fatalf("expected refreshed timestamp, got %s", snapshot.LastUpdate)
	}
}

func TestEnsureFreshPriceStillStaleAfterRefresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now.Add(-3 * time.Hour))
	oracle.afterUpdate = now.Add(-2 * time.Hour).Unix()
	guard := testGuard(now, time.Hour)

	_, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if !errors.Is(err, ErrOracleStale) {
		t.Fatalf("expected ErrOracleStale, got %v", err)
	}
}

func TestEnsureFreshPriceReadOnlyCannotRefresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now.Add(-2 * time.Hour))
	oracle.updateErr = fmt.Errorf("transact update: %w", ErrWriteCapability)
	guard := testGuard(now, time.Hour)

	_, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if !errors.Is(err, ErrOracleStale) {
		t.Fatalf("read-only refresh should report a stale feed, got %v", err)
	}
}

func TestEnsureFreshPriceRejectsBadData(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now)
	oracle.prices.IsBadData = true
	guard := testGuard(now, time.Hour)

	_, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if !errors.Is(err, ErrOracleDataInvalid) {
		t.Fatalf("expected ErrOracleDataInvalid, got %v", err)
	}
}

func TestEnsureFreshPriceRejectsZeroPrice(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now)
	oracle.prices.PriceLow = big.NewInt(0)
	guard := testGuard(now, time.Hour)

	_, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if !errors.Is(err, ErrOracleDataInvalid) {
		t.Fatalf("expected ErrOracleDataInvalid for zero price, got %v", err)
	}
}

func TestEnsureFreshPriceRevertedRefresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	oracle := newStubOracle(now.Add(-2 * time.Hour))
	oracle.receiptStatus = gethtypes.ReceiptStatusFailed
	guard := testGuard(now, time.Hour)

	_, err := guard.EnsureFreshPrice(context.Background(), oracle)
	if !errors.Is(err, ErrTransactionReverted) {
		t.Fatalf("expected ErrTransactionReverted, got %v", err)
	}
}
