package lending

import (
	"math/big"
	"testing"
)

func TestDebtFromSharesTruncates(t *testing.T) {
	totals := BorrowTotals{Amount: big.NewInt(1000), Shares: big.NewInt(3)}
	got := DebtFromShares(big.NewInt(1), totals)
	if got.Cmp(big.NewInt(333)) != 0 {
		t.Fatalf("expected truncated debt 333, got %s", got)
	}
}

func TestDebtFromSharesEmptyPool(t *testing.T) {
	got := DebtFromShares(big.NewInt(5), BorrowTotals{Amount: big.NewInt(0), Shares: big.NewInt(0)})
	if got.Sign() != 0 {
		t.Fatalf("empty pool should carry no debt, got %s", got)
	}
	got = DebtFromShares(nil, BorrowTotals{Amount: big.NewInt(100), Shares: big.NewInt(10)})
	if got.Sign() != 0 {
		t.Fatalf("nil shares should convert to zero, got %s", got)
	}
}

func TestDebtFromSharesTracksExchangeRate(t *testing.T) {
	// 100 shares over 150 amount: each share is worth 1.5 asset units.
	totals := BorrowTotals{Amount: big.NewInt(150), Shares: big.NewInt(100)}
	got := DebtFromShares(big.NewInt(40), totals)
	if got.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("expected 60, got %s", got)
	}
}

func TestDebtFromSharesFullPool(t *testing.T) {
	totals := BorrowTotals{Amount: big.NewInt(1007), Shares: big.NewInt(331)}
	got := DebtFromShares(totals.Shares, totals)
	if got.Cmp(totals.Amount) != 0 {
		t.Fatalf("all shares must convert to the full borrow amount, got %s", got)
	}
}

func TestSharesFromDebtEmptyPool(t *testing.T) {
	got := SharesFromDebt(big.NewInt(42), BorrowTotals{})
	if got.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("empty pool maps amounts one-to-one, got %s", got)
	}
}

func TestSharesFromDebtRoundTripNeverInflates(t *testing.T) {
	totals := BorrowTotals{Amount: big.NewInt(1007), Shares: big.NewInt(331)}
	for _, amount := range []int64{1, 7, 100, 999, 1007} {
		shares := SharesFromDebt(big.NewInt(amount), totals)
		back := DebtFromShares(shares, totals)
		if back.Cmp(big.NewInt(amount)) > 0 {
			t.Fatalf("round trip of %d inflated to %s", amount, back)
		}
	}
}

func TestAvailableLiquidity(t *testing.T) {
	state := PairState{
		TotalAssets: big.NewInt(1000),
		TotalBorrow: BorrowTotals{Amount: big.NewInt(400), Shares: big.NewInt(400)},
	}
	if got := AvailableLiquidity(state); got.Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("expected 600, got %s", got)
	}

	state.TotalBorrow.Amount = big.NewInt(1200)
	if got := AvailableLiquidity(state); got.Sign() != 0 {
		t.Fatalf("over-borrowed pool should floor at zero, got %s", got)
	}
}
