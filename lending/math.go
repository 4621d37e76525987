package lending

import "math/big"

var (
	// ltvScale matches the pair contract's parts-per-100,000 LTV encoding.
	ltvScale = big.NewInt(100_000)
	// priceScale is the 1e18 fixed-point base used by the oracle exchange
	// rates.
	priceScale = mustBigInt("1000000000000000000")
	// utilizationScale reports utilization as whole percent.
	utilizationScale = big.NewInt(100)
)

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}

// DebtFromShares converts borrow shares into an asset amount at the pool's
// current shares-to-amount exchange rate. The division truncates toward zero
// to match the contract's own integer arithmetic. A pool with zero total
// shares carries no debt, so the derived amount is zero rather than a
// division error.
func DebtFromShares(shares *big.Int, totals BorrowTotals) *big.Int {
	if shares == nil || shares.Sign() == 0 {
		return big.NewInt(0)
	}
	if totals.Shares == nil || totals.Shares.Sign() == 0 || totals.Amount == nil {
		return big.NewInt(0)
	}
	amount := new(big.Int).Mul(shares, totals.Amount)
	amount.Quo(amount, totals.Shares)
	return amount
}

// SharesFromDebt converts an asset amount into borrow shares, truncating
// toward zero. An empty pool maps amounts one-to-one onto shares.
func SharesFromDebt(amount *big.Int, totals BorrowTotals) *big.Int {
	if amount == nil || amount.Sign() == 0 {
		return big.NewInt(0)
	}
	if totals.Shares == nil || totals.Shares.Sign() == 0 || totals.Amount == nil || totals.Amount.Sign() == 0 {
		return new(big.Int).Set(amount)
	}
	shares := new(big.Int).Mul(amount, totals.Shares)
	shares.Quo(shares, totals.Amount)
	return shares
}

// AvailableLiquidity returns the asset amount the pair can still lend out:
// total assets minus the outstanding borrow amount, floored at zero.
func AvailableLiquidity(state PairState) *big.Int {
	if state.TotalAssets == nil {
		return big.NewInt(0)
	}
	available := new(big.Int).Set(state.TotalAssets)
	if state.TotalBorrow.Amount != nil {
		available.Sub(available, state.TotalBorrow.Amount)
	}
	if available.Sign() < 0 {
		return big.NewInt(0)
	}
	return available
}
