package lending

import "math/big"

// The risk functions below are advisory pre-flight checks. They mirror the
// pair contract's solvency arithmetic, including its multiplication-before-
// division order, so a locally passing check matches the contract's rounding.
// The contract remains authoritative: a remote rejection after a passing
// local check is a contract-side rejection, not a client bug.

// BorrowCapacity returns the asset amount that may be borrowed against the
// given collateral. It uses the low side of the oracle spread so a widening
// spread can only shrink, never inflate, the reported capacity.
//
//	capacity = collateralAmount * priceLow * maxLTV / 1e18 / 100000
func BorrowCapacity(collateralAmount, priceLow, maxLTV *big.Int) *big.Int {
	if collateralAmount == nil || priceLow == nil || maxLTV == nil {
		return big.NewInt(0)
	}
	capacity := new(big.Int).Mul(collateralAmount, priceLow)
	capacity.Mul(capacity, maxLTV)
	capacity.Quo(capacity, priceScale)
	capacity.Quo(capacity, ltvScale)
	return capacity
}

// RequiredCollateral returns the collateral needed to cover a borrow of the
// given amount. It uses the high side of the oracle spread; pricing the
// collateral optimistically here would systematically understate risk.
//
//	required = borrowAmount * 100000 * 1e18 / maxLTV / priceHigh
func RequiredCollateral(borrowAmount, priceHigh, maxLTV *big.Int) *big.Int {
	if borrowAmount == nil || priceHigh == nil || priceHigh.Sign() == 0 || maxLTV == nil || maxLTV.Sign() == 0 {
		return big.NewInt(0)
	}
	required := new(big.Int).Mul(borrowAmount, ltvScale)
	required.Mul(required, priceScale)
	required.Quo(required, maxLTV)
	required.Quo(required, priceHigh)
	return required
}

// LiquidationPrice returns the collateral price at which the position's debt
// value equals its collateral value. A position with no debt or no collateral
// has no liquidation price, by definition, and reports zero.
func LiquidationPrice(borrowShares, lowExchangeRate, collateralAmount *big.Int) *big.Int {
	if borrowShares == nil || borrowShares.Sign() == 0 {
		return big.NewInt(0)
	}
	if collateralAmount == nil || collateralAmount.Sign() == 0 {
		return big.NewInt(0)
	}
	if lowExchangeRate == nil {
		return big.NewInt(0)
	}
	price := new(big.Int).Mul(borrowShares, lowExchangeRate)
	price.Quo(price, collateralAmount)
	return price
}

// UtilizationRatio reports debt value as a whole percentage of collateral
// value. The second return is false when collateralValue is zero: utilization
// is undefined for a position without collateral rather than a division
// error.
func UtilizationRatio(debtValue, collateralValue *big.Int) (*big.Int, bool) {
	if collateralValue == nil || collateralValue.Sign() == 0 {
		return big.NewInt(0), false
	}
	if debtValue == nil {
		return big.NewInt(0), true
	}
	ratio := new(big.Int).Mul(debtValue, utilizationScale)
	ratio.Quo(ratio, collateralValue)
	return ratio, true
}

// IsSolvent reports whether a position's debt value stays within the pair's
// maximum loan-to-value of its collateral value. Callers evaluating a borrow
// or a collateral removal must apply the hypothetical change before calling:
// solvency has to hold after the action, not before it.
func IsSolvent(debtValue, collateralValue, maxLTV *big.Int) bool {
	if debtValue == nil || debtValue.Sign() == 0 {
		return true
	}
	if collateralValue == nil || maxLTV == nil {
		return false
	}
	scaledDebt := new(big.Int).Mul(debtValue, ltvScale)
	limit := new(big.Int).Mul(collateralValue, maxLTV)
	return scaledDebt.Cmp(limit) <= 0
}

// CollateralValue converts a collateral amount into asset terms at the given
// exchange rate.
func CollateralValue(collateralAmount, price *big.Int) *big.Int {
	if collateralAmount == nil || price == nil {
		return big.NewInt(0)
	}
	value := new(big.Int).Mul(collateralAmount, price)
	value.Quo(value, priceScale)
	return value
}
