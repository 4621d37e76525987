package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"pairlend/lending"
)

const pairABI = `[
	{"type":"function","name":"asset","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"collateralContract","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"maxLTV","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"cleanLiquidationFee","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"dirtyLiquidationFee","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"protocolLiquidationFee","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalAssets","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalBorrow","stateMutability":"view","inputs":[],"outputs":[{"name":"amount","type":"uint128"},{"name":"shares","type":"uint128"}]},
	{"type":"function","name":"totalCollateral","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"currentRateInfo","stateMutability":"view","inputs":[],"outputs":[{"name":"lastBlock","type":"uint64"},{"name":"feeToProtocolRate","type":"uint64"},{"name":"lastTimestamp","type":"uint64"},{"name":"ratePerSec","type":"uint64"}]},
	{"type":"function","name":"exchangeRateInfo","stateMutability":"view","inputs":[],"outputs":[{"name":"oracle","type":"address"},{"name":"maxOracleDeviation","type":"uint32"},{"name":"lastTimestamp","type":"uint64"},{"name":"lowExchangeRate","type":"uint256"},{"name":"highExchangeRate","type":"uint256"}]},
	{"type":"function","name":"userCollateralBalance","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"userBorrowShares","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[{"name":"shares","type":"uint256"}]},
	{"type":"function","name":"borrowAsset","stateMutability":"nonpayable","inputs":[{"name":"borrowAmount","type":"uint256"},{"name":"collateralAmount","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[{"name":"shares","type":"uint256"}]},
	{"type":"function","name":"repayAsset","stateMutability":"nonpayable","inputs":[{"name":"shares","type":"uint256"},{"name":"borrower","type":"address"}],"outputs":[{"name":"amount","type":"uint256"}]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"shares","type":"uint256"},{"name":"receiver","type":"address"},{"name":"owner","type":"address"}],"outputs":[{"name":"amount","type":"uint256"}]},
	{"type":"function","name":"addCollateral","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"borrower","type":"address"}],"outputs":[]},
	{"type":"function","name":"removeCollateral","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[]}
]`

// Pair is the typed binding for an isolated lending pair contract. It
// satisfies lending.PairCaller and lending.PairTransactor.
type Pair struct {
	*Contract
}

// NewPair binds a pair contract. A nil signer yields a read-only binding.
func NewPair(backend Backend, address common.Address, signer *Signer) (*Pair, error) {
	contract, err := newContract(backend, address, pairABI, signer)
	if err != nil {
		return nil, err
	}
	return &Pair{Contract: contract}, nil
}

func (p *Pair) Asset(ctx context.Context) (common.Address, error) {
	out, err := p.call(ctx, "asset")
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(out), nil
}

func (p *Pair) CollateralContract(ctx context.Context) (common.Address, error) {
	out, err := p.call(ctx, "collateralContract")
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(out), nil
}

func (p *Pair) MaxLTV(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "maxLTV")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) CleanLiquidationFee(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "cleanLiquidationFee")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) DirtyLiquidationFee(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "dirtyLiquidationFee")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) ProtocolLiquidationFee(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "protocolLiquidationFee")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) TotalAssets(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "totalAssets")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) TotalBorrow(ctx context.Context) (lending.BorrowTotals, error) {
	out, err := p.call(ctx, "totalBorrow")
	if err != nil {
		return lending.BorrowTotals{}, err
	}
	return lending.BorrowTotals{
		Amount: asBigInt(out, 0),
		Shares: asBigInt(out, 1),
	}, nil
}

func (p *Pair) TotalCollateral(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "totalCollateral")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) CurrentRateInfo(ctx context.Context) (lending.RateInfo, error) {
	out, err := p.call(ctx, "currentRateInfo")
	if err != nil {
		return lending.RateInfo{}, err
	}
	return lending.RateInfo{
		LastBlock:         asUint64(out, 0),
		FeeToProtocolRate: asUint64(out, 1),
		LastTimestamp:     asUint64(out, 2),
		RatePerSec:        new(big.Int).SetUint64(asUint64(out, 3)),
	}, nil
}

func (p *Pair) ExchangeRateInfo(ctx context.Context) (lending.ExchangeRateInfo, error) {
	out, err := p.call(ctx, "exchangeRateInfo")
	if err != nil {
		return lending.ExchangeRateInfo{}, err
	}
	return lending.ExchangeRateInfo{
		Oracle:             asAddress(out),
		MaxOracleDeviation: asUint32(out, 1),
		LastTimestamp:      asUint64(out, 2),
		LowExchangeRate:    asBigInt(out, 3),
		HighExchangeRate:   asBigInt(out, 4),
	}, nil
}

func (p *Pair) UserCollateralBalance(ctx context.Context, user common.Address) (*big.Int, error) {
	out, err := p.call(ctx, "userCollateralBalance", user)
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) UserBorrowShares(ctx context.Context, user common.Address) (*big.Int, error) {
	out, err := p.call(ctx, "userBorrowShares", user)
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (p *Pair) EstimateDeposit(ctx context.Context, amount *big.Int, receiver common.Address) (uint64, error) {
	return p.estimate(ctx, "deposit", amount, receiver)
}

func (p *Pair) Deposit(ctx context.Context, gasLimit uint64, amount *big.Int, receiver common.Address) (*gethtypes.Transaction, error) {
	return p.transact(ctx, gasLimit, "deposit", amount, receiver)
}

func (p *Pair) EstimateBorrowAsset(ctx context.Context, amount, collateralAmount *big.Int, receiver common.Address) (uint64, error) {
	return p.estimate(ctx, "borrowAsset", amount, collateralAmount, receiver)
}

func (p *Pair) BorrowAsset(ctx context.Context, gasLimit uint64, amount, collateralAmount *big.Int, receiver common.Address) (*gethtypes.Transaction, error) {
	return p.transact(ctx, gasLimit, "borrowAsset", amount, collateralAmount, receiver)
}

func (p *Pair) EstimateRepayAsset(ctx context.Context, shares *big.Int, borrower common.Address) (uint64, error) {
	return p.estimate(ctx, "repayAsset", shares, borrower)
}

func (p *Pair) RepayAsset(ctx context.Context, gasLimit uint64, shares *big.Int, borrower common.Address) (*gethtypes.Transaction, error) {
	return p.transact(ctx, gasLimit, "repayAsset", shares, borrower)
}

func (p *Pair) EstimateWithdraw(ctx context.Context, shares *big.Int, receiver, owner common.Address) (uint64, error) {
	return p.estimate(ctx, "withdraw", shares, receiver, owner)
}

func (p *Pair) Withdraw(ctx context.Context, gasLimit uint64, shares *big.Int, receiver, owner common.Address) (*gethtypes.Transaction, error) {
	return p.transact(ctx, gasLimit, "withdraw", shares, receiver, owner)
}

func (p *Pair) EstimateAddCollateral(ctx context.Context, amount *big.Int, borrower common.Address) (uint64, error) {
	return p.estimate(ctx, "addCollateral", amount, borrower)
}

func (p *Pair) AddCollateral(ctx context.Context, gasLimit uint64, amount *big.Int, borrower common.Address) (*gethtypes.Transaction, error) {
	return p.transact(ctx, gasLimit, "addCollateral", amount, borrower)
}

func (p *Pair) EstimateRemoveCollateral(ctx context.Context, amount *big.Int, receiver common.Address) (uint64, error) {
	return p.estimate(ctx, "removeCollateral", amount, receiver)
}

func (p *Pair) RemoveCollateral(ctx context.Context, gasLimit uint64, amount *big.Int, receiver common.Address) (*gethtypes.Transaction, error) {
	return p.transact(ctx, gasLimit, "removeCollateral", amount, receiver)
}
