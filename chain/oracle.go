package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"pairlend/lending"
)

const oracleABI = `[
	{"type":"function","name":"getPrices","stateMutability":"view","inputs":[],"outputs":[{"name":"isBadData","type":"bool"},{"name":"priceLow","type":"uint256"},{"name":"priceHigh","type":"uint256"}]},
	{"type":"function","name":"lastUpdateTime","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"update","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

// Oracle is the typed binding for a pair's price oracle. It satisfies
// lending.OracleCaller and lending.OracleTransactor.
type Oracle struct {
	*Contract
}

// NewOracle binds an oracle contract. A nil signer yields a read-only
// binding that can report prices but not refresh them.
func NewOracle(backend Backend, address common.Address, signer *Signer) (*Oracle, error) {
	contract, err := newContract(backend, address, oracleABI, signer)
	if err != nil {
		return nil, err
	}
	return &Oracle{Contract: contract}, nil
}

func (o *Oracle) GetPrices(ctx context.Context) (lending.OraclePrices, error) {
	out, err := o.call(ctx, "getPrices")
	if err != nil {
		return lending.OraclePrices{}, err
	}
	return lending.OraclePrices{
		IsBadData: asBool(out, 0),
		PriceLow:  asBigInt(out, 1),
		PriceHigh: asBigInt(out, 2),
	}, nil
}

func (o *Oracle) LastUpdateTime(ctx context.Context) (uint64, error) {
	out, err := o.call(ctx, "lastUpdateTime")
	if err != nil {
		return 0, err
	}
	return asBigInt(out, 0).Uint64(), nil
}

func (o *Oracle) EstimateUpdate(ctx context.Context) (uint64, error) {
	return o.estimate(ctx, "update")
}

func (o *Oracle) Update(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
	return o.transact(ctx, gasLimit, "update")
}
