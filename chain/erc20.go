package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

const erc20ABI = `[
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// ERC20 is the typed binding for a fungible token contract. It satisfies
// lending.TokenCaller and lending.TokenTransactor.
type ERC20 struct {
	*Contract
}

// NewERC20 binds a token contract. A nil signer yields a read-only binding.
func NewERC20(backend Backend, address common.Address, signer *Signer) (*ERC20, error) {
	contract, err := newContract(backend, address, erc20ABI, signer)
	if err != nil {
		return nil, err
	}
	return &ERC20{Contract: contract}, nil
}

func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(out), nil
}

func (t *ERC20) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	return asString(out), nil
}

func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (t *ERC20) EstimateApprove(ctx context.Context, spender common.Address, amount *big.Int) (uint64, error) {
	return t.estimate(ctx, "approve", spender, amount)
}

func (t *ERC20) Approve(ctx context.Context, gasLimit uint64, spender common.Address, amount *big.Int) (*gethtypes.Transaction, error) {
	return t.transact(ctx, gasLimit, "approve", spender, amount)
}

func (t *ERC20) EstimateTransfer(ctx context.Context, to common.Address, amount *big.Int) (uint64, error) {
	return t.estimate(ctx, "transfer", to, amount)
}

func (t *ERC20) Transfer(ctx context.Context, gasLimit uint64, to common.Address, amount *big.Int) (*gethtypes.Transaction, error) {
	return t.transact(ctx, gasLimit, "transfer", to, amount)
}
