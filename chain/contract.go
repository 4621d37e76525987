package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"pairlend/lending"
)

// Contract wraps a deployed contract with typed call, estimate, and transact
// helpers. Writes require a signer; without one the contract is a read-only
// binding and every transact attempt fails with the write-capability error.
type Contract struct {
	address common.Address
	abi     abi.ABI
	backend Backend
	bound   *bind.BoundContract
	signer  *Signer
}

func newContract(backend Backend, address common.Address, abiJSON string, signer *Signer) (*Contract, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}
	if (address == common.Address{}) {
		return nil, fmt.Errorf("contract address required")
	}
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	return &Contract{
		address: address,
		abi:     parsed,
		backend: backend,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		signer:  signer,
	}, nil
}

// Address returns the deployed contract address.
func (c *Contract) Address() common.Address { return c.address }

// CanTransact reports the write capability decided at construction.
func (c *Contract) CanTransact() bool { return c.signer != nil }

func (c *Contract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return out, nil
}

func (c *Contract) estimate(ctx context.Context, method string, args ...interface{}) (uint64, error) {
	if c.signer == nil {
		return 0, fmt.Errorf("estimate %s: %w", method, lending.ErrWriteCapability)
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return 0, fmt.Errorf("pack %s: %w", method, err)
	}
	return c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: c.signer.Address(),
		To:   &c.address,
		Data: data,
	})
}

func (c *Contract) transact(ctx context.Context, gasLimit uint64, method string, args ...interface{}) (*gethtypes.Transaction, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("transact %s: %w", method, lending.ErrWriteCapability)
	}
	opts, err := c.signer.transactOpts()
	if err != nil {
		return nil, fmt.Errorf("build transact opts: %w", err)
	}
	opts.Context = ctx
	opts.GasLimit = gasLimit
	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("transact %s: %w", method, err)
	}
	return tx, nil
}

// WaitMined blocks until the transaction is mined or the context expires.
func (c *Contract) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	return bind.WaitMined(ctx, c.backend, tx)
}

func asAddress(out []interface{}) common.Address {
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
}

func asAddressSlice(out []interface{}) []common.Address {
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
}

func asBigInt(out []interface{}, index int) *big.Int {
	return *abi.ConvertType(out[index], new(*big.Int)).(**big.Int)
}

func asBool(out []interface{}, index int) bool {
	return *abi.ConvertType(out[index], new(bool)).(*bool)
}

func asString(out []interface{}) string {
	return *abi.ConvertType(out[0], new(string)).(*string)
}

func asUint8(out []interface{}) uint8 {
	return *abi.ConvertType(out[0], new(uint8)).(*uint8)
}

func asUint32(out []interface{}, index int) uint32 {
	return *abi.ConvertType(out[index], new(uint32)).(*uint32)
}

func asUint64(out []interface{}, index int) uint64 {
	return *abi.ConvertType(out[index], new(uint64)).(*uint64)
}
