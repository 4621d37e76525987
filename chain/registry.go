package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

const registryABI = `[
	{"type":"function","name":"deployedPairsLength","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getAllPairAddresses","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
	{"type":"function","name":"deployers","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"deployedPairsByName","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"addPair","stateMutability":"nonpayable","inputs":[{"name":"pairAddress","type":"address"}],"outputs":[]},
	{"type":"function","name":"setDeployers","stateMutability":"nonpayable","inputs":[{"name":"deployers","type":"address[]"},{"name":"allowed","type":"bool"}],"outputs":[]},
	{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]}
]`

// Registry is the typed binding for the pair registry contract. It satisfies
// lending.RegistryCaller and lending.RegistryTransactor.
type Registry struct {
	*Contract
}

// NewRegistry binds a registry contract. A nil signer yields a read-only
// binding.
func NewRegistry(backend Backend, address common.Address, signer *Signer) (*Registry, error) {
	contract, err := newContract(backend, address, registryABI, signer)
	if err != nil {
		return nil, err
	}
	return &Registry{Contract: contract}, nil
}

func (r *Registry) DeployedPairsLength(ctx context.Context) (*big.Int, error) {
	out, err := r.call(ctx, "deployedPairsLength")
	if err != nil {
		return nil, err
	}
	return asBigInt(out, 0), nil
}

func (r *Registry) AllPairAddresses(ctx context.Context) ([]common.Address, error) {
	out, err := r.call(ctx, "getAllPairAddresses")
	if err != nil {
		return nil, err
	}
	return asAddressSlice(out), nil
}

func (r *Registry) IsDeployer(ctx context.Context, account common.Address) (bool, error) {
	out, err := r.call(ctx, "deployers", account)
	if err != nil {
		return false, err
	}
	return asBool(out, 0), nil
}

func (r *Registry) PairAddressByName(ctx context.Context, name string) (common.Address, error) {
	out, err := r.call(ctx, "deployedPairsByName", name)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(out), nil
}

func (r *Registry) EstimateAddPair(ctx context.Context, pair common.Address) (uint64, error) {
	return r.estimate(ctx, "addPair", pair)
}

func (r *Registry) AddPair(ctx context.Context, gasLimit uint64, pair common.Address) (*gethtypes.Transaction, error) {
	return r.transact(ctx, gasLimit, "addPair", pair)
}

func (r *Registry) EstimateSetDeployers(ctx context.Context, deployers []common.Address, allowed bool) (uint64, error) {
	return r.estimate(ctx, "setDeployers", deployers, allowed)
}

func (r *Registry) SetDeployers(ctx context.Context, gasLimit uint64, deployers []common.Address, allowed bool) (*gethtypes.Transaction, error) {
	return r.transact(ctx, gasLimit, "setDeployers", deployers, allowed)
}

func (r *Registry) EstimateTransferOwnership(ctx context.Context, newOwner common.Address) (uint64, error) {
	return r.estimate(ctx, "transferOwnership", newOwner)
}

func (r *Registry) TransferOwnership(ctx context.Context, gasLimit uint64, newOwner common.Address) (*gethtypes.Transaction, error) {
	return r.transact(ctx, gasLimit, "transferOwnership", newOwner)
}
