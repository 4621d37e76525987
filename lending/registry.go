package lending

import (
	"context"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// RegistryCaller is the read surface of the pair registry contract.
type RegistryCaller interface {
	DeployedPairsLength(ctx context.Context) (*big.Int, error)
	AllPairAddresses(ctx context.Context) ([]common.Address, error)
	PairAddressByName(ctx context.Context, name string) (common.Address, error)
	IsDeployer(ctx context.Context, account common.Address) (bool, error)
	Address() common.Address
}

// RegistryTransactor extends RegistryCaller with the registry's governance
// writes.
type RegistryTransactor interface {
	RegistryCaller
	EstimateAddPair(ctx context.Context, pair common.Address) (uint64, error)
	AddPair(ctx context.Context, gasLimit uint64, pair common.Address) (*gethtypes.Transaction, error)
	EstimateSetDeployers(ctx context.Context, deployers []common.Address, allowed bool) (uint64, error)
	SetDeployers(ctx context.Context, gasLimit uint64, deployers []common.Address, allowed bool) (*gethtypes.Transaction, error)
	EstimateTransferOwnership(ctx context.Context, newOwner common.Address) (uint64, error)
	TransferOwnership(ctx context.Context, gasLimit uint64, newOwner common.Address) (*gethtypes.Transaction, error)
	WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)
}

// Directory is a client-side view of the pair registry. Name lookups are
// normalized to lower case at insertion time, so "SFRAX" and "sfrax" resolve
// to the same pair regardless of how call sites spell the key.
type Directory struct {
	registry RegistryTransactor
	gas      GasPolicy
	log      *slog.Logger

	mu    sync.RWMutex
	names map[string]common.Address
}

// NewDirectory wires a directory over a registry binding.
func NewDirectory(registry RegistryTransactor, gas GasPolicy, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		registry: registry,
		gas:      gas,
		log:      logger,
		names:    make(map[string]common.Address),
	}
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Pairs lists every pair address the registry has deployed.
func (d *Directory) Pairs(ctx context.Context) ([]common.Address, error) {
	pairs, err := d.registry.AllPairAddresses(ctx)
	if err != nil {
		return nil, readErr("registry.getAllPairAddresses", err)
	}
	return pairs, nil
}

// Len returns the number of deployed pairs.
func (d *Directory) Len(ctx context.Context) (uint64, error) {
	length, err := d.registry.DeployedPairsLength(ctx)
	if err != nil {
		return 0, readErr("registry.deployedPairsLength", err)
	}
	return length.Uint64(), nil
}

// IsDeployer reports whether the account is whitelisted to deploy pairs.
func (d *Directory) IsDeployer(ctx context.Context, account common.Address) (bool, error) {
	ok, err := d.registry.IsDeployer(ctx, account)
	if err != nil {
		return false, readErr("registry.deployers", err)
	}
	return ok, nil
}

// Register records a name-to-pair mapping under the canonical key.
func (d *Directory) Register(name string, pair common.Address) {
	key := canonicalName(name)
	if key == "" {
		return
	}
	d.mu.Lock()
	d.names[key] = pair
	d.mu.Unlock()
}

// Lookup resolves a pair by name, consulting the local mapping first and the
// registry contract on a miss. Remote hits are recorded under the canonical
// key so repeated lookups stay local.
func (d *Directory) Lookup(ctx context.Context, name string) (common.Address, error) {
	key := canonicalName(name)
	if key == "" {
		return common.Address{}, invalidInput("name", "must not be empty")
	}
	d.mu.RLock()
	pair, ok := d.names[key]
	d.mu.RUnlock()
	if ok {
		return pair, nil
	}

	pair, err := d.registry.PairAddressByName(ctx, name)
	if err != nil {
		return common.Address{}, readErr("registry.deployedPairsByName", err)
	}
	if (pair == common.Address{}) {
		return common.Address{}, invalidInput("name", "no pair registered under "+name)
	}
	d.Register(name, pair)
	return pair, nil
}

// AddPair registers a deployed pair with the registry.
func (d *Directory) AddPair(ctx context.Context, pair common.Address) (common.Hash, error) {
	return d.write(ctx, "addPair",
		func(ctx context.Context) (uint64, error) { return d.registry.EstimateAddPair(ctx, pair) },
		func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return d.registry.AddPair(ctx, gasLimit, pair)
		})
}

// SetDeployers toggles the deployer whitelist for a batch of accounts.
func (d *Directory) SetDeployers(ctx context.Context, deployers []common.Address, allowed bool) (common.Hash, error) {
	if len(deployers) == 0 {
		return common.Hash{}, invalidInput("deployers", "must not be empty")
	}
	return d.write(ctx, "setDeployers",
		func(ctx context.Context) (uint64, error) {
			return d.registry.EstimateSetDeployers(ctx, deployers, allowed)
		},
		func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return d.registry.SetDeployers(ctx, gasLimit, deployers, allowed)
		})
}

// TransferOwnership hands registry ownership to a new owner.
func (d *Directory) TransferOwnership(ctx context.Context, newOwner common.Address) (common.Hash, error) {
	if (newOwner == common.Address{}) {
		return common.Hash{}, invalidInput("newOwner", "must not be the zero address")
	}
	return d.write(ctx, "transferOwnership",
		func(ctx context.Context) (uint64, error) {
			return d.registry.EstimateTransferOwnership(ctx, newOwner)
		},
		func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return d.registry.TransferOwnership(ctx, gasLimit, newOwner)
		})
}

func (d *Directory) write(ctx context.Context, method string,
	estimate func(context.Context) (uint64, error),
	submit func(context.Context, uint64) (*gethtypes.Transaction, error)) (common.Hash, error) {

	gasLimit := d.gas.Fallback(ActionRegistryWrite)
	if est, err := estimate(ctx); err == nil {
		gasLimit = d.gas.Pad(ActionRegistryWrite, est)
	} else {
		d.log.Warn("registry gas estimation failed, using fallback ceiling",
			"method", method, "gasLimit", gasLimit, "err", err)
	}

	tx, err := submit(ctx, gasLimit)
	if err != nil {
		return common.Hash{}, &TransactionRevertedError{Action: ActionRegistryWrite, Reason: err.Error()}
	}
	receipt, err := d.registry.WaitMined(ctx, tx)
	if err != nil {
		return tx.Hash(), confirmationError(ActionRegistryWrite, tx.Hash(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return tx.Hash(), &TransactionRevertedError{Action: ActionRegistryWrite, TxHash: tx.Hash()}
	}
	d.log.Info("registry write confirmed", "method", method, "tx", tx.Hash().Hex())
	return tx.Hash(), nil
}
