package lending

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

type stubRegistry struct {
	addr   common.Address
	pairs  []common.Address
	byName map[string]common.Address

	lookupCalls   int
	addPairCalls  int
	lastGasLimit  uint64
	estimateErr   error
	receiptStatus uint64
	nonce         uint64
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{
		addr:          common.HexToAddress("0x0000000000000000000000000000000000000003"),
		byName:        make(map[string]common.Address),
		receiptStatus: gethtypes.ReceiptStatusSuccessful,
	}
}

func (s *stubRegistry) DeployedPairsLength(ctx context.Context) (*big.Int, error) {
	return big.NewInt(int64(len(s.pairs))), nil
}

func (s *stubRegistry) AllPairAddresses(ctx context.Context) ([]common.Address, error) {
	return s.pairs, nil
}

func (s *stubRegistry) PairAddressByName(ctx context.Context, name string) (common.Address, error) {
	s.lookupCalls++
	return s.byName[name], nil
}

func (s *stubRegistry) IsDeployer(ctx context.Context, account common.Address) (bool, error) {
	return false, nil
}

func (s *stubRegistry) Address() common.Address { return s.addr }

func (s *stubRegistry) EstimateAddPair(ctx context.Context, pair common.Address) (uint64, error) {
	if s.estimateErr != nil {
		return 0, s.estimateErr
	}
	return 90_000, nil
}

func (s *stubRegistry) AddPair(ctx context.Context, gasLimit uint64, pair common.Address) (*gethtypes.Transaction, error) {
	s.addPairCalls++
	s.lastGasLimit = gasLimit
	s.pairs = append(s.pairs, pair)
	s.nonce++
	return testTx(s.nonce), nil
}

func (s *stubRegistry) EstimateSetDeployers(ctx context.Context, deployers []common.Address, allowed bool) (uint64, error) {
	return 90_000, nil
}

func (s *stubRegistry) SetDeployers(ctx context.Context, gasLimit uint64, deployers []common.Address, allowed bool) (*gethtypes.Transaction, error) {
	s.nonce++
	return testTx(s.nonce), nil
}

func (s *stubRegistry) EstimateTransferOwnership(ctx context.Context, newOwner common.Address) (uint64, error) {
	return 90_000, nil
}

func (s *stubRegistry) TransferOwnership(ctx context.Context, gasLimit uint64, newOwner common.Address) (*gethtypes.Transaction, error) {
	s.nonce++
	return testTx(s.nonce), nil
}

func (s *stubRegistry) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	return &gethtypes.Receipt{Status: s.receiptStatus, TxHash: tx.Hash(), BlockNumber: big.NewInt(11)}, nil
}

func TestDirectoryLookupNormalizesNames(t *testing.T) {
	registry := newStubRegistry()
	directory := NewDirectory(registry, DefaultGasPolicy(), nil)

	pair := common.HexToAddress("0x00000000000000000000000000000000000000f1")
	directory.Register("  SFRAX  ", pair)

	got, err := directory.Lookup(context.Background(), "sfrax")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pair {
		t.Fatalf("expected %s, got %s", pair.Hex(), got.Hex())
	}
	if registry.lookupCalls != 0 {
		t.Fatal("local hit must not consult the registry")
	}
}

func TestDirectoryLookupFallsBackToRegistry(t *testing.T) {
	registry := newStubRegistry()
	pair := common.HexToAddress("0x00000000000000000000000000000000000000f2")
	registry.byName["wethpair"] = pair
	directory := NewDirectory(registry, DefaultGasPolicy(), nil)

	got, err := directory.Lookup(context.Background(), "wethpair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pair {
		t.Fatalf("expected %s, got %s", pair.Hex(), got.Hex())
	}

	// The remote hit is cached under the canonical key.
	if _, err := directory.Lookup(context.Background(), "WETHPAIR"); err != nil {
		t.Fatalf("cached lookup failed: %v", err)
	}
	if registry.lookupCalls != 1 {
		t.Fatalf("expected one remote lookup, got %d", registry.lookupCalls)
	}
}

func TestDirectoryLookupUnknownName(t *testing.T) {
	directory := NewDirectory(newStubRegistry(), DefaultGasPolicy(), nil)
	_, err := directory.Lookup(context.Background(), "nosuchpair")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDirectoryLookupEmptyName(t *testing.T) {
	directory := NewDirectory(newStubRegistry(), DefaultGasPolicy(), nil)
	if _, err := directory.Lookup(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDirectoryAddPairUsesGasPolicy(t *testing.T) {
	registry := newStubRegistry()
	registry.estimateErr = errors.New("rpc unavailable")
	directory := NewDirectory(registry, DefaultGasPolicy(), nil)

	hash, err := directory.AddPair(context.Background(), common.HexToAddress("0x00000000000000000000000000000000000000f3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (hash == common.Hash{}) {
		t.Fatal("expected a transaction hash")
	}
	if registry.lastGasLimit != fallbackGasRegistryWrite {
		t.Fatalf("expected fallback ceiling %d, got %d", fallbackGasRegistryWrite, registry.lastGasLimit)
	}
}

func TestDirectorySetDeployersValidation(t *testing.T) {
	directory := NewDirectory(newStubRegistry(), DefaultGasPolicy(), nil)
	if _, err := directory.SetDeployers(context.Background(), nil, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
