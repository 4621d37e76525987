package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"
)

// RateLimitedBackend throttles every RPC call through a shared token bucket
// so bursts of reads across concurrent flows stay within a provider's quota.
type RateLimitedBackend struct {
	inner   Backend
	limiter *rate.Limiter
}

// NewRateLimitedBackend wraps a backend with a requests-per-second budget.
func NewRateLimitedBackend(inner Backend, requestsPerSecond float64, burst int) *RateLimitedBackend {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedBackend{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (b *RateLimitedBackend) wait(ctx context.Context) error {
	return b.limiter.Wait(ctx)
}

func (b *RateLimitedBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.CodeAt(ctx, contract, blockNumber)
}

func (b *RateLimitedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.CallContract(ctx, call, blockNumber)
}

func (b *RateLimitedBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.HeaderByNumber(ctx, number)
}

func (b *RateLimitedBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.PendingCodeAt(ctx, account)
}

func (b *RateLimitedBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := b.wait(ctx); err != nil {
		return 0, err
	}
	return b.inner.PendingNonceAt(ctx, account)
}

func (b *RateLimitedBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.SuggestGasPrice(ctx)
}

func (b *RateLimitedBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.SuggestGasTipCap(ctx)
}

func (b *RateLimitedBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if err := b.wait(ctx); err != nil {
		return 0, err
	}
	return b.inner.EstimateGas(ctx, call)
}

func (b *RateLimitedBackend) SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	return b.inner.SendTransaction(ctx, tx)
}

func (b *RateLimitedBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]gethtypes.Log, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.FilterLogs(ctx, query)
}

func (b *RateLimitedBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- gethtypes.Log) (ethereum.Subscription, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.SubscribeFilterLogs(ctx, query, ch)
}

func (b *RateLimitedBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.inner.TransactionReceipt(ctx, txHash)
}
