package lending

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

func testTx(nonce uint64) *gethtypes.Transaction {
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	return gethtypes.NewTx(&gethtypes.LegacyTx{Nonce: nonce, Gas: 21_000, To: &to, Value: big.NewInt(0)})
}

type stubToken struct {
	addr      common.Address
	symbol    string
	decimals  uint8
	balance   *big.Int
	allowance *big.Int

	balanceErr   error
	allowanceErr error
	estimateErr  error
	approveErr   error

	approveCalls int
	lastGasLimit uint64
	receipt      *gethtypes.Receipt
	waitErr      error
	nonce        uint64
}

func newStubToken(symbol string) *stubToken {
	return &stubToken{
		addr:      common.HexToAddress("0x0000000000000000000000000000000000000001"),
		symbol:    symbol,
		decimals:  18,
		balance:   big.NewInt(0),
		allowance: big.NewInt(0),
		receipt:   &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(7)},
	}
}

func (s *stubToken) Decimals(ctx context.Context) (uint8, error) { return s.decimals, nil }

func (s *stubToken) Symbol(ctx context.Context) (string, error) { return s.symbol, nil }

func (s *stubToken) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	if s.balanceErr != nil {
		return nil, s.balanceErr
	}
	return new(big.Int).Set(s.balance), nil
}

func (s *stubToken) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if s.allowanceErr != nil {
		return nil, s.allowanceErr
	}
	return new(big.Int).Set(s.allowance), nil
}

func (s *stubToken) Address() common.Address { return s.addr }

func (s *stubToken) EstimateApprove(ctx context.Context, spender common.Address, amount *big.Int) (uint64, error) {
	if s.estimateErr != nil {
		return 0, s.estimateErr
	}
	return 46_000, nil
}

func (s *stubToken) Approve(ctx context.Context, gasLimit uint64, spender common.Address, amount *big.Int) (*gethtypes.Transaction, error) {
	if s.approveErr != nil {
		return nil, s.approveErr
	}
	s.approveCalls++
	s.lastGasLimit = gasLimit
	s.allowance = new(big.Int).Set(amount)
	s.nonce++
	return testTx(s.nonce), nil
}

func (s *stubToken) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	if s.waitErr != nil {
		return nil, s.waitErr
	}
	receipt := *s.receipt
	receipt.TxHash = tx.Hash()
	return &receipt, nil
}

func TestEnsureAllowanceNoopWhenSufficient(t *testing.T) {
	token := newStubToken("USDQ")
	token.allowance = big.NewInt(500)

	auth := NewTokenAuthorizer(DefaultGasPolicy(), nil)
	result, err := auth.EnsureAllowance(context.Background(), token, common.Address{1}, common.Address{2}, big.NewInt(100), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Approved {
		t.Fatal("sufficient allowance must not trigger an approval")
	}
	if token.approveCalls != 0 {
		t.Fatalf("expected no approve calls, got %d", token.approveCalls)
	}
}

func TestEnsureAllowanceIdempotent(t *testing.T) {
	token := newStubToken("USDQ")
	auth := NewTokenAuthorizer(DefaultGasPolicy(), nil)
	owner, spender := common.Address{1}, common.Address{2}
	amount := big.NewInt(250)

	first, err := auth.EnsureAllowance(context.Background(), token, owner, spender, amount, true)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !first.Approved {
		t.Fatal("first call should approve")
	}
	second, err := auth.EnsureAllowance(context.Background(), token, owner, spender, amount, true)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.Approved {
		t.Fatal("second call should observe the granted allowance and issue nothing")
	}
	if token.approveCalls != 1 {
		t.Fatalf("expected exactly one approval across both calls, got %d", token.approveCalls)
	}
}

func TestEnsureAllowanceShortfallWithoutAutoApprove(t *testing.T) {
	token := newStubToken("USDQ")
	token.allowance = big.NewInt(10)

	auth := NewTokenAuthorizer(DefaultGasPolicy(), nil)
	_, err := auth.EnsureAllowance(context.Background(), token, common.Address{1}, common.Address{2}, big.NewInt(100), false)
	if !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
	var shortfall *InsufficientAllowanceError
	if !errors.As(err, &shortfall) {
		t.Fatalf("expected typed shortfall, got %T", err)
	}
	if shortfall.Have.Cmp(big.NewInt(10)) != 0 || shortfall.Need.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("shortfall amounts wrong: have=%s need=%s", shortfall.Have, shortfall.Need)
	}
	if token.approveCalls != 0 {
		t.Fatal("disabled auto-approve must not submit")
	}
}

func TestEnsureAllowanceEstimateFailureFallsBack(t *testing.T) {
	token := newStubToken("USDQ")
	token.estimateErr = errors.New("rpc unavailable")

	auth := NewTokenAuthorizer(DefaultGasPolicy(), nil)
	result, err := auth.EnsureAllowance(context.Background(), token, common.Address{1}, common.Address{2}, big.NewInt(100), true)
	if err != nil {
		t.Fatalf("estimation failure must not block the approval: %v", err)
	}
	if !result.Approved {
		t.Fatal("expected an approval")
	}
	if token.lastGasLimit != fallbackGasApprove {
		t.Fatalf("expected fallback gas ceiling %d, got %d", fallbackGasApprove, token.lastGasLimit)
	}
}

func TestEnsureAllowanceRevertedReceipt(t *testing.T) {
	token := newStubToken("USDQ")
	token.receipt = &gethtypes.Receipt{Status: gethtypes.ReceiptStatusFailed, BlockNumber: big.NewInt(7)}

	auth := NewTokenAuthorizer(DefaultGasPolicy(), nil)
	_, err := auth.EnsureAllowance(context.Background(), token, common.Address{1}, common.Address{2}, big.NewInt(100), true)
	if !errors.Is(err, ErrTransactionReverted) {
		t.Fatalf("expected ErrTransactionReverted, got %v", err)
	}
}

func TestEnsureAllowanceExactAmount(t *testing.T) {
	token := newStubToken("USDQ")
	auth := NewTokenAuthorizer(DefaultGasPolicy(), nil)

	amount := big.NewInt(123)
	if _, err := auth.EnsureAllowance(context.Background(), token, common.Address{1}, common.Address{2}, amount, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.allowance.Cmp(amount) != 0 {
		t.Fatalf("expected exact-amount approval of %s, got %s", amount, token.allowance)
	}
}
