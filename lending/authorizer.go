package lending

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TokenTransactor extends TokenCaller with the write surface needed to issue
// approvals.
type TokenTransactor interface {
	TokenCaller
	EstimateApprove(ctx context.Context, spender common.Address, amount *big.Int) (uint64, error)
	Approve(ctx context.Context, gasLimit uint64, spender common.Address, amount *big.Int) (*gethtypes.Transaction, error)
	WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)
}

// TokenAuthorizer checks a spender's allowance against an owner's balance and
// issues an authorization transaction when it falls short. Allowance reads
// are advisory: a concurrent actor can consume the allowance between the
// check and the authorized call, and the orchestrator classifies the
// resulting revert as retryable rather than a client bug.
type TokenAuthorizer struct {
	gas GasPolicy
	log *slog.Logger
}

// NewTokenAuthorizer constructs an authorizer with the given gas policy.
func NewTokenAuthorizer(gas GasPolicy, logger *slog.Logger) *TokenAuthorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenAuthorizer{gas: gas, log: logger}
}

// EnsureAllowance makes sure spender may move amount of the owner's tokens.
//
// When the existing allowance already covers the amount the call is a no-op,
// which also makes it idempotent: a second call observes the allowance set by
// the first and issues nothing. When the allowance falls short and
// autoApprove is disabled the caller receives an InsufficientAllowanceError
// naming the shortfall. Otherwise an approval for the exact amount is
// submitted and confirmed. Exact-amount approvals bound the blast radius of
// a later spender compromise, at the cost of a fresh authorization per
// differing amount.
func (a *TokenAuthorizer) EnsureAllowance(ctx context.Context, token TokenTransactor, owner, spender common.Address, amount *big.Int, autoApprove bool) (*ApprovalResult, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, invalidInput("amount", "must be positive")
	}

	allowance, err := token.Allowance(ctx, owner, spender)
	if err != nil {
		return nil, readErr("token.allowance", err)
	}
	symbol, err := token.Symbol(ctx)
	if err != nil || symbol == "" {
		symbol = "Unknown"
	}
	if allowance.Cmp(amount) >= 0 {
		return &ApprovalResult{Approved: false, Amount: amount, Symbol: symbol}, nil
	}

	if !autoApprove {
		return nil, &InsufficientAllowanceError{
			Token:   token.Address(),
			Owner:   owner,
			Spender: spender,
			Symbol:  symbol,
			Have:    allowance,
			Need:    amount,
		}
	}

	// A gas-estimation RPC failure must never block a correctness-critical
	// authorization; fall back to the conservative ceiling instead.
	gasLimit := a.gas.Fallback(ActionApprove)
	if estimate, err := token.EstimateApprove(ctx, spender, amount); err == nil {
		gasLimit = a.gas.Pad(ActionApprove, estimate)
	} else {
		a.log.Warn("approval gas estimation failed, using fallback ceiling",
			"token", token.Address().Hex(), "gasLimit", gasLimit, "err", err)
	}

	tx, err := token.Approve(ctx, gasLimit, spender, amount)
	if err != nil {
		return nil, &TransactionRevertedError{Action: ActionApprove, Reason: err.Error()}
	}
	receipt, err := token.WaitMined(ctx, tx)
	if err != nil {
		return nil, confirmationError(ActionApprove, tx.Hash(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return nil, &TransactionRevertedError{Action: ActionApprove, TxHash: tx.Hash()}
	}

	a.log.Info("approval confirmed",
		"token", token.Address().Hex(), "spender", spender.Hex(),
		"amount", amount.String(), "tx", tx.Hash().Hex())
	return &ApprovalResult{Approved: true, TxHash: tx.Hash(), Amount: amount, Symbol: symbol}, nil
}
