package lending

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pairlend/observability"
)

// PairTransactor extends PairCaller with the write surface of the pair
// contract. Every write takes an explicit gas limit computed by the
// orchestrator; estimation lives in the matching Estimate method.
type PairTransactor interface {
	PairCaller
	CanTransact() bool
	EstimateDeposit(ctx context.Context, amount *big.Int, receiver common.Address) (uint64, error)
	Deposit(ctx context.Context, gasLimit uint64, amount *big.Int, receiver common.Address) (*gethtypes.Transaction, error)
	EstimateBorrowAsset(ctx context.Context, amount, collateralAmount *big.Int, receiver common.Address) (uint64, error)
	BorrowAsset(ctx context.Context, gasLimit uint64, amount, collateralAmount *big.Int, receiver common.Address) (*gethtypes.Transaction, error)
	EstimateRepayAsset(ctx context.Context, shares *big.Int, borrower common.Address) (uint64, error)
	RepayAsset(ctx context.Context, gasLimit uint64, shares *big.Int, borrower common.Address) (*gethtypes.Transaction, error)
	EstimateWithdraw(ctx context.Context, shares *big.Int, receiver, owner common.Address) (uint64, error)
	Withdraw(ctx context.Context, gasLimit uint64, shares *big.Int, receiver, owner common.Address) (*gethtypes.Transaction, error)
	EstimateAddCollateral(ctx context.Context, amount *big.Int, borrower common.Address) (uint64, error)
	AddCollateral(ctx context.Context, gasLimit uint64, amount *big.Int, borrower common.Address) (*gethtypes.Transaction, error)
	EstimateRemoveCollateral(ctx context.Context, amount *big.Int, receiver common.Address) (uint64, error)
	RemoveCollateral(ctx context.Context, gasLimit uint64, amount *big.Int, receiver common.Address) (*gethtypes.Transaction, error)
	WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)
}

// TokenTransactorResolver produces a writable token binding for an address
// discovered at flow time.
type TokenTransactorResolver func(common.Address) TokenTransactor

// OrchestratorConfig enumerates the knobs an action flow depends on. It is
// passed explicitly at construction; the orchestrator holds no
// environment-sourced defaults.
type OrchestratorConfig struct {
	// Account is the acting account: transaction sender, position owner,
	// and default receiver.
	Account common.Address
	// AutoApprove lets flows issue ERC-20 approvals themselves. When false
	// an allowance shortfall fails the flow and the caller approves out of
	// band.
	AutoApprove bool
	// StaleThreshold bounds the oracle's age for risk-sensitive actions.
	StaleThreshold time.Duration
	// ConfirmTimeout bounds the wait for a submitted transaction. An expired
	// wait reports ConfirmationTimeout, never a revert.
	ConfirmTimeout time.Duration
	// Gas carries the per-action fallback ceilings and estimate buffers.
	Gas GasPolicy
}

// Orchestrator sequences the partially-failable steps of each mutating
// action: validation, token authorization, oracle freshness, gas estimation
// with fallback, submission, and confirmation. Flows run as a single
// sequence of awaited steps; concurrent invocations are arbitrated by the
// remote contract, not serialized here.
type Orchestrator struct {
	cfg     OrchestratorConfig
	pair    PairTransactor
	oracle  OracleTransactor
	tokens  TokenTransactorResolver
	reader  *StateReader
	auth    *TokenAuthorizer
	guard   *OracleGuard
	log     *slog.Logger
	metrics *observability.ActionMetrics
	tracer  trace.Tracer
}

// NewOrchestrator wires an orchestrator over writable bindings. The write
// capability is checked once here, not per call: a read-only pair binding is
// rejected immediately with ErrWriteCapability.
func NewOrchestrator(cfg OrchestratorConfig, pair PairTransactor, oracle OracleTransactor, tokens TokenTransactorResolver, logger *slog.Logger) (*Orchestrator, error) {
	if pair == nil || oracle == nil || tokens == nil {
		return nil, invalidInput("bindings", "pair, oracle and token resolvers are required")
	}
	if !pair.CanTransact() {
		return nil, fmt.Errorf("construct orchestrator: %w", ErrWriteCapability)
	}
	if (cfg.Account == common.Address{}) {
		return nil, invalidInput("account", "acting account is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	readTokens := func(addr common.Address) TokenCaller { return tokens(addr) }
	return &Orchestrator{
		cfg:     cfg,
		pair:    pair,
		oracle:  oracle,
		tokens:  tokens,
		reader:  NewStateReader(pair, oracle, readTokens, logger),
		auth:    NewTokenAuthorizer(cfg.Gas, logger),
		guard:   NewOracleGuard(cfg.Gas, cfg.StaleThreshold, logger),
		log:     logger,
		metrics: observability.Metrics(),
		tracer:  otel.Tracer("pairlend/lending"),
	}, nil
}

// Reader exposes the orchestrator's state reader for callers that only need
// the read projections.
func (o *Orchestrator) Reader() *StateReader { return o.reader }

// Supply deposits amount of the pair's asset token on behalf of the acting
// account. Supplying cannot increase position risk, so no oracle check runs.
func (o *Orchestrator) Supply(ctx context.Context, amount *big.Int) (*ActionResult, error) {
	ctx, span, log := o.begin(ctx, ActionSupply)
	defer span.End()
	started := time.Now()

	result, err := o.supply(ctx, log, amount)
	o.finish(span, ActionSupply, started, err)
	return result, err
}

func (o *Orchestrator) supply(ctx context.Context, log *slog.Logger, amount *big.Int) (*ActionResult, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, invalidInput("amount", "must be positive")
	}
	cfg, err := o.reader.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	asset, err := o.token(cfg.Asset)
	if err != nil {
		return nil, err
	}
	meta := o.reader.TokenMetadata(ctx, cfg.Asset)

	if err := o.checkBalance(ctx, asset, meta.Symbol, amount); err != nil {
		return nil, err
	}
	if err := o.authorize(ctx, log, asset, amount); err != nil {
		return nil, err
	}

	receipt, err := o.execute(ctx, log, ActionSupply, txPlan{
		estimate: func(ctx context.Context) (uint64, error) {
			return o.pair.EstimateDeposit(ctx, amount, o.cfg.Account)
		},
		submit: func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return o.pair.Deposit(ctx, gasLimit, amount, o.cfg.Account)
		},
	})
	if err != nil {
		return nil, err
	}
	return o.result(ActionSupply, receipt, amount, meta.Symbol, nil, ""), nil
}

// Borrow takes amount of the asset token, optionally pledging
// collateralAmount of the collateral token in the same transaction. The
// oracle check and the post-change solvency check are mandatory: solvency is
// evaluated after the hypothetical borrow, since adding debt is what could
// violate it.
func (o *Orchestrator) Borrow(ctx context.Context, amount, collateralAmount *big.Int) (*ActionResult, error) {
	ctx, span, log := o.begin(ctx, ActionBorrow)
	defer span.End()
	started := time.Now()

	result, err := o.borrow(ctx, log, amount, collateralAmount)
	o.finish(span, ActionBorrow, started, err)
	return result, err
}

func (o *Orchestrator) borrow(ctx context.Context, log *slog.Logger, amount, collateralAmount *big.Int) (*ActionResult, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, invalidInput("amount", "must be positive")
	}
	if collateralAmount == nil {
		collateralAmount = big.NewInt(0)
	}
	if collateralAmount.Sign() < 0 {
		return nil, invalidInput("collateralAmount", "must not be negative")
	}
	cfg, err := o.reader.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	assetMeta := o.reader.TokenMetadata(ctx, cfg.Asset)
	collateralMeta := o.reader.TokenMetadata(ctx, cfg.Collateral)

	snapshot, err := o.guard.EnsureFreshPrice(ctx, o.oracle)
	if err != nil {
		return nil, err
	}
	state, err := o.reader.PairState(ctx)
	if err != nil {
		return nil, err
	}
	position, err := o.reader.UserPosition(ctx, o.cfg.Account)
	if err != nil {
		return nil, err
	}

	if available := AvailableLiquidity(state); amount.Cmp(available) > 0 {
		return nil, &ExceedsBorrowLimitError{Requested: amount, Available: available, Symbol: assetMeta.Symbol}
	}

	debtAfter := DebtFromShares(position.BorrowShares, state.TotalBorrow)
	debtAfter.Add(debtAfter, amount)
	collateralAfter := new(big.Int).Add(position.CollateralBalance, collateralAmount)
	if capacity := BorrowCapacity(collateralAfter, snapshot.PriceLow, cfg.MaxLTV); debtAfter.Cmp(capacity) > 0 {
		return nil, &InsufficientCollateralError{
			Action:    ActionBorrow,
			Required:  RequiredCollateral(debtAfter, snapshot.PriceHigh, cfg.MaxLTV),
			Available: collateralAfter,
			Symbol:    collateralMeta.Symbol,
		}
	}

	if collateralAmount.Sign() > 0 {
		collateral, err := o.token(cfg.Collateral)
		if err != nil {
			return nil, err
		}
		if err := o.checkBalance(ctx, collateral, collateralMeta.Symbol, collateralAmount); err != nil {
			return nil, err
		}
		if err := o.authorize(ctx, log, collateral, collateralAmount); err != nil {
			return nil, err
		}
	}

	receipt, err := o.execute(ctx, log, ActionBorrow, txPlan{
		estimate: func(ctx context.Context) (uint64, error) {
			return o.pair.EstimateBorrowAsset(ctx, amount, collateralAmount, o.cfg.Account)
		},
		submit: func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return o.pair.BorrowAsset(ctx, gasLimit, amount, collateralAmount, o.cfg.Account)
		},
	})
	if err != nil {
		return nil, err
	}
	if collateralAmount.Sign() > 0 {
		return o.result(ActionBorrow, receipt, amount, assetMeta.Symbol, collateralAmount, collateralMeta.Symbol), nil
	}
	return o.result(ActionBorrow, receipt, amount, assetMeta.Symbol, nil, ""), nil
}

// Repay retires shares of the acting account's borrow shares. Repaying more
// than the outstanding debt fails validation before any network write.
func (o *Orchestrator) Repay(ctx context.Context, shares *big.Int) (*ActionResult, error) {
	ctx, span, log := o.begin(ctx, ActionRepay)
	defer span.End()
	started := time.Now()

	result, err := o.repay(ctx, log, shares)
	o.finish(span, ActionRepay, started, err)
	return result, err
}

func (o *Orchestrator) repay(ctx context.Context, log *slog.Logger, shares *big.Int) (*ActionResult, error) {
	if shares == nil || shares.Sign() <= 0 {
		return nil, invalidInput("shares", "must be positive")
	}
	position, err := o.reader.UserPosition(ctx, o.cfg.Account)
	if err != nil {
		return nil, err
	}
	if shares.Cmp(position.BorrowShares) > 0 {
		return nil, invalidInput("shares", "cannot repay more than debt")
	}
	cfg, err := o.reader.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	state, err := o.reader.PairState(ctx)
	if err != nil {
		return nil, err
	}
	amount := DebtFromShares(shares, state.TotalBorrow)
	asset, err := o.token(cfg.Asset)
	if err != nil {
		return nil, err
	}
	meta := o.reader.TokenMetadata(ctx, cfg.Asset)

	if err := o.checkBalance(ctx, asset, meta.Symbol, amount); err != nil {
		return nil, err
	}
	if err := o.authorize(ctx, log, asset, amount); err != nil {
		return nil, err
	}

	receipt, err := o.execute(ctx, log, ActionRepay, txPlan{
		estimate: func(ctx context.Context) (uint64, error) {
			return o.pair.EstimateRepayAsset(ctx, shares, o.cfg.Account)
		},
		submit: func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return o.pair.RepayAsset(ctx, gasLimit, shares, o.cfg.Account)
		},
	})
	if err != nil {
		return nil, err
	}
	return o.result(ActionRepay, receipt, amount, meta.Symbol, nil, ""), nil
}

// Withdraw redeems shares of supplied assets to the receiver. A zero
// receiver defaults to the acting account. Withdrawing surplus supply cannot
// increase position risk, so no oracle check runs; the contract enforces
// liquidity limits.
func (o *Orchestrator) Withdraw(ctx context.Context, shares *big.Int, receiver common.Address) (*ActionResult, error) {
	ctx, span, log := o.begin(ctx, ActionWithdraw)
	defer span.End()
	started := time.Now()

	result, err := o.withdraw(ctx, log, shares, receiver)
	o.finish(span, ActionWithdraw, started, err)
	return result, err
}

func (o *Orchestrator) withdraw(ctx context.Context, log *slog.Logger, shares *big.Int, receiver common.Address) (*ActionResult, error) {
	if shares == nil || shares.Sign() <= 0 {
		return nil, invalidInput("shares", "must be positive")
	}
	if (receiver == common.Address{}) {
		receiver = o.cfg.Account
	}
	cfg, err := o.reader.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	meta := o.reader.TokenMetadata(ctx, cfg.Asset)

	receipt, err := o.execute(ctx, log, ActionWithdraw, txPlan{
		estimate: func(ctx context.Context) (uint64, error) {
			return o.pair.EstimateWithdraw(ctx, shares, receiver, o.cfg.Account)
		},
		submit: func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return o.pair.Withdraw(ctx, gasLimit, shares, receiver, o.cfg.Account)
		},
	})
	if err != nil {
		return nil, err
	}
	return o.result(ActionWithdraw, receipt, shares, meta.Symbol, nil, ""), nil
}

// AddCollateral pledges amount of the collateral token to the acting
// account's position. Adding collateral cannot increase risk, so no oracle
// check runs.
func (o *Orchestrator) AddCollateral(ctx context.Context, amount *big.Int) (*ActionResult, error) {
	ctx, span, log := o.begin(ctx, ActionAddCollateral)
	defer span.End()
	started := time.Now()

	result, err := o.addCollateral(ctx, log, amount)
	o.finish(span, ActionAddCollateral, started, err)
	return result, err
}

func (o *Orchestrator) addCollateral(ctx context.Context, log *slog.Logger, amount *big.Int) (*ActionResult, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, invalidInput("amount", "must be positive")
	}
	cfg, err := o.reader.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	collateral, err := o.token(cfg.Collateral)
	if err != nil {
		return nil, err
	}
	meta := o.reader.TokenMetadata(ctx, cfg.Collateral)

	if err := o.checkBalance(ctx, collateral, meta.Symbol, amount); err != nil {
		return nil, err
	}
	if err := o.authorize(ctx, log, collateral, amount); err != nil {
		return nil, err
	}

	receipt, err := o.execute(ctx, log, ActionAddCollateral, txPlan{
		estimate: func(ctx context.Context) (uint64, error) {
			return o.pair.EstimateAddCollateral(ctx, amount, o.cfg.Account)
		},
		submit: func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return o.pair.AddCollateral(ctx, gasLimit, amount, o.cfg.Account)
		},
	})
	if err != nil {
		return nil, err
	}
	return o.result(ActionAddCollateral, receipt, amount, meta.Symbol, nil, ""), nil
}

// RemoveCollateral withdraws amount of pledged collateral to the recipient.
// When the position carries debt the oracle check is mandatory and solvency
// is re-evaluated after the hypothetical removal: removing collateral is
// what could violate it.
func (o *Orchestrator) RemoveCollateral(ctx context.Context, amount *big.Int, recipient common.Address) (*ActionResult, error) {
	ctx, span, log := o.begin(ctx, ActionRemoveCollateral)
	defer span.End()
	started := time.Now()

	result, err := o.removeCollateral(ctx, log, amount, recipient)
	o.finish(span, ActionRemoveCollateral, started, err)
	return result, err
}

func (o *Orchestrator) removeCollateral(ctx context.Context, log *slog.Logger, amount *big.Int, recipient common.Address) (*ActionResult, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, invalidInput("amount", "must be positive")
	}
	if (recipient == common.Address{}) {
		recipient = o.cfg.Account
	}
	cfg, err := o.reader.PairConfig(ctx)
	if err != nil {
		return nil, err
	}
	meta := o.reader.TokenMetadata(ctx, cfg.Collateral)
	position, err := o.reader.UserPosition(ctx, o.cfg.Account)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(position.CollateralBalance) > 0 {
		return nil, invalidInput("amount", "cannot remove more than pledged collateral")
	}

	if position.BorrowShares.Sign() > 0 {
		snapshot, err := o.guard.EnsureFreshPrice(ctx, o.oracle)
		if err != nil {
			return nil, err
		}
		state, err := o.reader.PairState(ctx)
		if err != nil {
			return nil, err
		}
		debt := DebtFromShares(position.BorrowShares, state.TotalBorrow)
		collateralAfter := new(big.Int).Sub(position.CollateralBalance, amount)
		if !IsSolvent(debt, CollateralValue(collateralAfter, snapshot.PriceLow), cfg.MaxLTV) {
			return nil, &InsufficientCollateralError{
				Action:    ActionRemoveCollateral,
				Required:  RequiredCollateral(debt, snapshot.PriceHigh, cfg.MaxLTV),
				Available: collateralAfter,
				Symbol:    meta.Symbol,
			}
		}
	}

	receipt, err := o.execute(ctx, log, ActionRemoveCollateral, txPlan{
		estimate: func(ctx context.Context) (uint64, error) {
			return o.pair.EstimateRemoveCollateral(ctx, amount, recipient)
		},
		submit: func(ctx context.Context, gasLimit uint64) (*gethtypes.Transaction, error) {
			return o.pair.RemoveCollateral(ctx, gasLimit, amount, recipient)
		},
	})
	if err != nil {
		return nil, err
	}
	return o.result(ActionRemoveCollateral, receipt, amount, meta.Symbol, nil, ""), nil
}

// txPlan carries the estimate and submit closures of one action so the gas
// fallback and retry policy live in a single place.
type txPlan struct {
	estimate func(context.Context) (uint64, error)
	submit   func(context.Context, uint64) (*gethtypes.Transaction, error)
}

// execute runs the Estimating, Submitting, and Confirming states. The
// cancellation signal is honoured at each step boundary; once the
// transaction has been submitted cancellation can no longer prevent its
// effect, so the confirmation wait detaches from the caller's context and is
// bounded by the configured timeout instead.
func (o *Orchestrator) execute(ctx context.Context, log *slog.Logger, action Action, plan txPlan) (*gethtypes.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := o.cfg.Gas.Fallback(action)
	gasLimit := fallback
	usedFallback := true
	if estimate, err := plan.estimate(ctx); err == nil {
		gasLimit = o.cfg.Gas.Pad(action, estimate)
		usedFallback = false
	} else {
		o.metrics.GasFallback(string(action))
		log.Warn("gas estimation failed, using fallback ceiling", "gasLimit", fallback, "err", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := plan.submit(ctx, gasLimit)
	if err != nil && !usedFallback && isGasShortfall(err) {
		// Exactly one retry, and only for gas under-estimation: a logical
		// revert would deterministically fail again and waste fees.
		log.Warn("provider rejected gas limit, retrying once with fallback ceiling",
			"gasLimit", gasLimit, "fallback", fallback, "err", err)
		tx, err = plan.submit(ctx, fallback)
	}
	if err != nil {
		if reason, ok := revertReason(err); ok {
			return nil, &TransactionRevertedError{Action: action, Reason: reason}
		}
		return nil, fmt.Errorf("submit %s: %w", action, err)
	}
	log.Info("transaction submitted", "tx", tx.Hash().Hex(), "gasLimit", gasLimit)

	confirmCtx := context.WithoutCancel(ctx)
	if o.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		confirmCtx, cancel = context.WithTimeout(confirmCtx, o.cfg.ConfirmTimeout)
		defer cancel()
	}
	receipt, err := o.pair.WaitMined(confirmCtx, tx)
	if err != nil {
		return nil, confirmationError(action, tx.Hash(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return nil, &TransactionRevertedError{Action: action, TxHash: tx.Hash()}
	}
	return receipt, nil
}

func (o *Orchestrator) authorize(ctx context.Context, log *slog.Logger, token TokenTransactor, amount *big.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	approval, err := o.auth.EnsureAllowance(ctx, token, o.cfg.Account, o.pair.Address(), amount, o.cfg.AutoApprove)
	if err != nil {
		return err
	}
	if approval.Approved {
		o.metrics.ApprovalSubmitted()
		log.Info("allowance granted", "token", token.Address().Hex(), "tx", approval.TxHash.Hex())
	}
	return nil
}

func (o *Orchestrator) token(address common.Address) (TokenTransactor, error) {
	token := o.tokens(address)
	if token == nil {
		return nil, readErr("token.bind", fmt.Errorf("no binding for token %s", address.Hex()))
	}
	return token, nil
}

func (o *Orchestrator) checkBalance(ctx context.Context, token TokenTransactor, symbol string, amount *big.Int) error {
	balance, err := token.BalanceOf(ctx, o.cfg.Account)
	if err != nil {
		return readErr("token.balanceOf", err)
	}
	if balance.Cmp(amount) < 0 {
		return &InsufficientBalanceError{
			Token:  token.Address(),
			Owner:  o.cfg.Account,
			Symbol: symbol,
			Have:   balance,
			Need:   amount,
		}
	}
	return nil
}

func (o *Orchestrator) result(action Action, receipt *gethtypes.Receipt, amount *big.Int, symbol string, collateral *big.Int, collateralSymbol string) *ActionResult {
	result := &ActionResult{
		Action: action,
		TxHash: receipt.TxHash,
		Amount: amount,
		Symbol: symbol,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if collateral != nil {
		result.Collateral = collateral
		result.CollateralSymbol = collateralSymbol
	}
	return result
}

func (o *Orchestrator) begin(ctx context.Context, action Action) (context.Context, trace.Span, *slog.Logger) {
	ctx, span := o.tracer.Start(ctx, "lending."+string(action),
		trace.WithAttributes(
			attribute.String("lending.action", string(action)),
			attribute.String("lending.pair", o.pair.Address().Hex()),
			attribute.String("lending.account", o.cfg.Account.Hex()),
		))
	log := o.log.With("action", string(action), "invocation", uuid.NewString())
	return ctx, span, log
}

func (o *Orchestrator) finish(span trace.Span, action Action, started time.Time, err error) {
	elapsed := time.Since(started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.metrics.ObserveAction(string(action), "failed", elapsed)
		return
	}
	span.SetStatus(codes.Ok, "")
	o.metrics.ObserveAction(string(action), "succeeded", elapsed)
}

// isGasShortfall reports whether a provider rejection is specifically about
// gas under-estimation, the only submission failure worth a second attempt.
func isGasShortfall(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"intrinsic gas too low",
		"out of gas",
		"gas required exceeds allowance",
		"gas limit reached",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// revertReason extracts the decoded revert string a provider attaches to an
// "execution reverted" rejection.
func revertReason(err error) (string, bool) {
	msg := err.Error()
	idx := strings.Index(strings.ToLower(msg), "execution reverted")
	if idx < 0 {
		return "", false
	}
	reason := strings.TrimPrefix(msg[idx+len("execution reverted"):], ":")
	return strings.TrimSpace(reason), true
}
