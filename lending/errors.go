package lending

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel values for classifying failures with errors.Is. The typed errors
// below unwrap to these, carrying the amounts, symbols, and addresses a
// caller needs to act without re-deriving them.
var (
	ErrRemoteRead             = errors.New("lending: remote read failed")
	ErrInsufficientAllowance  = errors.New("lending: insufficient allowance")
	ErrInsufficientBalance    = errors.New("lending: insufficient balance")
	ErrOracleDataInvalid      = errors.New("lending: oracle data invalid")
	ErrOracleStale            = errors.New("lending: oracle data stale")
	ErrInsufficientCollateral = errors.New("lending: insufficient collateral")
	ErrExceedsBorrowLimit     = errors.New("lending: exceeds borrow limit")
	ErrTransactionReverted    = errors.New("lending: transaction reverted")
	ErrConfirmationTimeout    = errors.New("lending: confirmation timed out")
	ErrInvalidInput           = errors.New("lending: invalid input")
	ErrWriteCapability        = errors.New("lending: write capability required")
)

// RemoteReadError wraps a failed transport read. Reads of balance and rate
// data are never silently defaulted, so this aborts the calling flow.
type RemoteReadError struct {
	Op  string
	Err error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("remote read %s: %v", e.Op, e.Err)
}

func (e *RemoteReadError) Unwrap() []error { return []error{ErrRemoteRead, e.Err} }

func readErr(op string, err error) error {
	return &RemoteReadError{Op: op, Err: err}
}

// InsufficientAllowanceError reports an allowance shortfall when automatic
// approval is disabled.
type InsufficientAllowanceError struct {
	Token   common.Address
	Owner   common.Address
	Spender common.Address
	Symbol  string
	Have    *big.Int
	Need    *big.Int
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("allowance %s %s for spender %s, need %s",
		e.Have, e.Symbol, e.Spender.Hex(), e.Need)
}

func (e *InsufficientAllowanceError) Unwrap() error { return ErrInsufficientAllowance }

// InsufficientBalanceError reports a token balance below the amount an
// action would move.
type InsufficientBalanceError struct {
	Token  common.Address
	Owner  common.Address
	Symbol string
	Have   *big.Int
	Need   *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("balance %s %s below required %s", e.Have, e.Symbol, e.Need)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// OracleDataInvalidError reports a price feed that flagged bad data or
// published a zero price. No risk computation may proceed on it.
type OracleDataInvalidError struct {
	Oracle    common.Address
	BadData   bool
	PriceLow  *big.Int
	PriceHigh *big.Int
}

func (e *OracleDataInvalidError) Error() string {
	if e.BadData {
		return fmt.Sprintf("oracle %s flagged bad data", e.Oracle.Hex())
	}
	return fmt.Sprintf("oracle %s published zero price (low=%s high=%s)", e.Oracle.Hex(), e.PriceLow, e.PriceHigh)
}

func (e *OracleDataInvalidError) Unwrap() error { return ErrOracleDataInvalid }

// OracleStaleError reports price data older than the allowed threshold that
// could not be refreshed.
type OracleStaleError struct {
	Oracle     common.Address
	LastUpdate time.Time
	Threshold  time.Duration
}

func (e *OracleStaleError) Error() string {
	return fmt.Sprintf("oracle %s last updated %s, older than %s threshold",
		e.Oracle.Hex(), e.LastUpdate.UTC().Format(time.RFC3339), e.Threshold)
}

func (e *OracleStaleError) Unwrap() error { return ErrOracleStale }

// InsufficientCollateralError reports a pre-flight risk check failure: the
// position's collateral cannot support the requested borrow or would not
// support the debt after the requested removal.
type InsufficientCollateralError struct {
	Action    Action
	Required  *big.Int
	Available *big.Int
	Symbol    string
}

func (e *InsufficientCollateralError) Error() string {
	return fmt.Sprintf("%s requires %s %s collateral, have %s", e.Action, e.Required, e.Symbol, e.Available)
}

func (e *InsufficientCollateralError) Unwrap() error { return ErrInsufficientCollateral }

// ExceedsBorrowLimitError reports a borrow larger than the liquidity the
// pair can currently lend out.
type ExceedsBorrowLimitError struct {
	Requested *big.Int
	Available *big.Int
	Symbol    string
}

func (e *ExceedsBorrowLimitError) Error() string {
	return fmt.Sprintf("borrow of %s %s exceeds available liquidity %s", e.Requested, e.Symbol, e.Available)
}

func (e *ExceedsBorrowLimitError) Unwrap() error { return ErrExceedsBorrowLimit }

// TransactionRevertedError reports a remote contract rejection after
// submission. The transaction hash is attached when known so the caller can
// inspect the failure before deciding whether to retry.
type TransactionRevertedError struct {
	Action Action
	TxHash common.Hash
	Reason string
}

func (e *TransactionRevertedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s transaction %s reverted: %s", e.Action, e.TxHash.Hex(), e.Reason)
	}
	return fmt.Sprintf("%s transaction %s reverted", e.Action, e.TxHash.Hex())
}

func (e *TransactionRevertedError) Unwrap() error { return ErrTransactionReverted }

// ConfirmationTimeoutError reports an ambiguous outcome: the confirmation
// wait expired but the transaction may still be mined later. It is distinct
// from a revert; callers must re-check position state before retrying.
type ConfirmationTimeoutError struct {
	Action Action
	TxHash common.Hash
	After  time.Duration
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("%s transaction %s unconfirmed after %s", e.Action, e.TxHash.Hex(), e.After)
}

func (e *ConfirmationTimeoutError) Unwrap() error { return ErrConfirmationTimeout }

// InvalidInputError reports a validation failure raised before any network
// write. Always safe to retry after correcting the input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// confirmationError maps a confirmation-wait failure to the taxonomy. An
// expired wait is ambiguous, not a revert: the transaction may still be mined
// later.
func confirmationError(action Action, hash common.Hash, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ConfirmationTimeoutError{Action: action, TxHash: hash}
	}
	return fmt.Errorf("confirm %s transaction %s: %w", action, hash.Hex(), err)
}
