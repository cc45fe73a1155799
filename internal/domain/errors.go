package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Account errors
	ErrMsgAccountNotFound = "account not found"

	// Deposit errors
	ErrMsgInvalidAmount = "amount out of bounds"
	ErrMsgInvalidTier   = "invalid lock tier"
	ErrMsgDepositLimit  = "deposit limit reached"

	// Withdrawal errors
	ErrMsgNoRewards           = "no rewards available"
	ErrMsgFundsLocked         = "funds are still locked"
	ErrMsgDailyCapExceeded    = "daily withdrawal cap exceeded"
	ErrMsgInsufficientReserve = "insufficient reward reserve"

	// Lifecycle errors
	ErrMsgLedgerPaused    = "ledger is paused"
	ErrMsgLedgerMigrated  = "ledger has migrated"
	ErrMsgAlreadyMigrated = "migration target already set"
	ErrMsgZeroAddress     = "address must not be empty"

	// Skill grant errors
	ErrMsgGrantActive      = "grant already active"
	ErrMsgGrantNotActive   = "grant not active"
	ErrMsgGrantLimit       = "active grant limit reached"
	ErrMsgInvalidSkillType = "invalid skill type"
	ErrMsgInvalidRarity    = "invalid rarity"
	ErrMsgInvalidMagnitude = "magnitude must be positive"

	// Wiring errors
	ErrMsgModuleNotConfigured = "module not configured"
	ErrMsgReentrantCall       = "reentrant call rejected"

	// Transfer errors
	ErrMsgCommissionTransfer = "commission transfer failed"
	ErrMsgTransferFailed     = "value transfer failed"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed" // matches pgx.ErrTxClosed

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Account errors
	ErrAccountNotFound = errors.New(ErrMsgAccountNotFound)

	// Deposit errors
	ErrInvalidAmount = errors.New(ErrMsgInvalidAmount)
	ErrInvalidTier   = errors.New(ErrMsgInvalidTier)
	ErrDepositLimit  = errors.New(ErrMsgDepositLimit)

	// Withdrawal errors
	ErrNoRewards           = errors.New(ErrMsgNoRewards)
	ErrFundsLocked         = errors.New(ErrMsgFundsLocked)
	ErrDailyCapExceeded    = errors.New(ErrMsgDailyCapExceeded)
	ErrInsufficientReserve = errors.New(ErrMsgInsufficientReserve)

	// Lifecycle errors
	ErrLedgerPaused    = errors.New(ErrMsgLedgerPaused)
	ErrLedgerMigrated  = errors.New(ErrMsgLedgerMigrated)
	ErrAlreadyMigrated = errors.New(ErrMsgAlreadyMigrated)
	ErrZeroAddress     = errors.New(ErrMsgZeroAddress)

	// Skill grant errors
	ErrGrantActive      = errors.New(ErrMsgGrantActive)
	ErrGrantNotActive   = errors.New(ErrMsgGrantNotActive)
	ErrGrantLimit       = errors.New(ErrMsgGrantLimit)
	ErrInvalidSkillType = errors.New(ErrMsgInvalidSkillType)
	ErrInvalidRarity    = errors.New(ErrMsgInvalidRarity)
	ErrInvalidMagnitude = errors.New(ErrMsgInvalidMagnitude)

	// Wiring errors
	ErrModuleNotConfigured = errors.New(ErrMsgModuleNotConfigured)
	ErrReentrantCall       = errors.New(ErrMsgReentrantCall)

	// Transfer errors
	ErrCommissionTransfer = errors.New(ErrMsgCommissionTransfer)
	ErrTransferFailed     = errors.New(ErrMsgTransferFailed)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// DailyCapError reports a withdrawal rejected by the daily cap together with
// the allowance still available for the current UTC day.
type DailyCapError struct {
	Requested int64
	Remaining int64
}

func (e *DailyCapError) Error() string {
	return fmt.Sprintf("%s: requested %d, remaining allowance %d", ErrMsgDailyCapExceeded, e.Requested, e.Remaining)
}

// Unwrap allows errors.Is(err, ErrDailyCapExceeded) checks.
func (e *DailyCapError) Unwrap() error { return ErrDailyCapExceeded }

// LockedFundsError reports which deposit blocked a withdrawal and when it unlocks.
type LockedFundsError struct {
	DepositID int64
	UnlockAt  time.Time
}

func (e *LockedFundsError) Error() string {
	return fmt.Sprintf("%s: deposit %d unlocks at %s", ErrMsgFundsLocked, e.DepositID, e.UnlockAt.UTC().Format(time.RFC3339))
}

// Unwrap allows errors.Is(err, ErrFundsLocked) checks.
func (e *LockedFundsError) Unwrap() error { return ErrFundsLocked }
