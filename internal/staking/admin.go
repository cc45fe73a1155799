package staking

import (
	"context"
	"fmt"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/repository"
)

// Pause halts all value-moving operations. Idempotent: pausing a paused
// ledger is a no-op.
func (s *service) Pause(ctx context.Context) error {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.LedgerStateForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgGetLedgerState, err)
	}
	if state.Paused {
		return nil
	}

	state.Paused = true
	state.UpdatedAt = s.now().UTC()
	if err := tx.UpdateLedgerState(ctx, state); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdateLedgerState, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewLedgerPausedEvent(true))
	logger.FromContext(ctx).Info(LogMsgLedgerPaused)
	return nil
}

// Unpause resumes normal operation.
func (s *service) Unpause(ctx context.Context) error {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.LedgerStateForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgGetLedgerState, err)
	}
	if !state.Paused {
		return nil
	}

	state.Paused = false
	state.UpdatedAt = s.now().UTC()
	if err := tx.UpdateLedgerState(ctx, state); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdateLedgerState, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewLedgerPausedEvent(false))
	logger.FromContext(ctx).Info(LogMsgLedgerUnpaused)
	return nil
}

// SetTreasury points commission routing at a new address.
func (s *service) SetTreasury(ctx context.Context, address string) error {
	if address == "" {
		return domain.ErrZeroAddress
	}

	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.LedgerStateForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgGetLedgerState, err)
	}
	if state.Treasury == address {
		return nil
	}

	old := state.Treasury
	state.Treasury = address
	state.UpdatedAt = s.now().UTC()
	if err := tx.UpdateLedgerState(ctx, state); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdateLedgerState, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewTreasuryChangedEvent(old, address))
	logger.FromContext(ctx).Info(LogMsgTreasuryChanged, "old", old, "new", address)
	return nil
}

// SetMigrationTarget records the successor ledger's address. One-way: once
// set, the target can never change and deposits/compounds stay disabled
// forever on this instance.
func (s *service) SetMigrationTarget(ctx context.Context, target string) error {
	if target == "" {
		return domain.ErrZeroAddress
	}

	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.LedgerStateForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgGetLedgerState, err)
	}
	if state.Migrated() {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyMigrated, state.MigratedTo)
	}

	now := s.now().UTC()
	state.MigratedTo = target
	state.MigratedAt = &now
	state.UpdatedAt = now
	if err := tx.UpdateLedgerState(ctx, state); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdateLedgerState, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewMigrationInitiatedEvent(target))
	logger.FromContext(ctx).Info(LogMsgMigrationInitiated, "target", target)
	return nil
}

// FundReserve tops up the reward reserve. The reserve is the only source
// reward payouts draw from; depositing principal never funds it.
func (s *service) FundReserve(ctx context.Context, amount int64) (*domain.PoolStats, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}

	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	pool, err := tx.PoolForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPool, err)
	}

	pool.RewardReserve += amount
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}

	if err := tx.InsertTransfer(ctx, domain.NewTransfer("", domain.TransferReserveFund, amount, SourceFund)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewReserveFundedEvent(amount, pool.RewardReserve))
	logger.FromContext(ctx).Info(LogMsgReserveFunded, "amount", amount, "new_reserve", pool.RewardReserve)
	return pool, nil
}
