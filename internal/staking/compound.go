package staking

import (
	"context"
	"fmt"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/gamification"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/repository"
)

func (s *service) Compound(ctx context.Context, accountID string) (*domain.CompoundResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Compound called", "account_id", accountID)

	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	ctx, release, err := s.guard.Enter(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.gateState(ctx, false); err != nil {
		return nil, err
	}

	profile, err := s.profileFor(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	account, err := tx.AccountForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetAccount, err)
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	if account.DepositCount >= domain.MaxDepositsPerAccount {
		return nil, fmt.Errorf("%w: %d deposits", domain.ErrDepositLimit, account.DepositCount)
	}

	deposits, err := tx.GetDeposits(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetDeposits, err)
	}

	amount := sumRewards(deposits, profile, now)
	if amount <= 0 {
		return nil, domain.ErrNoRewards
	}
	// The fold creates a deposit like any other, so the deposit-size cap
	// applies to the folded amount as well.
	if amount > s.econ.MaxStakeAmount {
		return nil, fmt.Errorf("%w: %d exceeds max deposit %d", domain.ErrInvalidAmount, amount, s.econ.MaxStakeAmount)
	}

	pool, err := tx.PoolForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPool, err)
	}
	if pool.RewardReserve < amount {
		return nil, fmt.Errorf("%w: need %d, reserve %d", domain.ErrInsufficientReserve, amount, pool.RewardReserve)
	}

	// The reward is claimed and immediately restaked, so every existing
	// deposit's accrual clock restarts alongside the new one.
	if err := tx.TouchDeposits(ctx, accountID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgTouchDeposits, err)
	}

	deposit := &domain.Deposit{
		AccountID:   accountID,
		Amount:      amount,
		LockTier:    domain.TierFlexible,
		CreatedAt:   now,
		LastClaimAt: now,
	}
	if err := tx.InsertDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInsertDeposit, err)
	}

	account.TotalDeposited += amount
	account.DepositCount++
	if err := tx.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
	}

	pool.RewardReserve -= amount
	pool.TotalPoolBalance += amount
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}

	if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferDepositIn, amount, MemoCompound)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewCompoundPerformedEvent(accountID, deposit.ID, amount))

	s.wg.Add(1)
	go s.notifyGamification(context.Background(), accountID, gamification.ActionCompound, amount)

	log.Info(LogMsgRewardsCompounded,
		"account_id", accountID,
		"deposit_id", deposit.ID,
		"amount", amount)

	return &domain.CompoundResult{
		AccountID: accountID,
		DepositID: deposit.ID,
		Amount:    amount,
	}, nil
}
