package staking

import (
	"context"
	"fmt"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/repository"
)

func (s *service) Withdraw(ctx context.Context, accountID string) (*domain.WithdrawalResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Withdraw called", "account_id", accountID)

	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	ctx, release, err := s.guard.Enter(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := s.gateState(ctx, false)
	if err != nil {
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

	deposits, err := tx.GetDeposits(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetDeposits, err)
	}

	gross := sumRewards(deposits, profile, now)
	if gross <= 0 {
		return nil, domain.ErrNoRewards
	}

	// Rewards only pay out once every deposit's lock has expired: a single
	// locked deposit blocks the whole withdrawal.
	for _, d := range deposits {
		if d.Locked(now, profile.LockReductionBP) {
			return nil, &domain.LockedFundsError{DepositID: d.ID, UnlockAt: d.UnlockAt(profile.LockReductionBP)}
		}
	}

	day := now.Format(DayFormat)
	withdrawn, err := tx.DailyWithdrawnForUpdate(ctx, accountID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetDailyWithdrawn, err)
	}
	if withdrawn+gross > s.econ.DailyWithdrawCap {
		remaining := s.econ.DailyWithdrawCap - withdrawn
		if remaining < 0 {
			remaining = 0
		}
		return nil, &domain.DailyCapError{Requested: gross, Remaining: remaining}
	}

	pool, err := tx.PoolForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPool, err)
	}
	if pool.RewardReserve < gross {
		return nil, fmt.Errorf("%w: need %d, reserve %d", domain.ErrInsufficientReserve, gross, pool.RewardReserve)
	}

	commission := gross * s.effectiveFeeBP(profile) / domain.Basis
	net := gross - commission

	if err := tx.TouchDeposits(ctx, accountID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgTouchDeposits, err)
	}
	account.LastWithdrawAt = &now
	if err := tx.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
	}
	if err := tx.AddDailyWithdrawn(ctx, accountID, day, gross); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgAddDailyWithdrawn, err)
	}
	pool.RewardReserve -= gross
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}

	if net > 0 {
		if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferRewardPayout, net, SourceWithdraw)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
		}
	}
	if commission > 0 {
		if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferCommission, commission, SourceWithdraw)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCommissionTransfer, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewWithdrawalMadeEvent(accountID, 0, gross, commission, net, false))
	if commission > 0 {
		s.publish(ctx, event.NewCommissionPaidEvent(accountID, state.Treasury, commission, SourceWithdraw))
	}

	log.Info(LogMsgRewardsWithdrawn,
		"account_id", accountID,
		"gross", gross,
		"commission", commission,
		"net", net)

	return &domain.WithdrawalResult{
		AccountID:  accountID,
		Principal:  0,
		Reward:     gross,
		Commission: commission,
		NetPaid:    net,
	}, nil
}

func (s *service) WithdrawAll(ctx context.Context, accountID string) (*domain.WithdrawalResult, error) {
	log := logger.FromContext(ctx)
	log.Info("WithdrawAll called", "account_id", accountID)

	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	ctx, release, err := s.guard.Enter(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := s.gateState(ctx, true)
	if err != nil {
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

	deposits, err := tx.GetDeposits(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetDeposits, err)
	}

	for _, d := range deposits {
		if d.Locked(now, profile.LockReductionBP) {
			return nil, &domain.LockedFundsError{DepositID: d.ID, UnlockAt: d.UnlockAt(profile.LockReductionBP)}
		}
	}

	grossRewards := sumRewards(deposits, profile, now)
	principal := account.TotalDeposited

	pool, err := tx.PoolForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPool, err)
	}
	if pool.RewardReserve < grossRewards {
		return nil, fmt.Errorf("%w: need %d, reserve %d", domain.ErrInsufficientReserve, grossRewards, pool.RewardReserve)
	}

	// The commission applies to the reward portion only; principal returns
	// in full.
	commission := grossRewards * s.effectiveFeeBP(profile) / domain.Basis
	rewardNet := grossRewards - commission
	net := principal + rewardNet

	if err := tx.DeleteDeposits(ctx, accountID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDeleteDeposits, err)
	}
	if err := tx.DeleteAccount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDeleteAccount, err)
	}
	pool.TotalPoolBalance -= principal
	pool.RewardReserve -= grossRewards
	pool.UniqueAccounts--
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}

	if principal > 0 {
		if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferPrincipalPayout, principal, SourceWithdrawAll)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
		}
	}
	if rewardNet > 0 {
		if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferRewardPayout, rewardNet, SourceWithdrawAll)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
		}
	}
	if commission > 0 {
		if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferCommission, commission, SourceWithdrawAll)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCommissionTransfer, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewWithdrawalMadeEvent(accountID, principal, grossRewards, commission, net, true))
	if commission > 0 {
		s.publish(ctx, event.NewCommissionPaidEvent(accountID, state.Treasury, commission, SourceWithdrawAll))
	}

	log.Info(LogMsgAccountClosed,
		"account_id", accountID,
		"principal", principal,
		"rewards", grossRewards,
		"commission", commission,
		"net", net)

	return &domain.WithdrawalResult{
		AccountID:  accountID,
		Principal:  principal,
		Reward:     grossRewards,
		Commission: commission,
		NetPaid:    net,
	}, nil
}
