package staking

import (
	"context"
	"fmt"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/reward"
)

// AccountView assembles the full per-account projection: custody state,
// per-deposit pending figures, the skill profile, and best-effort XP.
func (s *service) AccountView(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetAccount, err)
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	deposits, err := s.repo.GetDeposits(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetDeposits, err)
	}

	profile, err := s.profileFor(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	views := make([]domain.DepositView, 0, len(deposits))
	var pending, boosted int64
	for _, d := range deposits {
		in := reward.Input{
			Principal:   d.Amount,
			LockTier:    d.LockTier,
			CreatedAt:   d.CreatedAt,
			LastClaimAt: d.LastClaimAt,
			Now:         now,
		}
		unboosted := reward.Calculate(in)
		in.Boosted = true
		in.BoostBP = profile.YieldBoostBP
		in.RarityPct = profile.RarityPct
		withBoost := reward.Calculate(in)

		pending += unboosted
		boosted += withBoost
		views = append(views, domain.DepositView{
			ID:       d.ID,
			Amount:   d.Amount,
			LockTier: d.LockTier,
			StakedAt: d.CreatedAt,
			UnlockAt: d.UnlockAt(profile.LockReductionBP),
			Locked:   d.Locked(now, profile.LockReductionBP),
			Pending:  withBoost,
		})
	}

	summary := &domain.AccountSummary{
		AccountID:      accountID,
		TotalDeposited: account.TotalDeposited,
		PendingReward:  pending,
		BoostedReward:  boosted,
		Deposits:       views,
		LastWithdrawAt: account.LastWithdrawAt,
	}
	if s.skills != nil {
		summary.Profile = profile
	}

	if s.gamification != nil {
		xp, err := s.gamification.XPInfo(ctx, accountID)
		if err != nil {
			// Best-effort enrichment: the view still renders without it.
			logger.FromContext(ctx).Debug(LogMsgXPLookupFailed, "account_id", accountID, "error", err)
		} else {
			summary.XP = xp
		}
	}

	return summary, nil
}

// PoolView reports the pool aggregates and lifecycle state.
func (s *service) PoolView(ctx context.Context) (*domain.PoolView, error) {
	stats, err := s.repo.GetPoolStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPool, err)
	}

	state, err := s.repo.GetLedgerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetLedgerState, err)
	}

	return &domain.PoolView{Stats: *stats, State: *state}, nil
}
