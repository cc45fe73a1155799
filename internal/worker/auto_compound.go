package worker

import (
	"context"
	"errors"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/gamification"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/staking"
)

// AccountLister enumerates every live account for sweep jobs.
type AccountLister interface {
	ListAccountIDs(ctx context.Context) ([]string, error)
}

// AutoCompoundJob walks every account on each run and compounds the pending
// boosted reward for accounts that opted in through the gamification
// authority. Accounts below the reward threshold are left alone so the sweep
// does not litter the ledger with dust deposits.
type AutoCompoundJob struct {
	staking   staking.Service
	authority gamification.Authority
	accounts  AccountLister
	minReward int64
}

// NewAutoCompoundJob creates a new AutoCompoundJob. The job is only ever
// scheduled when a gamification authority is configured, so authority must
// not be nil.
func NewAutoCompoundJob(stakingService staking.Service, authority gamification.Authority, accounts AccountLister, minReward int64) *AutoCompoundJob {
	return &AutoCompoundJob{
		staking:   stakingService,
		authority: authority,
		accounts:  accounts,
		minReward: minReward,
	}
}

// Process runs one sweep. Per-account failures are logged and skipped so a
// single broken account never aborts the rest of the sweep.
func (j *AutoCompoundJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSweepStarted)

	ids, err := j.accounts.ListAccountIDs(ctx)
	if err != nil {
		log.Error(LogMsgSweepListFailed, "error", err)
		return err
	}

	var compounded, skipped int
	for _, accountID := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		pending, err := j.staking.BoostedRewards(ctx, accountID)
		if err != nil {
			log.Error(LogMsgSweepRewardCheck, "accountID", accountID, "error", err)
			skipped++
			continue
		}
		if pending < j.minReward {
			continue
		}

		enabled, err := j.authority.AutoCompoundEnabled(ctx, accountID)
		if err != nil {
			log.Error(LogMsgSweepOptInCheck, "accountID", accountID, "error", err)
			skipped++
			continue
		}
		if !enabled {
			continue
		}

		result, err := j.staking.Compound(ctx, accountID)
		if err != nil {
			// A pause or migration flipping mid-sweep affects every
			// remaining account the same way; stop instead of logging
			// the identical error once per account.
			if errors.Is(err, domain.ErrLedgerPaused) || errors.Is(err, domain.ErrLedgerMigrated) {
				log.Info(LogMsgSweepHalted, "reason", err.Error())
				break
			}
			log.Error(LogMsgSweepCompoundFailed, "accountID", accountID, "error", err)
			skipped++
			continue
		}

		log.Info(LogMsgSweepAccountCompounded, "accountID", accountID, "amount", result.Amount, "depositID", result.DepositID)
		compounded++
	}

	log.Info(LogMsgSweepCompleted, "accounts", len(ids), "compounded", compounded, "skipped", skipped)
	return nil
}
