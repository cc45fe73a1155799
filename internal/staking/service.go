// Package staking implements the custody ledger: deposits under fixed lock
// tiers, hourly reward accrual, reward and principal withdrawals, compounding,
// and the pause/migrate lifecycle. Every mutation is a single transaction that
// either fully applies or fully aborts, with transfer rows written alongside
// so the books always reconcile.
package staking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novakeep/stakevault/internal/concurrency"
	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/gamification"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/repository"
	"github.com/novakeep/stakevault/internal/reward"
)

// Service defines the interface for ledger operations
type Service interface {
	// Deposit accepts funds into custody under the given lock tier. The
	// treasury commission is skimmed up front; only the net amount stakes.
	Deposit(ctx context.Context, accountID string, tier domain.LockTier, amount int64) (*domain.DepositResult, error)

	// Rewards returns the account's pending unboosted reward. Unknown
	// accounts simply have zero pending.
	Rewards(ctx context.Context, accountID string) (int64, error)

	// BoostedRewards returns the pending reward with the account's skill
	// profile applied. Requires the skills module to be wired.
	BoostedRewards(ctx context.Context, accountID string) (int64, error)

	// Withdraw pays out all pending boosted rewards, leaving principal
	// staked. Subject to lock expiry, the daily cap, and reserve coverage.
	Withdraw(ctx context.Context, accountID string) (*domain.WithdrawalResult, error)

	// WithdrawAll closes the account: principal plus rewards leave custody
	// in one movement and the account record is deleted. Still available
	// after migration so a retired ledger cannot trap funds.
	WithdrawAll(ctx context.Context, accountID string) (*domain.WithdrawalResult, error)

	// Compound folds the full pending boosted reward into a new flexible
	// deposit without a commission.
	Compound(ctx context.Context, accountID string) (*domain.CompoundResult, error)

	AccountView(ctx context.Context, accountID string) (*domain.AccountSummary, error)
	PoolView(ctx context.Context) (*domain.PoolView, error)

	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
	SetTreasury(ctx context.Context, address string) error
	SetMigrationTarget(ctx context.Context, target string) error
	FundReserve(ctx context.Context, amount int64) (*domain.PoolStats, error)

	Shutdown(ctx context.Context) error
}

// SkillsService defines the interface for skill profile lookups
type SkillsService interface {
	GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error)
}

// GamificationAuthority defines the interface for the external progression
// backend. Everything here is best-effort from the ledger's point of view.
type GamificationAuthority interface {
	NotifyAction(ctx context.Context, accountID, action string, amount int64) error
	XPInfo(ctx context.Context, accountID string) (*domain.XPInfo, error)
}

// EventPublisher defines the interface for publishing ledger events
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Economics bundles the tunable money parameters. Zero-config deployments run
// on DefaultEconomics; overrides come in at wiring time.
type Economics struct {
	CommissionRateBP int64
	DailyWithdrawCap int64
	MinStakeAmount   int64
	MaxStakeAmount   int64
}

// DefaultEconomics returns the stock parameter set.
func DefaultEconomics() Economics {
	return Economics{
		CommissionRateBP: domain.DefaultCommissionRateBP,
		DailyWithdrawCap: domain.DefaultDailyWithdrawCap,
		MinStakeAmount:   domain.MinStakeAmount,
		MaxStakeAmount:   domain.MaxStakeAmount,
	}
}

type service struct {
	repo         repository.Staking
	skills       SkillsService
	gamification GamificationAuthority
	publisher    EventPublisher
	guard        *concurrency.AccountGuard
	econ         Economics
	now          func() time.Time // injected for deterministic tests
	adminMu      sync.Mutex       // serializes lifecycle mutations
	wg           sync.WaitGroup
}

// NewService creates a new staking service. skills, gamification, and
// publisher may be nil when the corresponding module is not deployed.
func NewService(repo repository.Staking, skills SkillsService, gamification GamificationAuthority, publisher EventPublisher, guard *concurrency.AccountGuard, econ Economics) Service {
	return &service{
		repo:         repo,
		skills:       skills,
		gamification: gamification,
		publisher:    publisher,
		guard:        guard,
		econ:         econ,
		now:          time.Now,
	}
}

func (s *service) Deposit(ctx context.Context, accountID string, tier domain.LockTier, amount int64) (*domain.DepositResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Deposit called", "account_id", accountID, "lock_tier", int(tier), "amount", amount)

	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidTier, tier)
	}
	if amount < s.econ.MinStakeAmount || amount > s.econ.MaxStakeAmount {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrInvalidAmount, amount, s.econ.MinStakeAmount, s.econ.MaxStakeAmount)
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

	now := s.now().UTC()
	commission := amount * s.econ.CommissionRateBP / domain.Basis
	net := amount - commission

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	account, err := tx.AccountForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetAccount, err)
	}
	if account != nil && account.DepositCount >= domain.MaxDepositsPerAccount {
		return nil, fmt.Errorf("%w: %d deposits", domain.ErrDepositLimit, account.DepositCount)
	}

	deposit := &domain.Deposit{
		AccountID:   accountID,
		Amount:      net,
		LockTier:    tier,
		CreatedAt:   now,
		LastClaimAt: now,
	}
	if err := tx.InsertDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInsertDeposit, err)
	}

	newAccount := account == nil
	if newAccount {
		account = &domain.StakeAccount{AccountID: accountID, CreatedAt: now}
	}
	account.TotalDeposited += net
	account.DepositCount++
	if newAccount {
		if err := tx.CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgCreateAccount, err)
		}
	} else {
		if err := tx.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
		}
	}

	pool, err := tx.PoolForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetPool, err)
	}
	pool.TotalPoolBalance += net
	if newAccount {
		pool.UniqueAccounts++
	}
	if err := tx.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}

	if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferDepositIn, net, SourceDeposit)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}
	if commission > 0 {
		if err := tx.InsertTransfer(ctx, domain.NewTransfer(accountID, domain.TransferCommission, commission, SourceDeposit)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCommissionTransfer, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.publish(ctx, event.NewDepositMadeEvent(accountID, deposit.ID, int(tier), amount, commission, net))
	if commission > 0 {
		s.publish(ctx, event.NewCommissionPaidEvent(accountID, state.Treasury, commission, SourceDeposit))
	}

	s.wg.Add(1)
	go s.notifyGamification(context.Background(), accountID, gamification.ActionStake, net)

	log.Info(LogMsgDepositAccepted,
		"account_id", accountID,
		"deposit_id", deposit.ID,
		"lock_tier", int(tier),
		"gross", amount,
		"commission", commission,
		"net", net)

	return &domain.DepositResult{
		AccountID:  accountID,
		DepositID:  deposit.ID,
		LockTier:   tier,
		Gross:      amount,
		Commission: commission,
		Net:        net,
	}, nil
}

func (s *service) Rewards(ctx context.Context, accountID string) (int64, error) {
	if accountID == "" {
		return 0, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	deposits, err := s.repo.GetDeposits(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgGetDeposits, err)
	}

	return sumRewards(deposits, nil, s.now().UTC()), nil
}

func (s *service) BoostedRewards(ctx context.Context, accountID string) (int64, error) {
	if accountID == "" {
		return 0, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}
	if s.skills == nil {
		return 0, fmt.Errorf("%w: skills", domain.ErrModuleNotConfigured)
	}

	profile, err := s.skills.GetProfile(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgGetProfile, err)
	}

	deposits, err := s.repo.GetDeposits(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgGetDeposits, err)
	}

	return sumRewards(deposits, profile, s.now().UTC()), nil
}

// gateState rejects mutations while the ledger is paused or migrated.
// allowMigrated lets close-out withdrawals pass after migration so the
// retired ledger cannot trap funds.
func (s *service) gateState(ctx context.Context, allowMigrated bool) (*domain.LedgerState, error) {
	state, err := s.repo.GetLedgerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetLedgerState, err)
	}
	if state.Paused {
		return nil, domain.ErrLedgerPaused
	}
	if state.Migrated() && !allowMigrated {
		return nil, fmt.Errorf("%w: %s", domain.ErrLedgerMigrated, state.MigratedTo)
	}
	return state, nil
}

// profileFor returns the account's skill profile, or the neutral profile when
// the skills module is not wired.
func (s *service) profileFor(ctx context.Context, accountID string) (*domain.SkillProfile, error) {
	if s.skills == nil {
		return &domain.SkillProfile{AccountID: accountID, RarityPct: domain.RarityCommon.MultiplierPct()}, nil
	}
	profile, err := s.skills.GetProfile(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetProfile, err)
	}
	return profile, nil
}

// effectiveFeeBP applies the account's fee discount to the commission rate.
func (s *service) effectiveFeeBP(profile *domain.SkillProfile) int64 {
	var discount int64
	if profile != nil {
		discount = profile.FeeDiscountBP
		if discount > domain.Basis {
			discount = domain.Basis
		}
		if discount < 0 {
			discount = 0
		}
	}
	return s.econ.CommissionRateBP * (domain.Basis - discount) / domain.Basis
}

// sumRewards totals the pending reward across deposits. A nil profile sums
// the unboosted figure.
func sumRewards(deposits []domain.Deposit, profile *domain.SkillProfile, now time.Time) int64 {
	var total int64
	for _, d := range deposits {
		in := reward.Input{
			Principal:   d.Amount,
			LockTier:    d.LockTier,
			CreatedAt:   d.CreatedAt,
			LastClaimAt: d.LastClaimAt,
			Now:         now,
		}
		if profile != nil {
			in.Boosted = true
			in.BoostBP = profile.YieldBoostBP
			in.RarityPct = profile.RarityPct
		}
		total += reward.Calculate(in)
	}
	return total
}

// publish emits a post-commit event when the event system is wired.
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}

// notifyGamification reports a completed action to the gamification authority.
// Best-effort: failures are logged and never propagated to the caller.
// NOTE: Caller must call s.wg.Add(1) before launching this in a goroutine
func (s *service) notifyGamification(ctx context.Context, accountID, action string, amount int64) {
	defer s.wg.Done()

	if s.gamification == nil {
		return
	}

	if err := s.gamification.NotifyAction(ctx, accountID, action, amount); err != nil {
		logger.FromContext(ctx).Warn(LogMsgNotifyFailed, "account_id", accountID, "action", action, "error", err)
	}
}

func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info("Staking service shutting down, waiting for background tasks...")
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
