package domain

import "time"

// LockTier is a fixed lock-up commitment in days. Longer locks earn a higher
// base yield rate.
type LockTier int

const (
	TierFlexible LockTier = 0
	Tier30       LockTier = 30
	Tier90       LockTier = 90
	Tier180      LockTier = 180
	Tier365      LockTier = 365
)

// LockTiers lists every valid tier in ascending order.
var LockTiers = []LockTier{TierFlexible, Tier30, Tier90, Tier180, Tier365}

// Valid reports whether t is one of the fixed tiers.
func (t LockTier) Valid() bool {
	switch t {
	case TierFlexible, Tier30, Tier90, Tier180, Tier365:
		return true
	}
	return false
}

// Duration converts the tier to its lock-up duration.
func (t LockTier) Duration() time.Duration {
	return time.Duration(t) * 24 * time.Hour
}

// Deposit is one funding event. Only LastClaimAt mutates, and only forward.
type Deposit struct {
	ID          int64     `json:"id"`
	AccountID   string    `json:"account_id"`
	Amount      int64     `json:"amount"` // smallest currency unit, post-commission
	LockTier    LockTier  `json:"lock_tier"`
	CreatedAt   time.Time `json:"created_at"`
	LastClaimAt time.Time `json:"last_claim_at"`
}

// UnlockAt returns when the deposit's principal becomes withdrawable,
// after applying a lock reduction in basis points (0 for none).
func (d Deposit) UnlockAt(lockReductionBP int64) time.Time {
	lock := d.LockTier.Duration()
	if lockReductionBP > 0 {
		if lockReductionBP > Basis {
			lockReductionBP = Basis
		}
		lock = lock * time.Duration(Basis-lockReductionBP) / Basis
	}
	return d.CreatedAt.Add(lock)
}

// Locked reports whether the deposit is still lock-protected at now.
func (d Deposit) Locked(now time.Time, lockReductionBP int64) bool {
	return now.Before(d.UnlockAt(lockReductionBP))
}

// StakeAccount aggregates an account's custody state. Created implicitly on
// first deposit, removed again on full withdrawal.
type StakeAccount struct {
	AccountID      string     `json:"account_id"`
	TotalDeposited int64      `json:"total_deposited"` // sum of live deposit amounts
	DepositCount   int        `json:"deposit_count"`
	LastWithdrawAt *time.Time `json:"last_withdraw_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PoolStats is the pool-wide aggregate.
type PoolStats struct {
	TotalPoolBalance int64 `json:"total_pool_balance"` // sum of all principal
	RewardReserve    int64 `json:"reward_reserve"`     // explicitly funded yield pool
	UniqueAccounts   int64 `json:"unique_accounts"`
}

// LedgerState holds the lifecycle singletons: treasury routing, the pause
// flag, and the one-way migration forwarding address ("" = not migrated).
type LedgerState struct {
	Treasury   string     `json:"treasury"`
	Paused     bool       `json:"paused"`
	MigratedTo string     `json:"migrated_to,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
	MigratedAt *time.Time `json:"migrated_at,omitempty"`
}

// Migrated reports whether the one-way migration flag is set.
func (s LedgerState) Migrated() bool { return s.MigratedTo != "" }

// DepositView is the API projection of a single deposit.
type DepositView struct {
	ID       int64     `json:"id"`
	Amount   int64     `json:"amount"`
	LockTier LockTier  `json:"lock_tier"`
	StakedAt time.Time `json:"staked_at"`
	UnlockAt time.Time `json:"unlock_at"`
	Locked   bool      `json:"locked"`
	Pending  int64     `json:"pending_reward"`
}

// AccountSummary combines custody state with derived figures for API responses.
type AccountSummary struct {
	AccountID      string        `json:"account_id"`
	TotalDeposited int64         `json:"total_deposited"`
	PendingReward  int64         `json:"pending_reward"`
	BoostedReward  int64         `json:"boosted_reward,omitempty"`
	Deposits       []DepositView `json:"deposits"`
	Profile        *SkillProfile `json:"skill_profile,omitempty"`
	XP             *XPInfo       `json:"xp,omitempty"`
	LastWithdrawAt *time.Time    `json:"last_withdraw_at,omitempty"`
}

// XPInfo mirrors the gamification authority's experience summary.
type XPInfo struct {
	XP    int64 `json:"xp"`
	Level int   `json:"level"`
}

// PoolView pairs the pool aggregates with the lifecycle state for API
// responses and operator tooling.
type PoolView struct {
	Stats PoolStats   `json:"stats"`
	State LedgerState `json:"state"`
}

// WithdrawalResult reports the outcome of a withdraw or withdrawAll.
type WithdrawalResult struct {
	AccountID  string `json:"account_id"`
	Principal  int64  `json:"principal"` // 0 on reward-only withdrawals
	Reward     int64  `json:"reward"`    // gross reward consumed
	Commission int64  `json:"commission"`
	NetPaid    int64  `json:"net_paid"`
}

// DepositResult reports the outcome of a deposit.
type DepositResult struct {
	AccountID  string   `json:"account_id"`
	DepositID  int64    `json:"deposit_id"`
	LockTier   LockTier `json:"lock_tier"`
	Gross      int64    `json:"gross"`
	Commission int64    `json:"commission"`
	Net        int64    `json:"net"` // amount actually staked
}

// CompoundResult reports the outcome of a compound.
type CompoundResult struct {
	AccountID string `json:"account_id"`
	DepositID int64  `json:"deposit_id"` // the new zero-lock deposit
	Amount    int64  `json:"amount"`     // full reward folded in
}
