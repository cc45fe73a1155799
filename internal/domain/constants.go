package domain

// Fixed-point scales shared by every rate computation. All percentage-like
// values are carried as basis points so reward math stays in int64 end to end.
const (
	// Basis is the denominator for basis-point rates (10000 bp = 100%).
	Basis = 10000

	// RateScale is the denominator for per-hour yield rates. A tier rate of
	// 9132 means 9132e-9 of principal per elapsed hour.
	RateScale = 1_000_000_000
)

// Ledger bounds and caps
const (
	// MinStakeAmount is the smallest accepted deposit, in smallest currency units.
	MinStakeAmount = 100

	// MaxStakeAmount bounds a single deposit. Together with the per-tier
	// accrual-hour clamp it keeps amount*rate*hours inside int64.
	MaxStakeAmount = 1_000_000_000

	// MaxDepositsPerAccount caps the live deposit list per account.
	MaxDepositsPerAccount = 300

	// MaxROIBP caps base yield per deposit at 300% of principal.
	MaxROIBP = 30000

	// MaxYieldBoostBP caps the summed skill boost at +50%.
	MaxYieldBoostBP = 5000

	// MaxActiveGrants caps simultaneously active skill grants per account.
	MaxActiveGrants = 20

	// DefaultCommissionRateBP is the treasury commission on deposits and
	// reward payouts (2.5%). Overridable through configuration.
	DefaultCommissionRateBP = 250

	// DefaultDailyWithdrawCap limits reward units withdrawn per account per
	// UTC day. Overridable through configuration.
	DefaultDailyWithdrawCap = 1_000_000
)

// Tenure bonus thresholds, in days held since deposit creation. Only the
// highest matched threshold applies.
const (
	TenureBonus30BP  = 200
	TenureBonus90BP  = 500
	TenureBonus180BP = 1000
	TenureBonus365BP = 2000
)

// Transfer kind constants - audit trail rows for every value movement
const (
	TransferDepositIn       = "deposit_in"
	TransferCommission      = "commission"
	TransferRewardPayout    = "reward_payout"
	TransferPrincipalPayout = "principal_payout"
	TransferReserveFund     = "reserve_fund"
)

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. These represent domain events that can be published
// and consumed by multiple modules.
//
// Event types follow the pattern: <entity>.<action> (e.g., "stake.deposited")
const (
	// EventTypeDepositMade is published when a deposit is accepted
	EventTypeDepositMade = "stake.deposited"

	// EventTypeWithdrawalMade is published when rewards or principal leave the pool
	EventTypeWithdrawalMade = "stake.withdrawn"

	// EventTypeCompoundPerformed is published when rewards fold into a new deposit
	EventTypeCompoundPerformed = "stake.compounded"

	// EventTypeCommissionPaid is published when commission routes to the treasury
	EventTypeCommissionPaid = "treasury.commission_paid"

	// EventTypeTreasuryChanged is published when the treasury address rotates
	EventTypeTreasuryChanged = "treasury.changed"

	// EventTypeMigrationInitiated is published when the one-way migration flag is set
	EventTypeMigrationInitiated = "ledger.migration_initiated"

	// EventTypeLedgerPaused is published on pause/unpause transitions
	EventTypeLedgerPaused = "ledger.paused"

	// EventTypeSkillApplied is published when the skills authority activates a grant
	EventTypeSkillApplied = "skill.applied"

	// EventTypeSkillRemoved is published when the skills authority revokes a grant
	EventTypeSkillRemoved = "skill.removed"

	// EventTypeReserveFunded is published when the reward reserve is topped up
	EventTypeReserveFunded = "reserve.funded"
)
