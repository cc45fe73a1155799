package staking

// DayFormat keys the per-account daily withdrawal buckets. Days roll over at
// midnight UTC regardless of the caller's timezone.
const DayFormat = "2006-01-02"

// Commission sources, recorded on transfer rows and commission events so the
// audit trail shows which operation produced each treasury payment.
const (
	SourceDeposit     = "deposit"
	SourceWithdraw    = "withdraw"
	SourceWithdrawAll = "withdraw_all"
	SourceFund        = "fund"
)

// MemoCompound marks the transfer row written when rewards fold back into
// principal without leaving custody.
const MemoCompound = "compound"

// Error message constants
const (
	ErrMsgBeginTx           = "failed to begin transaction"
	ErrMsgCommitTx          = "failed to commit transaction"
	ErrMsgGetAccount        = "failed to get account"
	ErrMsgCreateAccount     = "failed to create account"
	ErrMsgUpdateAccount     = "failed to update account"
	ErrMsgDeleteAccount     = "failed to delete account"
	ErrMsgGetDeposits       = "failed to get deposits"
	ErrMsgInsertDeposit     = "failed to insert deposit"
	ErrMsgTouchDeposits     = "failed to advance deposit claims"
	ErrMsgDeleteDeposits    = "failed to clear deposits"
	ErrMsgGetPool           = "failed to get pool stats"
	ErrMsgUpdatePool        = "failed to update pool stats"
	ErrMsgGetLedgerState    = "failed to get ledger state"
	ErrMsgUpdateLedgerState = "failed to update ledger state"
	ErrMsgGetDailyWithdrawn = "failed to get daily withdrawal total"
	ErrMsgAddDailyWithdrawn = "failed to record daily withdrawal"
	ErrMsgGetProfile        = "failed to get skill profile"
)

// Log message constants
const (
	LogMsgDepositAccepted    = "Deposit accepted"
	LogMsgRewardsWithdrawn   = "Rewards withdrawn"
	LogMsgAccountClosed      = "Account fully withdrawn"
	LogMsgRewardsCompounded  = "Rewards compounded"
	LogMsgLedgerPaused       = "Ledger paused"
	LogMsgLedgerUnpaused     = "Ledger unpaused"
	LogMsgTreasuryChanged    = "Treasury address changed"
	LogMsgMigrationInitiated = "Migration target set"
	LogMsgReserveFunded      = "Reward reserve funded"
	LogMsgNotifyFailed       = "Failed to notify gamification authority"
	LogMsgXPLookupFailed     = "Failed to fetch XP info"
)
