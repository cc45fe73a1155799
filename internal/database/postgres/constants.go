package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
)

// Error Messages - Account Operations
const (
	ErrMsgFailedToGetAccount    = "failed to get account"
	ErrMsgFailedToCreateAccount = "failed to create account"
	ErrMsgFailedToUpdateAccount = "failed to update account"
	ErrMsgFailedToDeleteAccount = "failed to delete account"
	ErrMsgFailedToListAccounts  = "failed to list accounts"
)

// Error Messages - Deposit Operations
const (
	ErrMsgFailedToQueryDeposits  = "failed to query deposits"
	ErrMsgFailedToScanDeposit    = "failed to scan deposit"
	ErrMsgFailedToInsertDeposit  = "failed to insert deposit"
	ErrMsgFailedToTouchDeposits  = "failed to advance deposit claim times"
	ErrMsgFailedToDeleteDeposits = "failed to delete deposits"
)

// Error Messages - Pool and Lifecycle Operations
const (
	ErrMsgFailedToGetPoolStats      = "failed to get pool stats"
	ErrMsgFailedToUpdatePoolStats   = "failed to update pool stats"
	ErrMsgFailedToGetLedgerState    = "failed to get ledger state"
	ErrMsgFailedToUpdateLedgerState = "failed to update ledger state"
)

// Error Messages - Withdrawal Throttle Operations
const (
	ErrMsgFailedToGetDailyWithdrawn = "failed to get daily withdrawn"
	ErrMsgFailedToAddDailyWithdrawn = "failed to add daily withdrawn"
	ErrMsgFailedToPurgeCounters     = "failed to purge daily counters"
)

// Error Messages - Transfer Operations
const (
	ErrMsgFailedToInsertTransfer = "failed to insert transfer"
)

// Error Messages - Skill Registry Operations
const (
	ErrMsgFailedToQueryGrants       = "failed to query grants"
	ErrMsgFailedToScanGrant         = "failed to scan grant"
	ErrMsgFailedToGetGrant          = "failed to get grant"
	ErrMsgFailedToUpsertGrant       = "failed to upsert grant"
	ErrMsgFailedToDeactivateGrant   = "failed to deactivate grant"
	ErrMsgFailedToGetRarity         = "failed to get rarity"
	ErrMsgFailedToSetRarity         = "failed to set rarity"
	ErrMsgFailedToQueryTokenHolders = "failed to query token holders"
	ErrMsgFailedToGetProfile        = "failed to get profile"
	ErrMsgFailedToSaveProfile       = "failed to save profile"
	ErrMsgFailedToDeleteProfile     = "failed to delete profile"
)
