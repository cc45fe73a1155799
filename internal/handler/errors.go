package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Staking operation error messages
	ErrMsgDepositFailed     = "Failed to deposit"
	ErrMsgWithdrawFailed    = "Failed to withdraw rewards"
	ErrMsgWithdrawAllFailed = "Failed to close stake"
	ErrMsgCompoundFailed    = "Failed to compound rewards"
	ErrMsgGetRewardsFailed  = "Failed to retrieve pending rewards"
	ErrMsgGetAccountFailed  = "Failed to retrieve stake account"
	ErrMsgGetPoolFailed     = "Failed to retrieve pool status"

	// Skill registry error messages
	ErrMsgActivateSkillFailed   = "Failed to activate skill"
	ErrMsgDeactivateSkillFailed = "Failed to deactivate skill"
	ErrMsgSetRarityFailed       = "Failed to set token rarity"
	ErrMsgGetProfileFailed      = "Failed to retrieve skill profile"

	// Admin error messages
	ErrMsgPauseFailed       = "Failed to pause ledger"
	ErrMsgUnpauseFailed     = "Failed to unpause ledger"
	ErrMsgSetTreasuryFailed = "Failed to update treasury"
	ErrMsgMigrateFailed     = "Failed to initiate migration"
	ErrMsgFundReserveFailed = "Failed to fund reward reserve"
	ErrMsgGetEventsFailed   = "Failed to retrieve events"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgLedgerPausedSuccess   = "Ledger paused"
	MsgLedgerUnpausedSuccess = "Ledger unpaused"
	MsgTreasuryUpdated       = "Treasury address updated"
	MsgMigrationInitiated    = "Migration initiated; deposits and compounds are now closed"
	MsgReserveFunded         = "Reward reserve funded"
	MsgRarityUpdated         = "Token rarity updated"
	MsgSkillDeactivated      = "Skill deactivated"
)
