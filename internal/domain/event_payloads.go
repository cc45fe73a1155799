package domain

// DepositMadePayloadV1 is the typed event payload for stake.deposited events
type DepositMadePayloadV1 struct {
	AccountID  string `json:"account_id"`
	DepositID  int64  `json:"deposit_id"`
	LockTier   int    `json:"lock_tier"`
	Gross      int64  `json:"gross"`
	Commission int64  `json:"commission"`
	Net        int64  `json:"net"`
	Timestamp  int64  `json:"timestamp"`
}

// WithdrawalMadePayloadV1 is the typed event payload for stake.withdrawn events
type WithdrawalMadePayloadV1 struct {
	AccountID  string `json:"account_id"`
	Principal  int64  `json:"principal"`
	Reward     int64  `json:"reward"`
	Commission int64  `json:"commission"`
	NetPaid    int64  `json:"net_paid"`
	Full       bool   `json:"full"` // true for withdrawAll
	Timestamp  int64  `json:"timestamp"`
}

// CompoundPerformedPayloadV1 is the typed event payload for stake.compounded events
type CompoundPerformedPayloadV1 struct {
	AccountID string `json:"account_id"`
	DepositID int64  `json:"deposit_id"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// CommissionPaidPayloadV1 is the typed event payload for treasury.commission_paid events
type CommissionPaidPayloadV1 struct {
	AccountID string `json:"account_id"`
	Treasury  string `json:"treasury"`
	Amount    int64  `json:"amount"`
	Source    string `json:"source"` // "deposit", "withdraw", "withdraw_all"
	Timestamp int64  `json:"timestamp"`
}

// TreasuryChangedPayloadV1 is the typed event payload for treasury.changed events
type TreasuryChangedPayloadV1 struct {
	OldTreasury string `json:"old_treasury"`
	NewTreasury string `json:"new_treasury"`
	Timestamp   int64  `json:"timestamp"`
}

// MigrationInitiatedPayloadV1 is the typed event payload for ledger.migration_initiated events
type MigrationInitiatedPayloadV1 struct {
	Target    string `json:"target"`
	Timestamp int64  `json:"timestamp"`
}

// LedgerPausedPayloadV1 is the typed event payload for ledger.paused events
type LedgerPausedPayloadV1 struct {
	Paused    bool  `json:"paused"`
	Timestamp int64 `json:"timestamp"`
}

// SkillAppliedPayloadV1 is the typed event payload for skill.applied events
type SkillAppliedPayloadV1 struct {
	AccountID   string `json:"account_id"`
	TokenID     string `json:"token_id"`
	SkillType   string `json:"skill_type"`
	MagnitudeBP int64  `json:"magnitude_bp"`
	Timestamp   int64  `json:"timestamp"`
}

// SkillRemovedPayloadV1 is the typed event payload for skill.removed events
type SkillRemovedPayloadV1 struct {
	AccountID string `json:"account_id"`
	TokenID   string `json:"token_id"`
	Timestamp int64  `json:"timestamp"`
}

// ReserveFundedPayloadV1 is the typed event payload for reserve.funded events
type ReserveFundedPayloadV1 struct {
	Amount     int64 `json:"amount"`
	NewReserve int64 `json:"new_reserve"`
	Timestamp  int64 `json:"timestamp"`
}
