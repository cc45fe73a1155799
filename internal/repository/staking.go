package repository

import (
	"context"
	"time"

	"github.com/novakeep/stakevault/internal/domain"
)

// Staking defines the interface for ledger persistence
type Staking interface {
	GetAccount(ctx context.Context, accountID string) (*domain.StakeAccount, error)
	GetDeposits(ctx context.Context, accountID string) ([]domain.Deposit, error)
	GetPoolStats(ctx context.Context) (*domain.PoolStats, error)
	GetLedgerState(ctx context.Context) (*domain.LedgerState, error)
	GetDailyWithdrawn(ctx context.Context, accountID, day string) (int64, error)

	// ListAccountIDs feeds sweeps over every live account (auto-compound).
	ListAccountIDs(ctx context.Context) ([]string, error)

	// PurgeDailyCounters deletes withdrawal counters for days before the
	// given UTC day. Counters reset lazily, so old rows are pure garbage.
	PurgeDailyCounters(ctx context.Context, before string) (int64, error)

	BeginTx(ctx context.Context) (StakingTx, error)
}

// StakingTx defines the interface for ledger transactions. ForUpdate reads
// take row locks so one atomic mutation sees a consistent prior state.
type StakingTx interface {
	Tx

	AccountForUpdate(ctx context.Context, accountID string) (*domain.StakeAccount, error)
	CreateAccount(ctx context.Context, account *domain.StakeAccount) error
	UpdateAccount(ctx context.Context, account *domain.StakeAccount) error
	DeleteAccount(ctx context.Context, accountID string) error

	GetDeposits(ctx context.Context, accountID string) ([]domain.Deposit, error)
	InsertDeposit(ctx context.Context, deposit *domain.Deposit) error
	TouchDeposits(ctx context.Context, accountID string, claimedAt time.Time) error
	DeleteDeposits(ctx context.Context, accountID string) error

	PoolForUpdate(ctx context.Context) (*domain.PoolStats, error)
	UpdatePool(ctx context.Context, stats *domain.PoolStats) error

	LedgerStateForUpdate(ctx context.Context) (*domain.LedgerState, error)
	UpdateLedgerState(ctx context.Context, state *domain.LedgerState) error

	DailyWithdrawnForUpdate(ctx context.Context, accountID, day string) (int64, error)
	AddDailyWithdrawn(ctx context.Context, accountID, day string, amount int64) error

	InsertTransfer(ctx context.Context, transfer domain.Transfer) error
}
