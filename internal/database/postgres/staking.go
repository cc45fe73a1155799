package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/repository"
)

// StakingRepository implements the staking repository for PostgreSQL
type StakingRepository struct {
	db *pgxpool.Pool
}

// NewStakingRepository creates a new StakingRepository
func NewStakingRepository(db *pgxpool.Pool) *StakingRepository {
	return &StakingRepository{db: db}
}

// StakingTx implements repository.StakingTx
type StakingTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *StakingRepository) BeginTx(ctx context.Context) (repository.StakingTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &StakingTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *StakingTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *StakingTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetAccount retrieves an account's custody state
func (r *StakingRepository) GetAccount(ctx context.Context, accountID string) (*domain.StakeAccount, error) {
	return getAccount(ctx, r.db, accountID, false)
}

// AccountForUpdate retrieves an account with a row lock
func (t *StakingTx) AccountForUpdate(ctx context.Context, accountID string) (*domain.StakeAccount, error) {
	return getAccount(ctx, t.tx, accountID, true)
}

func getAccount(ctx context.Context, db dbtx, accountID string, forUpdate bool) (*domain.StakeAccount, error) {
	query := `
		SELECT account_id, total_deposited, deposit_count, last_withdraw_at, created_at
		FROM stake_accounts
		WHERE account_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var acct domain.StakeAccount
	err := db.QueryRow(ctx, query, accountID).Scan(
		&acct.AccountID,
		&acct.TotalDeposited,
		&acct.DepositCount,
		&acct.LastWithdrawAt,
		&acct.CreatedAt,
	)
	// Accounts are created implicitly on first deposit, so a missing row is
	// a normal outcome, not an error.
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAccount, err)
	}
	return &acct, nil
}

// CreateAccount inserts a fresh account row
func (t *StakingTx) CreateAccount(ctx context.Context, account *domain.StakeAccount) error {
	query := `
		INSERT INTO stake_accounts (account_id, total_deposited, deposit_count, last_withdraw_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.Exec(ctx, query,
		account.AccountID,
		account.TotalDeposited,
		account.DepositCount,
		account.LastWithdrawAt,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateAccount, err)
	}
	return nil
}

// UpdateAccount persists the account's mutable fields
func (t *StakingTx) UpdateAccount(ctx context.Context, account *domain.StakeAccount) error {
	query := `
		UPDATE stake_accounts
		SET total_deposited = $2, deposit_count = $3, last_withdraw_at = $4
		WHERE account_id = $1
	`
	tag, err := t.tx.Exec(ctx, query,
		account.AccountID,
		account.TotalDeposited,
		account.DepositCount,
		account.LastWithdrawAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateAccount, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes the account row; deposits fall with it via cascade
func (t *StakingTx) DeleteAccount(ctx context.Context, accountID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM stake_accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteAccount, err)
	}
	return nil
}

// GetDeposits retrieves an account's deposits in creation order
func (r *StakingRepository) GetDeposits(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	return getDeposits(ctx, r.db, accountID)
}

// GetDeposits for Tx
func (t *StakingTx) GetDeposits(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	return getDeposits(ctx, t.tx, accountID)
}

func getDeposits(ctx context.Context, db dbtx, accountID string) ([]domain.Deposit, error) {
	query := `
		SELECT deposit_id, account_id, amount, lock_tier, created_at, last_claim_at
		FROM deposits
		WHERE account_id = $1
		ORDER BY deposit_id
	`

	rows, err := db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryDeposits, err)
	}
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		var d domain.Deposit
		var tier int
		err := rows.Scan(
			&d.ID,
			&d.AccountID,
			&d.Amount,
			&tier,
			&d.CreatedAt,
			&d.LastClaimAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanDeposit, err)
		}
		d.LockTier = domain.LockTier(tier)
		deposits = append(deposits, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return deposits, nil
}

// InsertDeposit appends a deposit and backfills its generated ID
func (t *StakingTx) InsertDeposit(ctx context.Context, deposit *domain.Deposit) error {
	query := `
		INSERT INTO deposits (account_id, amount, lock_tier, created_at, last_claim_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING deposit_id
	`
	err := t.tx.QueryRow(ctx, query,
		deposit.AccountID,
		deposit.Amount,
		int(deposit.LockTier),
		deposit.CreatedAt,
		deposit.LastClaimAt,
	).Scan(&deposit.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertDeposit, err)
	}
	return nil
}

// TouchDeposits advances last_claim_at on every deposit of the account
func (t *StakingTx) TouchDeposits(ctx context.Context, accountID string, claimedAt time.Time) error {
	query := `
		UPDATE deposits
		SET last_claim_at = $2
		WHERE account_id = $1 AND last_claim_at < $2
	`
	_, err := t.tx.Exec(ctx, query, accountID, claimedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToTouchDeposits, err)
	}
	return nil
}

// DeleteDeposits clears the account's deposit list
func (t *StakingTx) DeleteDeposits(ctx context.Context, accountID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM deposits WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteDeposits, err)
	}
	return nil
}

// GetPoolStats retrieves the pool-wide aggregate
func (r *StakingRepository) GetPoolStats(ctx context.Context) (*domain.PoolStats, error) {
	return getPoolStats(ctx, r.db, false)
}

// PoolForUpdate retrieves the pool aggregate with a row lock
func (t *StakingTx) PoolForUpdate(ctx context.Context) (*domain.PoolStats, error) {
	return getPoolStats(ctx, t.tx, true)
}

func getPoolStats(ctx context.Context, db dbtx, forUpdate bool) (*domain.PoolStats, error) {
	query := `
		SELECT total_pool_balance, reward_reserve, unique_accounts
		FROM pool_stats
		WHERE id
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var stats domain.PoolStats
	err := db.QueryRow(ctx, query).Scan(
		&stats.TotalPoolBalance,
		&stats.RewardReserve,
		&stats.UniqueAccounts,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPoolStats, err)
	}
	return &stats, nil
}

// UpdatePool persists the pool aggregate
func (t *StakingTx) UpdatePool(ctx context.Context, stats *domain.PoolStats) error {
	query := `
		UPDATE pool_stats
		SET total_pool_balance = $1, reward_reserve = $2, unique_accounts = $3
		WHERE id
	`
	_, err := t.tx.Exec(ctx, query,
		stats.TotalPoolBalance,
		stats.RewardReserve,
		stats.UniqueAccounts,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePoolStats, err)
	}
	return nil
}

// GetLedgerState retrieves the lifecycle singletons
func (r *StakingRepository) GetLedgerState(ctx context.Context) (*domain.LedgerState, error) {
	return getLedgerState(ctx, r.db, false)
}

// LedgerStateForUpdate retrieves the lifecycle row with a row lock
func (t *StakingTx) LedgerStateForUpdate(ctx context.Context) (*domain.LedgerState, error) {
	return getLedgerState(ctx, t.tx, true)
}

func getLedgerState(ctx context.Context, db dbtx, forUpdate bool) (*domain.LedgerState, error) {
	query := `
		SELECT treasury, paused, migrated_to, updated_at, migrated_at
		FROM ledger_state
		WHERE id
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var state domain.LedgerState
	err := db.QueryRow(ctx, query).Scan(
		&state.Treasury,
		&state.Paused,
		&state.MigratedTo,
		&state.UpdatedAt,
		&state.MigratedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLedgerState, err)
	}
	return &state, nil
}

// UpdateLedgerState persists the lifecycle singletons
func (t *StakingTx) UpdateLedgerState(ctx context.Context, state *domain.LedgerState) error {
	query := `
		UPDATE ledger_state
		SET treasury = $1, paused = $2, migrated_to = $3, updated_at = NOW(), migrated_at = $4
		WHERE id
	`
	_, err := t.tx.Exec(ctx, query,
		state.Treasury,
		state.Paused,
		state.MigratedTo,
		state.MigratedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateLedgerState, err)
	}
	return nil
}

// GetDailyWithdrawn reads the UTC-day withdrawal counter; missing rows read as 0
func (r *StakingRepository) GetDailyWithdrawn(ctx context.Context, accountID, day string) (int64, error) {
	return getDailyWithdrawn(ctx, r.db, accountID, day, false)
}

// DailyWithdrawnForUpdate reads the counter with a row lock
func (t *StakingTx) DailyWithdrawnForUpdate(ctx context.Context, accountID, day string) (int64, error) {
	return getDailyWithdrawn(ctx, t.tx, accountID, day, true)
}

func getDailyWithdrawn(ctx context.Context, db dbtx, accountID, day string, forUpdate bool) (int64, error) {
	query := `
		SELECT withdrawn
		FROM daily_withdrawals
		WHERE account_id = $1 AND day = $2::date
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var withdrawn int64
	err := db.QueryRow(ctx, query, accountID, day).Scan(&withdrawn)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetDailyWithdrawn, err)
	}
	return withdrawn, nil
}

// AddDailyWithdrawn accumulates into the UTC-day counter
func (t *StakingTx) AddDailyWithdrawn(ctx context.Context, accountID, day string, amount int64) error {
	query := `
		INSERT INTO daily_withdrawals (account_id, day, withdrawn)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (account_id, day)
		DO UPDATE SET withdrawn = daily_withdrawals.withdrawn + EXCLUDED.withdrawn
	`
	_, err := t.tx.Exec(ctx, query, accountID, day, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAddDailyWithdrawn, err)
	}
	return nil
}

// InsertTransfer appends one audit row for a value movement
func (t *StakingTx) InsertTransfer(ctx context.Context, transfer domain.Transfer) error {
	query := `
		INSERT INTO transfers (transfer_id, account_id, kind, amount, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := t.tx.Exec(ctx, query,
		transfer.ID,
		transfer.AccountID,
		transfer.Kind,
		transfer.Amount,
		transfer.Memo,
		transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertTransfer, err)
	}
	return nil
}

// ListAccountIDs lists every live account for background sweeps
func (r *StakingRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT account_id FROM stake_accounts ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAccounts, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAccounts, err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// PurgeDailyCounters deletes withdrawal counters older than the given UTC day
func (r *StakingRepository) PurgeDailyCounters(ctx context.Context, before string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM daily_withdrawals WHERE day < $1::date`, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToPurgeCounters, err)
	}
	return tag.RowsAffected(), nil
}
