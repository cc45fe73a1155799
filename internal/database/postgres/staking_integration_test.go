package postgres

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakeep/stakevault/internal/domain"
)

func TestStakingRepository_Integration(t *testing.T) {
	pool := startTestDB(t)
	repo := NewStakingRepository(pool)
	ctx := context.Background()

	t.Run("AccountLifecycle", func(t *testing.T) {
		missing, err := repo.GetAccount(ctx, "acct_it_nobody")
		require.NoError(t, err)
		assert.Nil(t, missing, "missing account should read as nil, not error")

		created := time.Now().UTC().Truncate(time.Microsecond)
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		err = tx.CreateAccount(ctx, &domain.StakeAccount{
			AccountID:      "acct_it_alice",
			TotalDeposited: 5000,
			DepositCount:   1,
			CreatedAt:      created,
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		acct, err := repo.GetAccount(ctx, "acct_it_alice")
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, int64(5000), acct.TotalDeposited)
		assert.Equal(t, 1, acct.DepositCount)
		assert.Nil(t, acct.LastWithdrawAt)
		assert.WithinDuration(t, created, acct.CreatedAt, time.Second)

		withdrawAt := time.Now().UTC().Truncate(time.Microsecond)
		acct.TotalDeposited = 7500
		acct.DepositCount = 2
		acct.LastWithdrawAt = &withdrawAt

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.UpdateAccount(ctx, acct))
		require.NoError(t, tx.Commit(ctx))

		updated, err := repo.GetAccount(ctx, "acct_it_alice")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, int64(7500), updated.TotalDeposited)
		assert.Equal(t, 2, updated.DepositCount)
		require.NotNil(t, updated.LastWithdrawAt)
		assert.WithinDuration(t, withdrawAt, *updated.LastWithdrawAt, time.Second)
	})

	t.Run("UpdateMissingAccount", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = tx.UpdateAccount(ctx, &domain.StakeAccount{AccountID: "acct_it_ghost"})
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("AccountForUpdate", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		locked, err := tx.AccountForUpdate(ctx, "acct_it_alice")
		require.NoError(t, err)
		require.NotNil(t, locked)
		assert.Equal(t, "acct_it_alice", locked.AccountID)

		none, err := tx.AccountForUpdate(ctx, "acct_it_nobody")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("DepositsInsertAndTouch", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.CreateAccount(ctx, &domain.StakeAccount{
			AccountID: "acct_it_bob",
			CreatedAt: now,
		}))

		first := &domain.Deposit{
			AccountID:   "acct_it_bob",
			Amount:      1000,
			LockTier:    domain.TierFlexible,
			CreatedAt:   now.Add(-48 * time.Hour),
			LastClaimAt: now.Add(-48 * time.Hour),
		}
		second := &domain.Deposit{
			AccountID:   "acct_it_bob",
			Amount:      2500,
			LockTier:    domain.Tier90,
			CreatedAt:   now.Add(-24 * time.Hour),
			LastClaimAt: now.Add(-24 * time.Hour),
		}
		require.NoError(t, tx.InsertDeposit(ctx, first))
		require.NoError(t, tx.InsertDeposit(ctx, second))
		require.NoError(t, tx.Commit(ctx))

		assert.NotZero(t, first.ID, "insert should backfill the generated deposit ID")
		assert.Greater(t, second.ID, first.ID)

		deposits, err := repo.GetDeposits(ctx, "acct_it_bob")
		require.NoError(t, err)
		require.Len(t, deposits, 2)
		assert.Equal(t, first.ID, deposits[0].ID)
		assert.Equal(t, int64(1000), deposits[0].Amount)
		assert.Equal(t, domain.TierFlexible, deposits[0].LockTier)
		assert.Equal(t, domain.Tier90, deposits[1].LockTier)

		// Touching advances last_claim_at on every deposit behind the mark.
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.TouchDeposits(ctx, "acct_it_bob", now))
		require.NoError(t, tx.Commit(ctx))

		touched, err := repo.GetDeposits(ctx, "acct_it_bob")
		require.NoError(t, err)
		require.Len(t, touched, 2)
		for _, d := range touched {
			assert.WithinDuration(t, now, d.LastClaimAt, time.Second)
		}

		// A timestamp behind the stored claim marks must not rewind them.
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.TouchDeposits(ctx, "acct_it_bob", now.Add(-time.Hour)))
		require.NoError(t, tx.Commit(ctx))

		unchanged, err := repo.GetDeposits(ctx, "acct_it_bob")
		require.NoError(t, err)
		for _, d := range unchanged {
			assert.WithinDuration(t, now, d.LastClaimAt, time.Second)
		}
	})

	t.Run("PoolStatsSingleton", func(t *testing.T) {
		stats, err := repo.GetPoolStats(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats, "schema should seed the pool singleton")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		locked, err := tx.PoolForUpdate(ctx)
		require.NoError(t, err)
		locked.TotalPoolBalance += 3500
		locked.RewardReserve += 100000
		locked.UniqueAccounts += 2
		require.NoError(t, tx.UpdatePool(ctx, locked))
		require.NoError(t, tx.Commit(ctx))

		after, err := repo.GetPoolStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats.TotalPoolBalance+3500, after.TotalPoolBalance)
		assert.Equal(t, stats.RewardReserve+100000, after.RewardReserve)
		assert.Equal(t, stats.UniqueAccounts+2, after.UniqueAccounts)
	})

	t.Run("LedgerStateSingleton", func(t *testing.T) {
		state, err := repo.GetLedgerState(ctx)
		require.NoError(t, err)
		require.NotNil(t, state, "schema should seed the ledger state singleton")
		assert.False(t, state.Paused)
		assert.Empty(t, state.MigratedTo)
		assert.Nil(t, state.MigratedAt)
		assert.False(t, state.Migrated())

		migratedAt := time.Now().UTC().Truncate(time.Microsecond)
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		locked, err := tx.LedgerStateForUpdate(ctx)
		require.NoError(t, err)
		locked.Treasury = "treasury_it"
		locked.Paused = true
		locked.MigratedTo = "vault_v2"
		locked.MigratedAt = &migratedAt
		require.NoError(t, tx.UpdateLedgerState(ctx, locked))
		require.NoError(t, tx.Commit(ctx))

		after, err := repo.GetLedgerState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "treasury_it", after.Treasury)
		assert.True(t, after.Paused)
		assert.Equal(t, "vault_v2", after.MigratedTo)
		require.NotNil(t, after.MigratedAt)
		assert.WithinDuration(t, migratedAt, *after.MigratedAt, time.Second)
		assert.True(t, after.Migrated())

		// Leave the ledger unpaused for the remaining subtests.
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		after.Paused = false
		require.NoError(t, tx.UpdateLedgerState(ctx, after))
		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("DailyWithdrawals", func(t *testing.T) {
		today := UTCDay(time.Now())
		yesterday := UTCDay(time.Now().Add(-24 * time.Hour))

		zero, err := repo.GetDailyWithdrawn(ctx, "acct_it_alice", today)
		require.NoError(t, err)
		assert.Equal(t, int64(0), zero, "missing counter row should read as zero")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.AddDailyWithdrawn(ctx, "acct_it_alice", today, 400))
		require.NoError(t, tx.AddDailyWithdrawn(ctx, "acct_it_alice", today, 600))
		require.NoError(t, tx.AddDailyWithdrawn(ctx, "acct_it_alice", yesterday, 9999))
		require.NoError(t, tx.Commit(ctx))

		total, err := repo.GetDailyWithdrawn(ctx, "acct_it_alice", today)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), total, "same-day adds should accumulate")

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		locked, err := tx.DailyWithdrawnForUpdate(ctx, "acct_it_alice", today)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), locked)
		require.NoError(t, tx.Rollback(ctx))

		purged, err := repo.PurgeDailyCounters(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged, "only the stale day should be purged")

		survivor, err := repo.GetDailyWithdrawn(ctx, "acct_it_alice", today)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), survivor)

		gone, err := repo.GetDailyWithdrawn(ctx, "acct_it_alice", yesterday)
		require.NoError(t, err)
		assert.Equal(t, int64(0), gone)
	})

	t.Run("Transfers", func(t *testing.T) {
		transfer := domain.NewTransfer("acct_it_alice", domain.TransferDepositIn, 5000, "deposit")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.InsertTransfer(ctx, transfer))
		require.NoError(t, tx.Commit(ctx))

		var kind, memo string
		var amount int64
		err = pool.QueryRow(ctx,
			`SELECT kind, amount, memo FROM transfers WHERE transfer_id = $1`,
			transfer.ID,
		).Scan(&kind, &amount, &memo)
		require.NoError(t, err)
		assert.Equal(t, domain.TransferDepositIn, kind)
		assert.Equal(t, int64(5000), amount)
		assert.Equal(t, "deposit", memo)
	})

	t.Run("ListAccountIDs", func(t *testing.T) {
		ids, err := repo.ListAccountIDs(ctx)
		require.NoError(t, err)
		assert.True(t, sort.StringsAreSorted(ids))
		assert.Contains(t, ids, "acct_it_alice")
		assert.Contains(t, ids, "acct_it_bob")
	})

	t.Run("DeleteAccountCascades", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.CreateAccount(ctx, &domain.StakeAccount{
			AccountID: "acct_it_carol",
			CreatedAt: now,
		}))
		require.NoError(t, tx.InsertDeposit(ctx, &domain.Deposit{
			AccountID:   "acct_it_carol",
			Amount:      777,
			LockTier:    domain.Tier30,
			CreatedAt:   now,
			LastClaimAt: now,
		}))
		require.NoError(t, tx.Commit(ctx))

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.DeleteAccount(ctx, "acct_it_carol"))
		require.NoError(t, tx.Commit(ctx))

		acct, err := repo.GetAccount(ctx, "acct_it_carol")
		require.NoError(t, err)
		assert.Nil(t, acct)

		deposits, err := repo.GetDeposits(ctx, "acct_it_carol")
		require.NoError(t, err)
		assert.Empty(t, deposits, "deposits should fall with the account")
	})
}
