package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakeep/stakevault/internal/domain"
)

func TestSkillsRepository_Integration(t *testing.T) {
	pool := startTestDB(t)
	repo := NewSkillsRepository(pool)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond).Add(-2 * time.Hour)

	t.Run("GrantUpsertAndOrdering", func(t *testing.T) {
		empty, err := repo.GetActiveGrants(ctx, "acct_sk_alice")
		require.NoError(t, err)
		assert.Empty(t, empty)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.UpsertGrant(ctx, &domain.SkillGrant{
			AccountID:   "acct_sk_alice",
			TokenID:     "token_beta",
			SkillType:   domain.SkillFeeDiscount,
			MagnitudeBP: 500,
			Active:      true,
			ActivatedAt: base.Add(time.Hour),
		}))
		require.NoError(t, tx.UpsertGrant(ctx, &domain.SkillGrant{
			AccountID:   "acct_sk_alice",
			TokenID:     "token_alpha",
			SkillType:   domain.SkillYieldBoost,
			MagnitudeBP: 1000,
			Active:      true,
			ActivatedAt: base,
		}))
		require.NoError(t, tx.Commit(ctx))

		grants, err := repo.GetActiveGrants(ctx, "acct_sk_alice")
		require.NoError(t, err)
		require.Len(t, grants, 2)
		// Activation order, not insertion order.
		assert.Equal(t, "token_alpha", grants[0].TokenID)
		assert.Equal(t, domain.SkillYieldBoost, grants[0].SkillType)
		assert.Equal(t, int64(1000), grants[0].MagnitudeBP)
		assert.True(t, grants[0].Active)
		assert.WithinDuration(t, base, grants[0].ActivatedAt, time.Second)
		assert.Equal(t, "token_beta", grants[1].TokenID)
		assert.Equal(t, domain.SkillFeeDiscount, grants[1].SkillType)
	})

	t.Run("GrantForUpdate", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		missing, err := tx.GrantForUpdate(ctx, "acct_sk_alice", "token_unknown")
		require.NoError(t, err)
		assert.Nil(t, missing, "missing grant should read as nil, not error")

		grant, err := tx.GrantForUpdate(ctx, "acct_sk_alice", "token_alpha")
		require.NoError(t, err)
		require.NotNil(t, grant)
		assert.Equal(t, domain.SkillYieldBoost, grant.SkillType)
		assert.True(t, grant.Active)

		locked, err := tx.ActiveGrantsForUpdate(ctx, "acct_sk_alice")
		require.NoError(t, err)
		assert.Len(t, locked, 2)
	})

	t.Run("DeactivateAndReactivate", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.DeactivateGrant(ctx, "acct_sk_alice", "token_alpha"))
		require.NoError(t, tx.Commit(ctx))

		grants, err := repo.GetActiveGrants(ctx, "acct_sk_alice")
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, "token_beta", grants[0].TokenID)

		// The row survives deactivation for the audit trail.
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		revoked, err := tx.GrantForUpdate(ctx, "acct_sk_alice", "token_alpha")
		require.NoError(t, err)
		require.NotNil(t, revoked)
		assert.False(t, revoked.Active)

		err = tx.DeactivateGrant(ctx, "acct_sk_alice", "token_alpha")
		assert.ErrorIs(t, err, domain.ErrGrantNotActive)
		require.NoError(t, tx.Rollback(ctx))

		// Re-granting the same token reactivates it with fresh terms.
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.UpsertGrant(ctx, &domain.SkillGrant{
			AccountID:   "acct_sk_alice",
			TokenID:     "token_alpha",
			SkillType:   domain.SkillYieldBoost,
			MagnitudeBP: 2000,
			Active:      true,
			ActivatedAt: base.Add(2 * time.Hour),
		}))
		require.NoError(t, tx.Commit(ctx))

		grants, err = repo.GetActiveGrants(ctx, "acct_sk_alice")
		require.NoError(t, err)
		require.Len(t, grants, 2)
		assert.Equal(t, "token_beta", grants[0].TokenID, "reactivation should reset activation order")
		assert.Equal(t, "token_alpha", grants[1].TokenID)
		assert.Equal(t, int64(2000), grants[1].MagnitudeBP)
	})

	t.Run("RarityDefaultAndSet", func(t *testing.T) {
		rarity, err := repo.GetRarity(ctx, "token_unmapped")
		require.NoError(t, err)
		assert.Equal(t, domain.RarityCommon, rarity, "unmapped token should read as common")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SetRarity(ctx, "token_alpha", domain.RarityRare))
		require.NoError(t, tx.Commit(ctx))

		rarity, err = repo.GetRarity(ctx, "token_alpha")
		require.NoError(t, err)
		assert.Equal(t, domain.RarityRare, rarity)

		// Upsert overwrites.
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SetRarity(ctx, "token_alpha", domain.RarityEpic))
		inTx, err := tx.GetRarity(ctx, "token_alpha")
		require.NoError(t, err)
		assert.Equal(t, domain.RarityEpic, inTx)
		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("AccountsWithActiveToken", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		for _, acct := range []string{"acct_sk_carol", "acct_sk_bob"} {
			require.NoError(t, tx.UpsertGrant(ctx, &domain.SkillGrant{
				AccountID:   acct,
				TokenID:     "token_shared",
				SkillType:   domain.SkillLockReduction,
				MagnitudeBP: 300,
				Active:      true,
				ActivatedAt: base,
			}))
		}
		require.NoError(t, tx.DeactivateGrant(ctx, "acct_sk_carol", "token_shared"))
		require.NoError(t, tx.Commit(ctx))

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		holders, err := tx.AccountsWithActiveToken(ctx, "token_shared")
		require.NoError(t, err)
		assert.Equal(t, []string{"acct_sk_bob"}, holders, "inactive grants should be excluded")
	})

	t.Run("ProfileLifecycle", func(t *testing.T) {
		neutral, err := repo.GetProfile(ctx, "acct_sk_alice")
		require.NoError(t, err)
		require.NotNil(t, neutral)
		assert.Equal(t, "acct_sk_alice", neutral.AccountID)
		assert.Equal(t, domain.RarityCommon.MultiplierPct(), neutral.RarityPct)
		assert.Zero(t, neutral.YieldBoostBP)
		assert.Zero(t, neutral.ActiveGrants)

		profile := &domain.SkillProfile{
			AccountID:       "acct_sk_alice",
			YieldBoostBP:    2000,
			RarityPct:       domain.RarityEpic.MultiplierPct(),
			FeeDiscountBP:   500,
			LockReductionBP: 0,
			ActiveGrants:    2,
		}
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveProfile(ctx, profile))
		require.NoError(t, tx.Commit(ctx))

		stored, err := repo.GetProfile(ctx, "acct_sk_alice")
		require.NoError(t, err)
		assert.Equal(t, profile, stored)

		// Upsert replaces every derived figure.
		profile.YieldBoostBP = 1000
		profile.RarityPct = domain.RarityCommon.MultiplierPct()
		profile.ActiveGrants = 1
		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveProfile(ctx, profile))
		require.NoError(t, tx.Commit(ctx))

		stored, err = repo.GetProfile(ctx, "acct_sk_alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), stored.YieldBoostBP)
		assert.Equal(t, 1, stored.ActiveGrants)

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.DeleteProfile(ctx, "acct_sk_alice"))
		require.NoError(t, tx.Commit(ctx))

		cleared, err := repo.GetProfile(ctx, "acct_sk_alice")
		require.NoError(t, err)
		assert.Zero(t, cleared.ActiveGrants, "deleted profile should read as neutral")
	})
}
