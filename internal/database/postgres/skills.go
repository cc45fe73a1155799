package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/repository"
)

// SkillsRepository implements the skill registry repository for PostgreSQL
type SkillsRepository struct {
	db *pgxpool.Pool
}

// NewSkillsRepository creates a new SkillsRepository
func NewSkillsRepository(db *pgxpool.Pool) *SkillsRepository {
	return &SkillsRepository{db: db}
}

// SkillsTx implements repository.SkillsTx
type SkillsTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *SkillsRepository) BeginTx(ctx context.Context) (repository.SkillsTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &SkillsTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *SkillsTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *SkillsTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetActiveGrants retrieves an account's active grants in activation order
func (r *SkillsRepository) GetActiveGrants(ctx context.Context, accountID string) ([]domain.SkillGrant, error) {
	return getActiveGrants(ctx, r.db, accountID, false)
}

// ActiveGrantsForUpdate retrieves active grants with row locks
func (t *SkillsTx) ActiveGrantsForUpdate(ctx context.Context, accountID string) ([]domain.SkillGrant, error) {
	return getActiveGrants(ctx, t.tx, accountID, true)
}

func getActiveGrants(ctx context.Context, db dbtx, accountID string, forUpdate bool) ([]domain.SkillGrant, error) {
	query := `
		SELECT account_id, token_id, skill_type, magnitude_bp, active, activated_at
		FROM skill_grants
		WHERE account_id = $1 AND active
		ORDER BY activated_at, token_id
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryGrants, err)
	}
	defer rows.Close()

	var grants []domain.SkillGrant
	for rows.Next() {
		var g domain.SkillGrant
		var skillType string
		err := rows.Scan(
			&g.AccountID,
			&g.TokenID,
			&skillType,
			&g.MagnitudeBP,
			&g.Active,
			&g.ActivatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanGrant, err)
		}
		g.SkillType = domain.SkillType(skillType)
		grants = append(grants, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return grants, nil
}

// GrantForUpdate retrieves one grant row (active or not) with a row lock
func (t *SkillsTx) GrantForUpdate(ctx context.Context, accountID, tokenID string) (*domain.SkillGrant, error) {
	query := `
		SELECT account_id, token_id, skill_type, magnitude_bp, active, activated_at
		FROM skill_grants
		WHERE account_id = $1 AND token_id = $2
		FOR UPDATE
	`

	var g domain.SkillGrant
	var skillType string
	err := t.tx.QueryRow(ctx, query, accountID, tokenID).Scan(
		&g.AccountID,
		&g.TokenID,
		&skillType,
		&g.MagnitudeBP,
		&g.Active,
		&g.ActivatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGrant, err)
	}
	return &g, nil
}

// UpsertGrant writes a grant row, reactivating a previously revoked token
func (t *SkillsTx) UpsertGrant(ctx context.Context, grant *domain.SkillGrant) error {
	query := `
		INSERT INTO skill_grants (account_id, token_id, skill_type, magnitude_bp, active, activated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, token_id)
		DO UPDATE SET skill_type = EXCLUDED.skill_type,
		              magnitude_bp = EXCLUDED.magnitude_bp,
		              active = EXCLUDED.active,
		              activated_at = EXCLUDED.activated_at
	`
	_, err := t.tx.Exec(ctx, query,
		grant.AccountID,
		grant.TokenID,
		string(grant.SkillType),
		grant.MagnitudeBP,
		grant.Active,
		grant.ActivatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertGrant, err)
	}
	return nil
}

// DeactivateGrant flips the active flag off, keeping the row for audit
func (t *SkillsTx) DeactivateGrant(ctx context.Context, accountID, tokenID string) error {
	query := `
		UPDATE skill_grants
		SET active = FALSE
		WHERE account_id = $1 AND token_id = $2 AND active
	`
	tag, err := t.tx.Exec(ctx, query, accountID, tokenID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeactivateGrant, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGrantNotActive
	}
	return nil
}

// GetRarity reads a token's rarity; absent rows read as common
func (r *SkillsRepository) GetRarity(ctx context.Context, tokenID string) (domain.Rarity, error) {
	return getRarity(ctx, r.db, tokenID)
}

// GetRarity for Tx
func (t *SkillsTx) GetRarity(ctx context.Context, tokenID string) (domain.Rarity, error) {
	return getRarity(ctx, t.tx, tokenID)
}

func getRarity(ctx context.Context, db dbtx, tokenID string) (domain.Rarity, error) {
	var rarity string
	err := db.QueryRow(ctx, `SELECT rarity FROM token_rarities WHERE token_id = $1`, tokenID).Scan(&rarity)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RarityCommon, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToGetRarity, err)
	}
	return domain.Rarity(rarity), nil
}

// SetRarity upserts the token's rarity mapping
func (t *SkillsTx) SetRarity(ctx context.Context, tokenID string, rarity domain.Rarity) error {
	query := `
		INSERT INTO token_rarities (token_id, rarity)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO UPDATE SET rarity = EXCLUDED.rarity
	`
	_, err := t.tx.Exec(ctx, query, tokenID, string(rarity))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetRarity, err)
	}
	return nil
}

// AccountsWithActiveToken lists accounts holding an active grant of the token
func (t *SkillsTx) AccountsWithActiveToken(ctx context.Context, tokenID string) ([]string, error) {
	query := `
		SELECT account_id
		FROM skill_grants
		WHERE token_id = $1 AND active
		ORDER BY account_id
	`

	rows, err := t.tx.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTokenHolders, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTokenHolders, err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// GetProfile reads the stored derived profile; absent rows read as the
// neutral profile
func (r *SkillsRepository) GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error) {
	query := `
		SELECT account_id, yield_boost_bp, rarity_pct, fee_discount_bp, lock_reduction_bp, active_grants
		FROM skill_profiles
		WHERE account_id = $1
	`

	var p domain.SkillProfile
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&p.AccountID,
		&p.YieldBoostBP,
		&p.RarityPct,
		&p.FeeDiscountBP,
		&p.LockReductionBP,
		&p.ActiveGrants,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.SkillProfile{
			AccountID: accountID,
			RarityPct: domain.RarityCommon.MultiplierPct(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProfile, err)
	}
	return &p, nil
}

// SaveProfile upserts the derived profile row
func (t *SkillsTx) SaveProfile(ctx context.Context, profile *domain.SkillProfile) error {
	query := `
		INSERT INTO skill_profiles (account_id, yield_boost_bp, rarity_pct, fee_discount_bp, lock_reduction_bp, active_grants, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (account_id)
		DO UPDATE SET yield_boost_bp = EXCLUDED.yield_boost_bp,
		              rarity_pct = EXCLUDED.rarity_pct,
		              fee_discount_bp = EXCLUDED.fee_discount_bp,
		              lock_reduction_bp = EXCLUDED.lock_reduction_bp,
		              active_grants = EXCLUDED.active_grants,
		              updated_at = NOW()
	`
	_, err := t.tx.Exec(ctx, query,
		profile.AccountID,
		profile.YieldBoostBP,
		profile.RarityPct,
		profile.FeeDiscountBP,
		profile.LockReductionBP,
		profile.ActiveGrants,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveProfile, err)
	}
	return nil
}

// DeleteProfile removes the derived profile row
func (t *SkillsTx) DeleteProfile(ctx context.Context, accountID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM skill_profiles WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteProfile, err)
	}
	return nil
}
