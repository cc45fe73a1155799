package repository

import (
	"context"

	"github.com/novakeep/stakevault/internal/domain"
)

// Skills defines the interface for skill grant persistence
type Skills interface {
	GetActiveGrants(ctx context.Context, accountID string) ([]domain.SkillGrant, error)
	GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error)
	GetRarity(ctx context.Context, tokenID string) (domain.Rarity, error)

	BeginTx(ctx context.Context) (SkillsTx, error)
}

// SkillsTx defines the interface for skill registry transactions
type SkillsTx interface {
	Tx

	GrantForUpdate(ctx context.Context, accountID, tokenID string) (*domain.SkillGrant, error)
	ActiveGrantsForUpdate(ctx context.Context, accountID string) ([]domain.SkillGrant, error)
	UpsertGrant(ctx context.Context, grant *domain.SkillGrant) error
	DeactivateGrant(ctx context.Context, accountID, tokenID string) error

	GetRarity(ctx context.Context, tokenID string) (domain.Rarity, error)
	SetRarity(ctx context.Context, tokenID string, rarity domain.Rarity) error

	// AccountsWithActiveToken lists accounts whose active grants include the
	// token, for profile recomputation after a rarity change.
	AccountsWithActiveToken(ctx context.Context, tokenID string) ([]string, error)

	SaveProfile(ctx context.Context, profile *domain.SkillProfile) error
	DeleteProfile(ctx context.Context, accountID string) error
}
