package skills

import (
	"context"
	"fmt"
	"time"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/repository"
)

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Service defines the interface for skill registry operations. Grants are
// issued and revoked by the external skill authority; the registry keeps the
// per-account aggregate profile the reward math consumes.
type Service interface {
	// ApplyGrant activates a grant for (accountID, tokenID) and returns the
	// recomputed profile. A token already carrying an active grant is
	// rejected; the authority must revoke first.
	ApplyGrant(ctx context.Context, accountID, tokenID string, skillType domain.SkillType, magnitudeBP int64) (*domain.SkillProfile, error)

	// RevokeGrant deactivates the grant and returns the profile recomputed
	// from a full rescan of the surviving grants.
	RevokeGrant(ctx context.Context, accountID, tokenID string) (*domain.SkillProfile, error)

	// SetTokenRarity updates a token's rarity and recomputes the profile of
	// every account holding an active grant on it.
	SetTokenRarity(ctx context.Context, tokenID string, rarity domain.Rarity) error

	GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error)
	GetActiveGrants(ctx context.Context, accountID string) ([]domain.SkillGrant, error)
	GetCacheStats() CacheStats
}

type service struct {
	repo      repository.Skills
	publisher EventPublisher
	cache     *profileCache
	now       func() time.Time
}

// NewService creates a new skill registry service with default caching
func NewService(repo repository.Skills, publisher EventPublisher) Service {
	return NewServiceWithCache(repo, publisher, DefaultCacheConfig())
}

// NewServiceWithCache creates a new skill registry service with explicit
// cache configuration
func NewServiceWithCache(repo repository.Skills, publisher EventPublisher, cacheCfg CacheConfig) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		cache:     newProfileCache(cacheCfg),
		now:       time.Now,
	}
}

func (s *service) ApplyGrant(ctx context.Context, accountID, tokenID string, skillType domain.SkillType, magnitudeBP int64) (*domain.SkillProfile, error) {
	log := logger.FromContext(ctx)

	if accountID == "" || tokenID == "" {
		return nil, fmt.Errorf("%w: account and token are required", domain.ErrInvalidInput)
	}
	if !skillType.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSkillType, skillType)
	}
	if magnitudeBP <= 0 || magnitudeBP > domain.Basis {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidMagnitude, magnitudeBP)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	grants, err := tx.ActiveGrantsForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetGrants, err)
	}

	set := domain.NewGrantSet(grants...)
	if set.Contains(tokenID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrantActive, tokenID)
	}
	if set.Len() >= domain.MaxActiveGrants {
		return nil, fmt.Errorf("%w: limit %d", domain.ErrGrantLimit, domain.MaxActiveGrants)
	}

	grant := domain.SkillGrant{
		AccountID:   accountID,
		TokenID:     tokenID,
		SkillType:   skillType,
		MagnitudeBP: magnitudeBP,
		Active:      true,
		ActivatedAt: s.now().UTC(),
	}
	set.Add(grant)

	if err := tx.UpsertGrant(ctx, &grant); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpsertGrant, err)
	}

	profile, err := deriveProfile(ctx, tx, accountID, set)
	if err != nil {
		return nil, err
	}
	if err := tx.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSaveProfile, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.cache.Invalidate(accountID)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewSkillAppliedEvent(accountID, tokenID, string(skillType), magnitudeBP))
	}

	log.Info(LogMsgGrantApplied,
		"account_id", accountID,
		"token_id", tokenID,
		"skill_type", skillType,
		"magnitude_bp", magnitudeBP)
	return profile, nil
}

func (s *service) RevokeGrant(ctx context.Context, accountID, tokenID string) (*domain.SkillProfile, error) {
	log := logger.FromContext(ctx)

	if accountID == "" || tokenID == "" {
		return nil, fmt.Errorf("%w: account and token are required", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	existing, err := tx.GrantForUpdate(ctx, accountID, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetGrant, err)
	}
	if existing == nil || !existing.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrantNotActive, tokenID)
	}

	if err := tx.DeactivateGrant(ctx, accountID, tokenID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRemoveGrant, err)
	}

	// Full rescan: the rarity multiplier is a max, so the survivors decide
	// the new profile.
	grants, err := tx.ActiveGrantsForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetGrants, err)
	}

	set := domain.NewGrantSet(grants...)
	profile, err := deriveProfile(ctx, tx, accountID, set)
	if err != nil {
		return nil, err
	}

	if set.Len() == 0 {
		if err := tx.DeleteProfile(ctx, accountID); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgDeleteProfile, err)
		}
	} else {
		if err := tx.SaveProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgSaveProfile, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	s.cache.Invalidate(accountID)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewSkillRemovedEvent(accountID, tokenID))
	}

	log.Info(LogMsgGrantRevoked,
		"account_id", accountID,
		"token_id", tokenID,
		"remaining_grants", set.Len())
	return profile, nil
}

func (s *service) SetTokenRarity(ctx context.Context, tokenID string, rarity domain.Rarity) error {
	log := logger.FromContext(ctx)

	if tokenID == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if !rarity.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRarity, rarity)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.SetRarity(ctx, tokenID, rarity); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSetRarity, err)
	}

	holders, err := tx.AccountsWithActiveToken(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgListHolders, err)
	}

	for _, accountID := range holders {
		grants, err := tx.ActiveGrantsForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgGetGrants, err)
		}
		set := domain.NewGrantSet(grants...)
		profile, err := deriveProfile(ctx, tx, accountID, set)
		if err != nil {
			return err
		}
		if err := tx.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgSaveProfile, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	for _, accountID := range holders {
		s.cache.Invalidate(accountID)
	}

	log.Info(LogMsgRarityChanged,
		"token_id", tokenID,
		"rarity", rarity,
		"accounts_recomputed", len(holders))
	return nil
}

func (s *service) GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	if profile, ok := s.cache.Get(accountID); ok {
		return profile, nil
	}

	profile, err := s.repo.GetProfile(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetProfile, err)
	}

	s.cache.Set(accountID, profile)
	return profile, nil
}

func (s *service) GetActiveGrants(ctx context.Context, accountID string) ([]domain.SkillGrant, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account is required", domain.ErrInvalidInput)
	}

	grants, err := s.repo.GetActiveGrants(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetGrants, err)
	}
	return grants, nil
}

func (s *service) GetCacheStats() CacheStats {
	return s.cache.GetStats()
}

// deriveProfile fetches rarities for every token in the set inside the open
// transaction, then recomputes the aggregate profile.
func deriveProfile(ctx context.Context, tx repository.SkillsTx, accountID string, set *domain.GrantSet) (*domain.SkillProfile, error) {
	rarities := make(map[string]domain.Rarity, set.Len())
	for _, g := range set.All() {
		r, err := tx.GetRarity(ctx, g.TokenID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgGetRarity, err)
		}
		rarities[g.TokenID] = r
	}

	profile := set.DeriveProfile(accountID, func(tokenID string) domain.Rarity {
		return rarities[tokenID]
	})
	return &profile, nil
}
