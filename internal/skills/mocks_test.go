package skills

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/repository"
)

// MockRepository implements repository.Skills for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetActiveGrants(ctx context.Context, accountID string) ([]domain.SkillGrant, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SkillGrant), args.Error(1)
}

func (m *MockRepository) GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillProfile), args.Error(1)
}

func (m *MockRepository) GetRarity(ctx context.Context, tokenID string) (domain.Rarity, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(domain.Rarity), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.SkillsTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.SkillsTx), args.Error(1)
}

var _ repository.Skills = (*MockRepository)(nil)

// MockTx implements repository.SkillsTx for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) GrantForUpdate(ctx context.Context, accountID, tokenID string) (*domain.SkillGrant, error) {
	args := m.Called(ctx, accountID, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillGrant), args.Error(1)
}

func (m *MockTx) ActiveGrantsForUpdate(ctx context.Context, accountID string) ([]domain.SkillGrant, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SkillGrant), args.Error(1)
}

func (m *MockTx) UpsertGrant(ctx context.Context, grant *domain.SkillGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockTx) DeactivateGrant(ctx context.Context, accountID, tokenID string) error {
	args := m.Called(ctx, accountID, tokenID)
	return args.Error(0)
}

func (m *MockTx) GetRarity(ctx context.Context, tokenID string) (domain.Rarity, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(domain.Rarity), args.Error(1)
}

func (m *MockTx) SetRarity(ctx context.Context, tokenID string, rarity domain.Rarity) error {
	args := m.Called(ctx, tokenID, rarity)
	return args.Error(0)
}

func (m *MockTx) AccountsWithActiveToken(ctx context.Context, tokenID string) ([]string, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTx) SaveProfile(ctx context.Context, profile *domain.SkillProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockTx) DeleteProfile(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ensure MockTx implements repository.SkillsTx
var _ repository.SkillsTx = (*MockTx)(nil)

// MockEventPublisher implements EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}

var _ EventPublisher = (*MockEventPublisher)(nil)
