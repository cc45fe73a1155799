package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/eventlog"
	"github.com/novakeep/stakevault/internal/skills"
)

// MockStakingService implements staking.Service for testing
type MockStakingService struct {
	mock.Mock
}

func (m *MockStakingService) Deposit(ctx context.Context, accountID string, tier domain.LockTier, amount int64) (*domain.DepositResult, error) {
	args := m.Called(ctx, accountID, tier, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositResult), args.Error(1)
}

func (m *MockStakingService) Rewards(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStakingService) BoostedRewards(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStakingService) Withdraw(ctx context.Context, accountID string) (*domain.WithdrawalResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalResult), args.Error(1)
}

func (m *MockStakingService) WithdrawAll(ctx context.Context, accountID string) (*domain.WithdrawalResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalResult), args.Error(1)
}

func (m *MockStakingService) Compound(ctx context.Context, accountID string) (*domain.CompoundResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompoundResult), args.Error(1)
}

func (m *MockStakingService) AccountView(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSummary), args.Error(1)
}

func (m *MockStakingService) PoolView(ctx context.Context) (*domain.PoolView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolView), args.Error(1)
}

func (m *MockStakingService) Pause(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStakingService) Unpause(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStakingService) SetTreasury(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockStakingService) SetMigrationTarget(ctx context.Context, target string) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockStakingService) FundReserve(ctx context.Context, amount int64) (*domain.PoolStats, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolStats), args.Error(1)
}

func (m *MockStakingService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSkillsService implements skills.Service for testing
type MockSkillsService struct {
	mock.Mock
}

func (m *MockSkillsService) ApplyGrant(ctx context.Context, accountID, tokenID string, skillType domain.SkillType, magnitudeBP int64) (*domain.SkillProfile, error) {
	args := m.Called(ctx, accountID, tokenID, skillType, magnitudeBP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillProfile), args.Error(1)
}

func (m *MockSkillsService) RevokeGrant(ctx context.Context, accountID, tokenID string) (*domain.SkillProfile, error) {
	args := m.Called(ctx, accountID, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillProfile), args.Error(1)
}

func (m *MockSkillsService) SetTokenRarity(ctx context.Context, tokenID string, rarity domain.Rarity) error {
	args := m.Called(ctx, tokenID, rarity)
	return args.Error(0)
}

func (m *MockSkillsService) GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillProfile), args.Error(1)
}

func (m *MockSkillsService) GetActiveGrants(ctx context.Context, accountID string) ([]domain.SkillGrant, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SkillGrant), args.Error(1)
}

func (m *MockSkillsService) GetCacheStats() skills.CacheStats {
	args := m.Called()
	return args.Get(0).(skills.CacheStats)
}

// MockEventLogService implements eventlog.Service for testing
type MockEventLogService struct {
	mock.Mock
}

func (m *MockEventLogService) Subscribe(bus event.Bus) error {
	args := m.Called(bus)
	return args.Error(0)
}

func (m *MockEventLogService) GetEvents(ctx context.Context, filter eventlog.EventFilter) ([]eventlog.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]eventlog.Event), args.Error(1)
}

func (m *MockEventLogService) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
