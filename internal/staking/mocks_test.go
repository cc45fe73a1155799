package staking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/repository"
)

// MockRepository implements repository.Staking for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAccount(ctx context.Context, accountID string) (*domain.StakeAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StakeAccount), args.Error(1)
}

func (m *MockRepository) GetDeposits(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockRepository) GetPoolStats(ctx context.Context) (*domain.PoolStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolStats), args.Error(1)
}

func (m *MockRepository) GetLedgerState(ctx context.Context) (*domain.LedgerState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerState), args.Error(1)
}

func (m *MockRepository) GetDailyWithdrawn(ctx context.Context, accountID, day string) (int64, error) {
	args := m.Called(ctx, accountID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) PurgeDailyCounters(ctx context.Context, before string) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.StakingTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.StakingTx), args.Error(1)
}

var _ repository.Staking = (*MockRepository)(nil)

// MockTx implements repository.StakingTx for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) AccountForUpdate(ctx context.Context, accountID string) (*domain.StakeAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StakeAccount), args.Error(1)
}

func (m *MockTx) CreateAccount(ctx context.Context, account *domain.StakeAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockTx) UpdateAccount(ctx context.Context, account *domain.StakeAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockTx) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockTx) GetDeposits(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockTx) InsertDeposit(ctx context.Context, deposit *domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockTx) TouchDeposits(ctx context.Context, accountID string, claimedAt time.Time) error {
	args := m.Called(ctx, accountID, claimedAt)
	return args.Error(0)
}

func (m *MockTx) DeleteDeposits(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockTx) PoolForUpdate(ctx context.Context) (*domain.PoolStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PoolStats), args.Error(1)
}

func (m *MockTx) UpdatePool(ctx context.Context, stats *domain.PoolStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockTx) LedgerStateForUpdate(ctx context.Context) (*domain.LedgerState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerState), args.Error(1)
}

func (m *MockTx) UpdateLedgerState(ctx context.Context, state *domain.LedgerState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockTx) DailyWithdrawnForUpdate(ctx context.Context, accountID, day string) (int64, error) {
	args := m.Called(ctx, accountID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) AddDailyWithdrawn(ctx context.Context, accountID, day string, amount int64) error {
	args := m.Called(ctx, accountID, day, amount)
	return args.Error(0)
}

func (m *MockTx) InsertTransfer(ctx context.Context, transfer domain.Transfer) error {
	args := m.Called(ctx, transfer)
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

// Ensure MockTx implements repository.StakingTx
var _ repository.StakingTx = (*MockTx)(nil)

// MockSkills implements SkillsService for testing
type MockSkills struct {
	mock.Mock
}

func (m *MockSkills) GetProfile(ctx context.Context, accountID string) (*domain.SkillProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillProfile), args.Error(1)
}

var _ SkillsService = (*MockSkills)(nil)

// MockAuthority implements GamificationAuthority for testing
type MockAuthority struct {
	mock.Mock
}

func (m *MockAuthority) NotifyAction(ctx context.Context, accountID, action string, amount int64) error {
	args := m.Called(ctx, accountID, action, amount)
	return args.Error(0)
}

func (m *MockAuthority) XPInfo(ctx context.Context, accountID string) (*domain.XPInfo, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.XPInfo), args.Error(1)
}

var _ GamificationAuthority = (*MockAuthority)(nil)

// MockEventPublisher implements EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}

var _ EventPublisher = (*MockEventPublisher)(nil)
