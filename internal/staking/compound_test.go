package staking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/event"
	"github.com/novakeep/stakevault/internal/gamification"
)

func TestCompound_Success(t *testing.T) {
	// ARRANGE - 91 pending folds into a new flexible deposit, commission-free
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	mockPublisher := &MockEventPublisher{}
	mockAuthority := &MockAuthority{}
	svc := newTestService(mockRepo, nil, mockAuthority, mockPublisher)

	account := &domain.StakeAccount{AccountID: "acct-1", TotalDeposited: 100_000, DepositCount: 1}
	deposits := []domain.Deposit{
		testDeposit(1, "acct-1", 100_000, domain.TierFlexible, 100*time.Hour),
	}

	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "acct-1").Return(account, nil)
	mockTx.On("GetDeposits", mock.Anything, "acct-1").Return(deposits, nil)
	mockTx.On("PoolForUpdate", mock.Anything).Return(&domain.PoolStats{TotalPoolBalance: 100_000, RewardReserve: 50_000, UniqueAccounts: 1}, nil)
	mockTx.On("TouchDeposits", mock.Anything, "acct-1", testNow).Return(nil)
	mockTx.On("InsertDeposit", mock.Anything, mock.MatchedBy(func(d *domain.Deposit) bool {
		return d.LockTier == domain.TierFlexible && d.Amount == 91 && d.CreatedAt.Equal(testNow)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Deposit).ID = 9
	}).Return(nil)
	mockTx.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(a *domain.StakeAccount) bool {
		return a.TotalDeposited == 100_091 && a.DepositCount == 2
	})).Return(nil)
	mockTx.On("UpdatePool", mock.Anything, mock.MatchedBy(func(p *domain.PoolStats) bool {
		return p.TotalPoolBalance == 100_091 && p.RewardReserve == 49_909
	})).Return(nil)
	mockTx.On("InsertTransfer", mock.Anything, mock.MatchedBy(func(tr domain.Transfer) bool {
		return tr.Kind == domain.TransferDepositIn && tr.Amount == 91 && tr.Memo == MemoCompound
	})).Return(nil).Once()
	mockTx.On("Commit", mock.Anything).Return(nil)
	mockPublisher.On("PublishWithRetry", mock.Anything, mock.MatchedBy(func(evt event.Event) bool {
		return evt.Type == event.Type(domain.EventTypeCompoundPerformed)
	})).Return().Once()
	mockAuthority.On("NotifyAction", mock.Anything, "acct-1", gamification.ActionCompound, int64(91)).Return(nil)

	// ACT
	result, err := svc.Compound(context.Background(), "acct-1")

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, int64(9), result.DepositID)
	assert.Equal(t, int64(91), result.Amount)

	// Compounding moves value inside custody, so exactly one transfer row
	// and no commission.
	mockTx.AssertNumberOfCalls(t, "InsertTransfer", 1)

	require.NoError(t, svc.Shutdown(context.Background()))
	mockTx.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
	mockAuthority.AssertExpectations(t)
}

func TestCompound_BoostedRewardFolds(t *testing.T) {
	// ARRANGE - the skill profile raises 91 to 91*1.2=109, then 109*1.5=163
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	mockSkills := &MockSkills{}
	svc := newTestService(mockRepo, mockSkills, nil, nil)

	account := &domain.StakeAccount{AccountID: "acct-1", TotalDeposited: 100_000, DepositCount: 1}
	deposits := []domain.Deposit{
		testDeposit(1, "acct-1", 100_000, domain.TierFlexible, 100*time.Hour),
	}
	profile := &domain.SkillProfile{AccountID: "acct-1", YieldBoostBP: 2000, RarityPct: 150, ActiveGrants: 2}

	mockSkills.On("GetProfile", mock.Anything, "acct-1").Return(profile, nil)
	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "acct-1").Return(account, nil)
	mockTx.On("GetDeposits", mock.Anything, "acct-1").Return(deposits, nil)
	mockTx.On("PoolForUpdate", mock.Anything).Return(&domain.PoolStats{TotalPoolBalance: 100_000, RewardReserve: 50_000, UniqueAccounts: 1}, nil)
	mockTx.On("TouchDeposits", mock.Anything, "acct-1", testNow).Return(nil)
	mockTx.On("InsertDeposit", mock.Anything, mock.Anything).Return(nil)
	mockTx.On("UpdateAccount", mock.Anything, mock.Anything).Return(nil)
	mockTx.On("UpdatePool", mock.Anything, mock.Anything).Return(nil)
	mockTx.On("InsertTransfer", mock.Anything, mock.Anything).Return(nil)
	mockTx.On("Commit", mock.Anything).Return(nil)

	// ACT
	result, err := svc.Compound(context.Background(), "acct-1")

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, int64(163), result.Amount)
}

func TestCompound_NoRewards(t *testing.T) {
	// ARRANGE
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	svc := newTestService(mockRepo, nil, nil, nil)

	account := &domain.StakeAccount{AccountID: "acct-1", TotalDeposited: 100_000, DepositCount: 1}
	deposits := []domain.Deposit{
		testDeposit(1, "acct-1", 100_000, domain.TierFlexible, 30*time.Minute),
	}

	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "acct-1").Return(account, nil)
	mockTx.On("GetDeposits", mock.Anything, "acct-1").Return(deposits, nil)

	// ACT
	_, err := svc.Compound(context.Background(), "acct-1")

	// ASSERT
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRewards)
	mockTx.AssertNotCalled(t, "InsertDeposit", mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCompound_OversizedFoldRejected(t *testing.T) {
	// ARRANGE - 975_000_000 flexible held 40y accrues the full 300% ROI plus
	// 20% tenure: 3_509_998_806 pending, more than a single deposit may hold
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	svc := newTestService(mockRepo, nil, nil, nil)

	account := &domain.StakeAccount{AccountID: "acct-1", TotalDeposited: 975_000_000, DepositCount: 1}
	deposits := []domain.Deposit{
		testDeposit(1, "acct-1", 975_000_000, domain.TierFlexible, 40*365*24*time.Hour),
	}

	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "acct-1").Return(account, nil)
	mockTx.On("GetDeposits", mock.Anything, "acct-1").Return(deposits, nil)

	// ACT
	_, err := svc.Compound(context.Background(), "acct-1")

	// ASSERT - refused before any state is touched
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	mockTx.AssertNotCalled(t, "PoolForUpdate", mock.Anything)
	mockTx.AssertNotCalled(t, "TouchDeposits", mock.Anything, mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "InsertDeposit", mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCompound_DepositLimit(t *testing.T) {
	// ARRANGE - a full account cannot take the extra deposit a compound creates
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	svc := newTestService(mockRepo, nil, nil, nil)

	full := &domain.StakeAccount{AccountID: "acct-1", DepositCount: domain.MaxDepositsPerAccount}

	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "acct-1").Return(full, nil)

	// ACT
	_, err := svc.Compound(context.Background(), "acct-1")

	// ASSERT
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDepositLimit)
	mockTx.AssertNotCalled(t, "GetDeposits", mock.Anything, mock.Anything)
}

func TestCompound_InsufficientReserve(t *testing.T) {
	// ARRANGE - compounding draws on the reserve exactly like a payout would
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	svc := newTestService(mockRepo, nil, nil, nil)

	account := &domain.StakeAccount{AccountID: "acct-1", TotalDeposited: 100_000, DepositCount: 1}
	deposits := []domain.Deposit{
		testDeposit(1, "acct-1", 100_000, domain.TierFlexible, 100*time.Hour),
	}

	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "acct-1").Return(account, nil)
	mockTx.On("GetDeposits", mock.Anything, "acct-1").Return(deposits, nil)
	mockTx.On("PoolForUpdate", mock.Anything).Return(&domain.PoolStats{TotalPoolBalance: 100_000, RewardReserve: 10, UniqueAccounts: 1}, nil)

	// ACT
	_, err := svc.Compound(context.Background(), "acct-1")

	// ASSERT
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientReserve)
	mockTx.AssertNotCalled(t, "TouchDeposits", mock.Anything, mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCompound_LifecycleGates(t *testing.T) {
	tests := []struct {
		name    string
		state   *domain.LedgerState
		wantErr error
	}{
		{"paused", &domain.LedgerState{Treasury: "treasury-1", Paused: true}, domain.ErrLedgerPaused},
		{"migrated", &domain.LedgerState{Treasury: "treasury-1", MigratedTo: "vault-2"}, domain.ErrLedgerMigrated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			mockRepo := &MockRepository{}
			svc := newTestService(mockRepo, nil, nil, nil)
			mockRepo.On("GetLedgerState", mock.Anything).Return(tt.state, nil)

			// ACT
			_, err := svc.Compound(context.Background(), "acct-1")

			// ASSERT
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
		})
	}
}

func TestCompound_AccountNotFound(t *testing.T) {
	// ARRANGE
	mockRepo := &MockRepository{}
	mockTx := new(MockTx)
	svc := newTestService(mockRepo, nil, nil, nil)

	mockRepo.On("GetLedgerState", mock.Anything).Return(liveState(), nil)
	mockRepo.On("BeginTx", mock.Anything).Return(mockTx, nil)
	mockTx.On("Rollback", mock.Anything).Return(nil).Maybe()
	mockTx.On("AccountForUpdate", mock.Anything, "ghost").Return(nil, nil)

	// ACT
	_, err := svc.Compound(context.Background(), "ghost")

	// ASSERT
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
