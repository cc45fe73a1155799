package staking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/repository"
)

// fakeLedger is an in-memory repository.Staking for multi-step scenario
// tests. Mutations apply immediately and Commit is a no-op, so it exercises
// sequencing and arithmetic; abort-on-error behavior is covered by the
// mock-based tests.
type fakeLedger struct {
	mu        sync.Mutex
	accounts  map[string]*domain.StakeAccount
	deposits  map[string][]domain.Deposit
	nextID    int64
	pool      domain.PoolStats
	state     domain.LedgerState
	daily     map[string]int64
	transfers []domain.Transfer
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: make(map[string]*domain.StakeAccount),
		deposits: make(map[string][]domain.Deposit),
		daily:    make(map[string]int64),
		state:    domain.LedgerState{Treasury: "treasury-1"},
	}
}

func (f *fakeLedger) getAccount(accountID string) *domain.StakeAccount {
	a, ok := f.accounts[accountID]
	if !ok {
		return nil
	}
	copied := *a
	return &copied
}

func (f *fakeLedger) getDeposits(accountID string) []domain.Deposit {
	return append([]domain.Deposit(nil), f.deposits[accountID]...)
}

func (f *fakeLedger) GetAccount(_ context.Context, accountID string) (*domain.StakeAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getAccount(accountID), nil
}

func (f *fakeLedger) GetDeposits(_ context.Context, accountID string) ([]domain.Deposit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getDeposits(accountID), nil
}

func (f *fakeLedger) GetPoolStats(_ context.Context) (*domain.PoolStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pool := f.pool
	return &pool, nil
}

func (f *fakeLedger) GetLedgerState(_ context.Context) (*domain.LedgerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.state
	return &state, nil
}

func (f *fakeLedger) GetDailyWithdrawn(_ context.Context, accountID, day string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.daily[accountID+"|"+day], nil
}

func (f *fakeLedger) ListAccountIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.accounts))
	for id := range f.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeLedger) PurgeDailyCounters(_ context.Context, before string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var purged int64
	for key := range f.daily {
		if day := key[strings.IndexByte(key, '|')+1:]; day < before {
			delete(f.daily, key)
			purged++
		}
	}
	return purged, nil
}

func (f *fakeLedger) BeginTx(_ context.Context) (repository.StakingTx, error) {
	return &fakeLedgerTx{f: f}, nil
}

var _ repository.Staking = (*fakeLedger)(nil)

type fakeLedgerTx struct {
	f *fakeLedger
}

func (t *fakeLedgerTx) AccountForUpdate(_ context.Context, accountID string) (*domain.StakeAccount, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return t.f.getAccount(accountID), nil
}

func (t *fakeLedgerTx) CreateAccount(_ context.Context, account *domain.StakeAccount) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	copied := *account
	t.f.accounts[account.AccountID] = &copied
	return nil
}

func (t *fakeLedgerTx) UpdateAccount(_ context.Context, account *domain.StakeAccount) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	copied := *account
	t.f.accounts[account.AccountID] = &copied
	return nil
}

func (t *fakeLedgerTx) DeleteAccount(_ context.Context, accountID string) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	delete(t.f.accounts, accountID)
	return nil
}

func (t *fakeLedgerTx) GetDeposits(_ context.Context, accountID string) ([]domain.Deposit, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return t.f.getDeposits(accountID), nil
}

func (t *fakeLedgerTx) InsertDeposit(_ context.Context, deposit *domain.Deposit) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.nextID++
	deposit.ID = t.f.nextID
	t.f.deposits[deposit.AccountID] = append(t.f.deposits[deposit.AccountID], *deposit)
	return nil
}

func (t *fakeLedgerTx) TouchDeposits(_ context.Context, accountID string, claimedAt time.Time) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	list := t.f.deposits[accountID]
	for i := range list {
		list[i].LastClaimAt = claimedAt
	}
	return nil
}

func (t *fakeLedgerTx) DeleteDeposits(_ context.Context, accountID string) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	delete(t.f.deposits, accountID)
	return nil
}

func (t *fakeLedgerTx) PoolForUpdate(_ context.Context) (*domain.PoolStats, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	pool := t.f.pool
	return &pool, nil
}

func (t *fakeLedgerTx) UpdatePool(_ context.Context, stats *domain.PoolStats) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.pool = *stats
	return nil
}

func (t *fakeLedgerTx) LedgerStateForUpdate(_ context.Context) (*domain.LedgerState, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	state := t.f.state
	return &state, nil
}

func (t *fakeLedgerTx) UpdateLedgerState(_ context.Context, state *domain.LedgerState) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.state = *state
	return nil
}

func (t *fakeLedgerTx) DailyWithdrawnForUpdate(_ context.Context, accountID, day string) (int64, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return t.f.daily[accountID+"|"+day], nil
}

func (t *fakeLedgerTx) AddDailyWithdrawn(_ context.Context, accountID, day string, amount int64) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.daily[accountID+"|"+day] += amount
	return nil
}

func (t *fakeLedgerTx) InsertTransfer(_ context.Context, transfer domain.Transfer) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.transfers = append(t.f.transfers, transfer)
	return nil
}

func (t *fakeLedgerTx) Commit(_ context.Context) error   { return nil }
func (t *fakeLedgerTx) Rollback(_ context.Context) error { return nil }

var _ repository.StakingTx = (*fakeLedgerTx)(nil)

// checkBooks asserts the conservation identities: the pool balance equals the
// sum of live account principal, and both pool aggregates reconcile against
// the transfer audit rows.
func checkBooks(t *testing.T, f *fakeLedger) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	var accountTotal int64
	for _, a := range f.accounts {
		accountTotal += a.TotalDeposited
	}
	assert.Equal(t, accountTotal, f.pool.TotalPoolBalance, "pool balance must equal the sum of account principal")

	var depositIn, compoundIn, principalOut, rewardOut, rewardCommission, reserveIn int64
	for _, tr := range f.transfers {
		switch tr.Kind {
		case domain.TransferDepositIn:
			depositIn += tr.Amount
			if tr.Memo == MemoCompound {
				compoundIn += tr.Amount
			}
		case domain.TransferPrincipalPayout:
			principalOut += tr.Amount
		case domain.TransferRewardPayout:
			rewardOut += tr.Amount
		case domain.TransferCommission:
			// Deposit commissions are skimmed before funds enter the pool;
			// only reward commissions draw the reserve down.
			if tr.Memo == SourceWithdraw || tr.Memo == SourceWithdrawAll {
				rewardCommission += tr.Amount
			}
		case domain.TransferReserveFund:
			reserveIn += tr.Amount
		}
	}
	assert.Equal(t, depositIn-principalOut, f.pool.TotalPoolBalance, "pool balance must reconcile against transfer rows")
	assert.Equal(t, reserveIn-rewardOut-rewardCommission-compoundIn, f.pool.RewardReserve, "reward reserve must reconcile against transfer rows")
}
