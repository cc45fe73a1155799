package concurrency

import (
	"context"
	"sync"

	"github.com/novakeep/stakevault/internal/domain"
)

// AccountGuard serializes mutating ledger operations per account and rejects
// reentrant entry from within an in-flight operation's call frame. Legitimate
// concurrent requests for the same account queue on a per-account mutex;
// a nested call carrying the context of an operation already holding the
// guard fails fast with ErrReentrantCall instead of deadlocking.
type AccountGuard struct {
	locks sync.Map
}

// NewAccountGuard creates a new AccountGuard
func NewAccountGuard() *AccountGuard {
	return &AccountGuard{}
}

// reentryKey marks a context as being inside a guarded operation for one account.
type reentryKey struct {
	accountID string
}

// Enter acquires the guard for accountID. The returned context must be used
// for all downstream work in the operation; the release func must be called
// exactly once when the operation finishes (deferred at the call site).
func (g *AccountGuard) Enter(ctx context.Context, accountID string) (context.Context, func(), error) {
	if ctx.Value(reentryKey{accountID: accountID}) != nil {
		return ctx, nil, domain.ErrReentrantCall
	}

	mu := g.lock(accountID)
	mu.Lock()

	opCtx := context.WithValue(ctx, reentryKey{accountID: accountID}, true)
	var once sync.Once
	release := func() {
		once.Do(mu.Unlock)
	}
	return opCtx, release, nil
}

// Held reports whether ctx is already inside a guarded operation for accountID.
// Read paths use this to stay callable from anywhere without taking the guard.
func (g *AccountGuard) Held(ctx context.Context, accountID string) bool {
	return ctx.Value(reentryKey{accountID: accountID}) != nil
}

// lock returns the mutex for the given account
func (g *AccountGuard) lock(accountID string) *sync.Mutex {
	mu, _ := g.locks.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
