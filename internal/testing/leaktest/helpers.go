// Package leaktest provides a goroutine-count checker for tests around
// components that own background workers: the staking service's async
// notifiers, the database pool, and the event retry worker.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker compares the goroutine count before and after an
// operation to catch workers that outlive their Shutdown.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count as the baseline.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	// Allow time for background goroutines to stabilize
	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check fails the test when more than tolerance goroutines remain above the
// baseline. Tolerance absorbs runtime-owned goroutines (finalizers, timer
// wheels) that come and go outside the code under test.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	// Allow time for goroutines to finish
	runtime.Gosched()
	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	after := runtime.NumGoroutine()
	leaked := after - g.before

	if leaked > tolerance {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, leaked, tolerance)
	}
}
