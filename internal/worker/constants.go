package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Auto-Compound Sweep
// ============================================================================

// Log messages for auto-compound sweep operations
const (
	LogMsgSweepStarted           = "Auto-compound sweep started"
	LogMsgSweepCompleted         = "Auto-compound sweep completed"
	LogMsgSweepListFailed        = "Failed to list accounts for sweep"
	LogMsgSweepRewardCheck       = "Failed to read pending reward, skipping account"
	LogMsgSweepOptInCheck        = "Failed to check auto-compound opt-in, skipping account"
	LogMsgSweepCompoundFailed    = "Failed to compound account"
	LogMsgSweepAccountCompounded = "Auto-compounded account"
	LogMsgSweepHalted            = "Sweep halted, ledger not accepting compounds"
)

// ============================================================================
// Log Messages - Daily Purge Worker
// ============================================================================

// Log messages for daily counter purge operations
const (
	LogMsgDailyPurgeStandby   = "Daily purge on standby"
	LogMsgDailyPurgeApproach  = "Daily purge scheduled"
	LogMsgDailyPurgeStarting  = "Daily purge starting"
	LogMsgDailyPurgeCompleted = "Daily purge completed"
	LogMsgDailyPurgeFailed    = "Daily purge failed"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
