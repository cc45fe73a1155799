package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is stamped on every stake, treasury, ledger, skill,
	// and reserve event so downstream consumers can detect payload changes.
	EventSchemaVersion = "1.0"
)

// Retry configuration defaults. Bootstrap applies these when the config
// leaves EVENT_MAX_RETRIES or EVENT_RETRY_DELAY unset.
const (
	// RetryQueueBufferSize is the buffer size for the retry queue
	RetryQueueBufferSize = 1000

	// RetryInitialDelay is the base delay before the first retry attempt
	RetryInitialDelay = 2 * time.Second

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Log message constants
const (
	// Log messages for event publishing
	LogMsgEventPublishFailed     = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull         = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed  = "Failed to write to dead letter"
	LogMsgEventRetryExhausted    = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed       = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded    = "Event retry succeeded"
	LogMsgEventDroppedShutdown   = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown   = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout        = "Resilient publisher shutdown timed out"
	LogMsgDeadLetterWriteFailedS = "Failed to write to dead letter shutdown"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay returns the exponential backoff delay for an attempt:
// base, 2x base, 4x base, doubling per attempt.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
