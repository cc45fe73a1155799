package eventlog

// JSON payload field keys
const (
	PayloadKeyAccountID = "account_id"
)

// Log messages - service events
const (
	LogMsgEventPayloadNotMap = "Event payload could not be decoded, skipping log"
	LogMsgFailedToLogEvent   = "Failed to log event to database"
	LogMsgEventLogged        = "Event logged to database"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)
