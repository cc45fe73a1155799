package gamification

import "time"

// Default configuration values
const (
	// DefaultTimeout bounds every request to the gamification authority
	DefaultTimeout = 5 * time.Second

	// MaxErrorBodySize limits how much of an error response body is read
	MaxErrorBodySize = 4096
)

// API paths on the gamification authority
const (
	PathActions      = "/api/v1/actions"
	PathAutoCompound = "/api/v1/accounts/%s/auto-compound"
	PathXP           = "/api/v1/accounts/%s/xp"
)

// HeaderAPIKey authenticates this service to the authority
const HeaderAPIKey = "X-API-Key"

// Action names reported to the authority
const (
	ActionStake    = "stake"
	ActionCompound = "compound"
)

// Error messages
const (
	ErrMsgBuildRequest     = "failed to build gamification request"
	ErrMsgRequestFailed    = "gamification request failed"
	ErrMsgUnexpectedStatus = "gamification authority returned unexpected status"
	ErrMsgDecodeResponse   = "failed to decode gamification response"
)

// LogMsgActionNotified records a successful report to the authority. Failures
// are logged by the caller, which knows the surrounding operation.
const LogMsgActionNotified = "Action reported to gamification authority"
