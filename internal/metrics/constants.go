package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameDepositsTotal      = "deposits_total"
	MetricNameDepositedUnits     = "deposited_units_total"
	MetricNameWithdrawalsTotal   = "withdrawals_total"
	MetricNameWithdrawnUnits     = "withdrawn_units_total"
	MetricNameCompoundsTotal     = "compounds_total"
	MetricNameCompoundedUnits    = "compounded_units_total"
	MetricNameCommissionUnits    = "commission_units_total"
	MetricNameReserveFundedUnits = "reserve_funded_units_total"
	MetricNameSkillGrantsApplied = "skill_grants_applied_total"
	MetricNameSkillGrantsRemoved = "skill_grants_removed_total"
	MetricNamePoolBalance        = "pool_balance_units"
	MetricNameRewardReserve      = "reward_reserve_units"
	MetricNameUniqueAccounts     = "unique_accounts"
	MetricNameLedgerPaused       = "ledger_paused"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextDepositsTotal      = "Total number of deposits accepted"
	HelpTextDepositedUnits     = "Total units deposited net of commission"
	HelpTextWithdrawalsTotal   = "Total number of withdrawals"
	HelpTextWithdrawnUnits     = "Total units paid out to accounts"
	HelpTextCompoundsTotal     = "Total number of compound operations"
	HelpTextCompoundedUnits    = "Total reward units folded into new deposits"
	HelpTextCommissionUnits    = "Total commission units routed to the treasury"
	HelpTextReserveFundedUnits = "Total units added to the reward reserve"
	HelpTextSkillGrantsApplied = "Total skill grants applied"
	HelpTextSkillGrantsRemoved = "Total skill grants removed"
	HelpTextPoolBalance        = "Current pool balance in units"
	HelpTextRewardReserve      = "Current reward reserve in units"
	HelpTextUniqueAccounts     = "Current number of accounts with live deposits"
	HelpTextLedgerPaused       = "1 when the ledger is paused, 0 otherwise"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelLockTier  = "lock_tier"
	LabelKind      = "kind"
	LabelSource    = "source"
	LabelSkillType = "skill_type"
)

// Withdrawal kind label values
const (
	WithdrawalKindRewards = "rewards"
	WithdrawalKindFull    = "full"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)
