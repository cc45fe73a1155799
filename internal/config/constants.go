package config

import "time"

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultTreasuryAccount       = "treasury"
	DefaultAutoCompoundInterval  = time.Hour
	DefaultAutoCompoundMinReward = 1000

	DefaultEventLogRetentionDays = 90
)
