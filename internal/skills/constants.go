package skills

import "time"

// Cache Configuration

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cached profiles
const DefaultCacheSize = 4096

// DefaultCacheTTL is the default time-to-live for cached profiles
const DefaultCacheTTL = 5 * time.Minute

// Error message constants
const (
	ErrMsgBeginTx       = "failed to begin transaction"
	ErrMsgCommitTx      = "failed to commit transaction"
	ErrMsgGetGrants     = "failed to get active grants"
	ErrMsgGetGrant      = "failed to get grant"
	ErrMsgUpsertGrant   = "failed to upsert grant"
	ErrMsgRemoveGrant   = "failed to deactivate grant"
	ErrMsgGetRarity     = "failed to get token rarity"
	ErrMsgSetRarity     = "failed to set token rarity"
	ErrMsgListHolders   = "failed to list token holders"
	ErrMsgGetProfile    = "failed to get skill profile"
	ErrMsgSaveProfile   = "failed to save skill profile"
	ErrMsgDeleteProfile = "failed to delete skill profile"
)

// Log message constants
const (
	LogMsgGrantApplied  = "Skill grant applied"
	LogMsgGrantRevoked  = "Skill grant revoked"
	LogMsgRarityChanged = "Token rarity changed"
)
