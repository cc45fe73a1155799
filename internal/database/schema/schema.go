package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Staking Ledger Schema

-- 1. Stake Accounts
-- Created implicitly on first deposit, deleted again on full withdrawal.
CREATE TABLE IF NOT EXISTS stake_accounts (
    account_id       TEXT PRIMARY KEY,
    total_deposited  BIGINT NOT NULL DEFAULT 0 CHECK (total_deposited >= 0),
    deposit_count    INTEGER NOT NULL DEFAULT 0 CHECK (deposit_count >= 0),
    last_withdraw_at TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- 2. Deposits
-- Only last_claim_at ever mutates, and only forward.
CREATE TABLE IF NOT EXISTS deposits (
    deposit_id    BIGSERIAL PRIMARY KEY,
    account_id    TEXT NOT NULL REFERENCES stake_accounts(account_id) ON DELETE CASCADE,
    amount        BIGINT NOT NULL CHECK (amount > 0),
    lock_tier     INTEGER NOT NULL CHECK (lock_tier IN (0, 30, 90, 180, 365)),
    created_at    TIMESTAMPTZ NOT NULL,
    last_claim_at TIMESTAMPTZ NOT NULL,
    CHECK (last_claim_at >= created_at)
);

CREATE INDEX IF NOT EXISTS idx_deposits_account ON deposits(account_id);

-- 3. Pool Aggregate (single row)
CREATE TABLE IF NOT EXISTS pool_stats (
    id                 BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (id),
    total_pool_balance BIGINT NOT NULL DEFAULT 0 CHECK (total_pool_balance >= 0),
    reward_reserve     BIGINT NOT NULL DEFAULT 0 CHECK (reward_reserve >= 0),
    unique_accounts    BIGINT NOT NULL DEFAULT 0 CHECK (unique_accounts >= 0)
);

INSERT INTO pool_stats (id) VALUES (TRUE) ON CONFLICT DO NOTHING;

-- 4. Ledger Lifecycle State (single row)
-- Treasury is populated from configuration on first boot; migrated_to is
-- one-way and never cleared.
CREATE TABLE IF NOT EXISTS ledger_state (
    id          BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (id),
    treasury    TEXT NOT NULL DEFAULT '',
    paused      BOOLEAN NOT NULL DEFAULT FALSE,
    migrated_to TEXT NOT NULL DEFAULT '',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    migrated_at TIMESTAMPTZ
);

INSERT INTO ledger_state (id) VALUES (TRUE) ON CONFLICT DO NOTHING;

-- 5. Daily Withdrawal Counters
-- Lazily reset: a missing (account, day) row reads as zero.
CREATE TABLE IF NOT EXISTS daily_withdrawals (
    account_id TEXT NOT NULL,
    day        DATE NOT NULL,
    withdrawn  BIGINT NOT NULL DEFAULT 0 CHECK (withdrawn >= 0),
    PRIMARY KEY (account_id, day)
);

-- 6. Transfers (audit trail of every value movement)
CREATE TABLE IF NOT EXISTS transfers (
    transfer_id UUID PRIMARY KEY,
    account_id  TEXT NOT NULL DEFAULT '',
    kind        VARCHAR(32) NOT NULL,
    amount      BIGINT NOT NULL,
    memo        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transfers_account ON transfers(account_id, created_at);
CREATE INDEX IF NOT EXISTS idx_transfers_kind ON transfers(kind, created_at);

-- 7. Skill Grants
-- At most one grant per (account, token); active flag flips off on revoke
-- so the audit trail keeps the activation history.
CREATE TABLE IF NOT EXISTS skill_grants (
    account_id   TEXT NOT NULL,
    token_id     TEXT NOT NULL,
    skill_type   VARCHAR(32) NOT NULL CHECK (skill_type IN ('yield_boost', 'fee_discount', 'lock_reduction')),
    magnitude_bp BIGINT NOT NULL CHECK (magnitude_bp > 0),
    active       BOOLEAN NOT NULL DEFAULT TRUE,
    activated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (account_id, token_id)
);

CREATE INDEX IF NOT EXISTS idx_skill_grants_token_active ON skill_grants(token_id) WHERE active;

-- 8. Token Rarities
-- Absent rows read as 'common'.
CREATE TABLE IF NOT EXISTS token_rarities (
    token_id TEXT PRIMARY KEY,
    rarity   VARCHAR(16) NOT NULL DEFAULT 'common'
        CHECK (rarity IN ('common', 'uncommon', 'rare', 'epic', 'legendary'))
);

-- 9. Derived Skill Profiles
-- Written incrementally on grant, rewritten from a full rescan on revoke
-- and rarity changes.
CREATE TABLE IF NOT EXISTS skill_profiles (
    account_id        TEXT PRIMARY KEY,
    yield_boost_bp    BIGINT NOT NULL DEFAULT 0,
    rarity_pct        BIGINT NOT NULL DEFAULT 100,
    fee_discount_bp   BIGINT NOT NULL DEFAULT 0,
    lock_reduction_bp BIGINT NOT NULL DEFAULT 0,
    active_grants     INTEGER NOT NULL DEFAULT 0,
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- 10. Ledger Event Audit Log
-- Every domain event the bus publishes lands here via the eventlog subscriber.
CREATE TABLE IF NOT EXISTS ledger_events (
    id         BIGSERIAL PRIMARY KEY,
    event_type VARCHAR(64) NOT NULL,
    account_id TEXT,
    payload    JSONB NOT NULL,
    metadata   JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_events_account ON ledger_events(account_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ledger_events_type ON ledger_events(event_type, created_at DESC);
`
