package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/novakeep/stakevault/internal/config"
	"github.com/novakeep/stakevault/internal/repository"
)

// SyncLedgerState seeds the singleton ledger state row from configuration.
// The treasury address is only written when the stored value is empty, so a
// rotation done through the admin API survives restarts; the configured value
// is a first-boot default, not an override.
func SyncLedgerState(ctx context.Context, stakingRepo repository.Staking, cfg *config.Config) error {
	slog.Info("Syncing ledger state from config...")

	tx, err := stakingRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger state sync: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.LedgerStateForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger state: %w", err)
	}

	if state.Treasury != "" {
		slog.Info("Ledger state already seeded, sync skipped", "treasury", state.Treasury)
		return nil
	}

	state.Treasury = cfg.TreasuryAccount
	state.UpdatedAt = time.Now().UTC()
	if err := tx.UpdateLedgerState(ctx, state); err != nil {
		return fmt.Errorf("failed to seed ledger state: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ledger state sync: %w", err)
	}

	slog.Info("Ledger state seeded", "treasury", cfg.TreasuryAccount)
	return nil
}
