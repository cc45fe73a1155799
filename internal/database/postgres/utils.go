package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx abstracts over *pgxpool.Pool and pgx.Tx so pool-backed reads and
// transaction-bound reads share one query helper.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UTCDay formats a timestamp as the UTC calendar-day key used by the
// daily_withdrawals table.
func UTCDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
