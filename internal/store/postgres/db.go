package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on every startup; idempotent so deploys need no
// separate migration step for a single-table store.
const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id           text PRIMARY KEY,
    category     text NOT NULL,
    email        text NOT NULL DEFAULT '',
    event_id     text,
    status       text NOT NULL,
    submitted_at timestamptz NOT NULL,
    payload      jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_category_email_idx
    ON submissions (category, email);
CREATE INDEX IF NOT EXISTS submissions_event_idx
    ON submissions (event_id) WHERE event_id IS NOT NULL;
`

// Open connects, pings and ensures the submissions schema exists.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply submissions schema: %w", err)
	}

	return pool, nil
}
