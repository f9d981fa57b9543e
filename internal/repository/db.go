package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Config carries what Open needs to reach the submission store.
type Config struct {
	DSN         string
	DialTimeout time.Duration
}

// Open connects to the submission store. Postgres DSNs go through the pgx
// stdlib driver; anything else is treated as a sqlite database path, which
// keeps single-binary deployments dependency-free.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
	}

	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database (%s): %w", driver, err)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database (%s): %w", driver, err)
	}

	logger.Info("database.connected", "driver", driver)
	return db, nil
}

const submissionsDDL = `
CREATE TABLE IF NOT EXISTS submissions (
	id             TEXT PRIMARY KEY,
	created_at     TIMESTAMP NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	transaction_id TEXT NOT NULL DEFAULT '',
	amount         TEXT NOT NULL DEFAULT '',
	record         TEXT NOT NULL
)`

// Migrate creates the submissions table if it does not exist. The DDL sticks
// to types sqlite and Postgres agree on.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, submissionsDDL); err != nil {
		return fmt.Errorf("migrate submissions: %w", err)
	}
	return nil
}
