package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// The journal is the only client and writes from one goroutine.
const (
	maxJournalConns     = 2
	journalConnIdleTime = 5 * time.Minute
)

// NewDB connects to the journal database and checks it answers.
func NewDB(ctx context.Context, uri string) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parse journal database uri: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(maxJournalConns)
	db.SetMaxIdleConns(maxJournalConns)
	db.SetConnMaxIdleTime(journalConnIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reach journal database at %s:%d: %w", connCfg.Host, connCfg.Port, err)
	}
	return db, nil
}

func CloseDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close journal database", "error", err)
	}
}
