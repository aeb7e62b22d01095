package connect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	go_ora "github.com/sijms/go-ora/v2"
)

// DefaultMaxConns bounds the pool. A dump only ever holds one connection.
const DefaultMaxConns = 4

// URL builds the go-ora connection URL.
func (cs ConnectString) URL() string {
	return go_ora.BuildUrl(cs.Host, cs.Port, cs.Service, cs.User, cs.Password, nil)
}

// Open opens a bounded pool and checks that the database answers.
func Open(ctx context.Context, cs ConnectString, maxConns int) (*sql.DB, error) {
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	slog.Debug("opening oracle connection pool", "target", cs.String(), "maxConns", maxConns)

	db, err := sql.Open("oracle", cs.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("oracle connection ready", "target", cs.String())
	return db, nil
}
