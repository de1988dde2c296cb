// Package engine provides a database engine for the storage. It wraps sqlx.DB with sqlite specifics,
// like connection url parsing, pragmas and locking.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver loaded here
)

// Type is a type of database engine
type Type string

// enum of supported database engines
const (
	Unknown Type = ""
	Sqlite  Type = "sqlite"
)

// SQL is a wrapper for sqlx.DB with type.
type SQL struct {
	sqlx.DB
	dbType Type // type of the database engine
}

// New makes a database engine from the connection url. Sqlite is the only supported engine,
// the url is a file name, optionally with "file:", "file://" or "sqlite://" prefix, or ":memory:".
func New(ctx context.Context, connURL string) (*SQL, error) {
	if connURL == "" {
		return &SQL{}, fmt.Errorf("connection URL is empty")
	}
	switch {
	case connURL == ":memory:":
		return NewSqlite(ctx, connURL)
	case strings.HasPrefix(connURL, "sqlite://"):
		return NewSqlite(ctx, strings.TrimPrefix(connURL, "sqlite://"))
	case strings.HasPrefix(connURL, "file://"):
		return NewSqlite(ctx, strings.TrimPrefix(connURL, "file://"))
	case strings.HasPrefix(connURL, "file:"):
		return NewSqlite(ctx, strings.TrimPrefix(connURL, "file:"))
	case strings.HasSuffix(connURL, ".sqlite") || strings.HasSuffix(connURL, ".db"):
		return NewSqlite(ctx, connURL)
	}
	return &SQL{}, fmt.Errorf("unsupported database type in %q", connURL)
}

// NewSqlite creates a new sqlite database
func NewSqlite(ctx context.Context, file string) (*SQL, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", file)
	if err != nil {
		return &SQL{}, err
	}
	if file == ":memory:" {
		db.SetMaxOpenConns(1) // each connection has its own in-memory database
	}
	if err := setSqlitePragma(ctx, db); err != nil {
		return &SQL{}, err
	}
	return &SQL{DB: *db, dbType: Sqlite}, nil
}

// RWLocker serializes access to the engine, sqlite allows a single writer
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

// NoopLocker is a locker for an engine without a connection, all calls do nothing
type NoopLocker struct{}

func (NoopLocker) Lock()    {} //nolint:revive // no-op
func (NoopLocker) Unlock()  {} //nolint:revive // no-op
func (NoopLocker) RLock()   {} //nolint:revive // no-op
func (NoopLocker) RUnlock() {} //nolint:revive // no-op

// Type returns the database engine type
func (e *SQL) Type() Type {
	return e.dbType
}

// MakeLock creates a new lock for the database engine
func (e *SQL) MakeLock() RWLocker {
	if e.dbType == Sqlite {
		return new(sync.RWMutex) // sqlite need locking
	}
	return &NoopLocker{}
}

func setSqlitePragma(ctx context.Context, db *sqlx.DB) error {
	pragmas := []struct{ name, value string }{
		{"busy_timeout", "5000"},
		{"synchronous", "NORMAL"},
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, "PRAGMA "+p.name+" = "+p.value); err != nil {
			return fmt.Errorf("failed to set pragma %s: %w", p.name, err)
		}
	}
	return nil
}

// InitDB initializes db table with a schema and handles migration in a transaction
func InitDB(ctx context.Context, db *SQL, tableName, schema string, migrateFn func(context.Context, *sqlx.Tx) error) error {
	if db == nil {
		return fmt.Errorf("db connection is nil")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", tableName)
	if err != nil {
		return fmt.Errorf("failed to check for %s table existence: %w", tableName, err)
	}

	if exists == 0 {
		// create schema if it doesn't exist, no migration needed
		if _, err = tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if exists > 0 && migrateFn != nil {
		if err = migrateFn(ctx, tx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", tableName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
