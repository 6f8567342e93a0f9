// Package sqlite implements the repository interfaces on an embedded SQLite
// database file.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so the desktop binary cross-compiles
// without a C toolchain.
//
// ONE CONNECTION, ONE GUARD:
// The store keeps exactly one connection open (SetMaxOpenConns(1)) and every
// repository call goes through withConn, which holds an exclusive guard for
// the duration of a single statement. At most one statement runs at a time no
// matter how many callers are waiting. ":memory:" databases live as long as
// that connection, so each test gets its own isolated store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB owns the database connection shared by the preset and project repositories.
//
// The guard is a one-slot channel rather than a sync.Mutex so that callers
// waiting for it can give up when their context is cancelled.
type DB struct {
	conn  *sql.DB
	path  string
	guard chan struct{}

	// now is the clock; last is the previous timestamp handed out.
	// Both are only touched while the guard is held.
	now  func() time.Time
	last time.Time
}

// New opens (creating if absent) the database at dbPath and makes sure the
// schema exists.
//
// dbPath examples:
//   - "/home/me/.config/shader-live-coding/shader_live_coding.db"
//   - ":memory:" for tests
//
// Any failure here is fatal to the store: New returns no DB and the caller
// decides whether to exit or retry.
func New(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}

	if !isMemory(dbPath) && !strings.HasPrefix(dbPath, "file:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating database directory %s: %w", dir, err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	// An idle in-memory connection must never be recycled: closing it drops the database.
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	db := &DB{
		conn:  conn,
		path:  dbPath,
		guard: make(chan struct{}, 1),
		now:   time.Now,
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the path the store was opened with.
func (db *DB) Path() string {
	return db.path
}

// Ping checks that the connection is still usable.
func (db *DB) Ping(ctx context.Context) error {
	return db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		return conn.PingContext(ctx)
	})
}

// withConn runs fn while holding the store's exclusive guard.
//
// Waiting for the guard honours ctx. Once the guard is held the statement is
// run with a context detached from ctx's cancellation: an in-flight statement
// always runs to completion. The guard is released on every return path,
// including a panic inside fn.
func (db *DB) withConn(ctx context.Context, fn func(ctx context.Context, conn *sql.DB) error) error {
	select {
	case db.guard <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-db.guard }()

	return fn(context.WithoutCancel(ctx), db.conn)
}

// timestamp reads the clock once for a save. The result is strictly later
// than any timestamp previously handed out by this store, so updated_at always
// advances even if two saves land on the same clock tick.
//
// Must be called with the guard held.
func (db *DB) timestamp() time.Time {
	// Round(0) drops the monotonic reading; only the wall clock is stored.
	now := db.now().Round(0).UTC()
	if !now.After(db.last) {
		now = db.last.Add(time.Nanosecond)
	}
	db.last = now
	return now
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
