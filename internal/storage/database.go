package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DB is the local store adapter. Every write to the synchronized tables goes
// through it so that updated_at stamping stays consistent.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock replaces the clock used to stamp created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string, opts ...Option) (*DB, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) nowMillis() int64 {
	return db.now().UnixMilli()
}

// GetMeta returns the value stored under key and whether it exists.
func (db *DB) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.GetContext(ctx, &value, `SELECT value FROM sync_meta WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read meta %s: %w", key, err)
	}
	return value, true, nil
}

// SetMeta stores value under key, replacing any previous value.
func (db *DB) SetMeta(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sync_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write meta %s: %w", key, err)
	}
	return nil
}
