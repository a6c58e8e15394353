// Package sqlite implements the repository interfaces on an embedded SQLite
// database (modernc.org/sqlite, pure Go driver).
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB wraps a sql.DB pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			location      TEXT NOT NULL DEFAULT '',
			crops         TEXT NOT NULL DEFAULT '',
			experience    TEXT NOT NULL DEFAULT '',
			avatar        TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// One row per follow edge. The primary key makes the edge set
	// duplicate-suppressing: re-following is an INSERT OR IGNORE no-op.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_edges (
			follower_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			followed_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (follower_id, followed_id)
		);
		CREATE INDEX IF NOT EXISTS idx_user_edges_followed ON user_edges(followed_id);
	`)
	if err != nil {
		return fmt.Errorf("creating user_edges table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS inbox_messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			from_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			body       TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_inbox_messages_user ON inbox_messages(user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating inbox_messages table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS market_prices (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			commodity   TEXT NOT NULL,
			market      TEXT NOT NULL,
			state       TEXT NOT NULL,
			district    TEXT NOT NULL DEFAULT '',
			date        TEXT NOT NULL,
			modal_price REAL NOT NULL,
			min_price   REAL NOT NULL,
			max_price   REAL NOT NULL,
			variety     TEXT NOT NULL DEFAULT '',
			grade       TEXT NOT NULL DEFAULT '',
			source      TEXT NOT NULL DEFAULT 'AGMARKNET',
			fetched_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_market_prices_lookup
			ON market_prices(commodity, market, date DESC);
	`)
	if err != nil {
		return fmt.Errorf("creating market_prices table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS crop_recommendations (
			id               TEXT PRIMARY KEY,
			user_id          TEXT REFERENCES users(id) ON DELETE SET NULL,
			soil_type        TEXT NOT NULL,
			last_crop        TEXT NOT NULL,
			years_used       INTEGER NOT NULL,
			season           TEXT NOT NULL DEFAULT 'Kharif',
			recommended_crop TEXT NOT NULL,
			notes            TEXT NOT NULL DEFAULT '',
			confidence       INTEGER NOT NULL DEFAULT 75,
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating crop_recommendations table: %w", err)
	}

	return nil
}
