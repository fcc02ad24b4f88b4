package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS profiles (
    id         TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    username   TEXT NOT NULL DEFAULT '',
    avatar_url TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS collection_items (
    id             TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    character      TEXT NOT NULL,
    series         TEXT NOT NULL,
    item           TEXT NOT NULL,
    purchase_price TEXT NOT NULL CHECK (CAST(purchase_price AS REAL) >= 0),
    sell_price     TEXT CHECK (sell_price IS NULL OR CAST(sell_price AS REAL) >= 0),
    image          TEXT,
    image_data     BLOB,
    image_mime     TEXT,
    status         TEXT NOT NULL DEFAULT 'Owned' CHECK (status IN ('Owned', 'Wishlist', 'For Sale', 'Sold')),
    notes          TEXT,
    date_added     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_collection_items_user
    ON collection_items(user_id, created_at);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: profiles created before signup wrote one get an empty row.
	`INSERT OR IGNORE INTO profiles (id) SELECT id FROM users`,

	// Migration 2: tables created before the price CHECKs get the same rule
	// as triggers, since SQLite cannot add a CHECK to an existing table.
	`CREATE TRIGGER IF NOT EXISTS collection_items_price_insert
	 BEFORE INSERT ON collection_items
	 WHEN CAST(NEW.purchase_price AS REAL) < 0 OR CAST(NEW.sell_price AS REAL) < 0
	 BEGIN SELECT RAISE(ABORT, 'prices must not be negative'); END`,
	`CREATE TRIGGER IF NOT EXISTS collection_items_price_update
	 BEFORE UPDATE OF purchase_price, sell_price ON collection_items
	 WHEN CAST(NEW.purchase_price AS REAL) < 0 OR CAST(NEW.sell_price AS REAL) < 0
	 BEGIN SELECT RAISE(ABORT, 'prices must not be negative'); END`,
}

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
