package db

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	for _, table := range []string{"users", "profiles", "collection_items", "revoked_tokens", "settings"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestDB(t)

	var on int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if on != 1 {
		t.Error("expected foreign_keys to be enabled")
	}
}

func TestTimesCompareWithCurrentTimestamp(t *testing.T) {
	database := NewTestDB(t)

	past := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	if _, err := database.Exec(`CREATE TABLE times (at DATETIME)`); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Exec(`INSERT INTO times (at) VALUES (?)`, past); err != nil {
		t.Fatal(err)
	}

	var got time.Time
	var before bool
	err := database.QueryRow(`SELECT at, at < CURRENT_TIMESTAMP FROM times`).Scan(&got, &before)
	if err != nil {
		t.Fatalf("reading time: %v", err)
	}
	if !got.Equal(past) {
		t.Errorf("read %v, want %v", got, past)
	}
	if !before {
		t.Error("expected stored time to sort before CURRENT_TIMESTAMP")
	}
}

func TestNegativePricesRejected(t *testing.T) {
	database := NewTestDB(t)
	if _, err := database.Exec(`INSERT INTO users (id, email, password_hash) VALUES ('u1', 'ana@example.com', 'x')`); err != nil {
		t.Fatal(err)
	}

	insert := `INSERT INTO collection_items (id, user_id, character, series, item, purchase_price, sell_price)
	           VALUES (?, 'u1', 'Labubu', 'Have A Seat', 'Sisi', ?, ?)`
	tests := []struct {
		purchase string
		sell     any
		wantErr  bool
	}{
		{"10", nil, false},
		{"0", "0", false},
		{"-5", nil, true},
		{"10", "-1", true},
	}
	for i, tt := range tests {
		_, err := database.Exec(insert, fmt.Sprintf("item-%d", i), tt.purchase, tt.sell)
		if (err != nil) != tt.wantErr {
			t.Errorf("insert purchase=%s sell=%v: err = %v, wantErr %v", tt.purchase, tt.sell, err, tt.wantErr)
		}
	}

	if _, err := database.Exec(`UPDATE collection_items SET sell_price = '-3' WHERE id = 'item-0'`); err == nil {
		t.Error("expected update to a negative sell price to fail")
	}
}

func TestPriceTriggersOnExistingTable(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	// A collection_items table from before the price CHECKs existed.
	_, err = database.Exec(`CREATE TABLE collection_items (
		id TEXT PRIMARY KEY, user_id TEXT NOT NULL, character TEXT NOT NULL,
		series TEXT NOT NULL, item TEXT NOT NULL, purchase_price TEXT NOT NULL,
		sell_price TEXT, image TEXT, image_data BLOB, image_mime TEXT,
		status TEXT NOT NULL DEFAULT 'Owned', notes TEXT,
		date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatal(err)
	}
	if err := EnsureSchema(database); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	_, err = database.Exec(`INSERT INTO collection_items (id, user_id, character, series, item, purchase_price)
	                        VALUES ('a', 'u1', 'Labubu', 'Have A Seat', 'Sisi', '-5')`)
	if err == nil || !strings.Contains(err.Error(), "prices must not be negative") {
		t.Errorf("expected trigger to reject negative price, got %v", err)
	}
}
