package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/model"
)

// ItemRow is a collection_items row as the backend stores and serves it.
type ItemRow struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Character     string              `json:"character"`
	Series        string              `json:"series"`
	Item          string              `json:"item"`
	PurchasePrice decimal.Decimal     `json:"purchase_price"`
	SellPrice     decimal.NullDecimal `json:"sell_price"`
	Image         string              `json:"image"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes"`
	DateAdded     time.Time           `json:"date_added"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Fields maps collection_items column names to new values for a sparse update.
// Columns absent from the map are not written.
type Fields map[string]any

// Updatable lists the collection_items columns a client may change.
var Updatable = map[string]bool{
	"character":      true,
	"series":         true,
	"item":           true,
	"purchase_price": true,
	"sell_price":     true,
	"image":          true,
	"status":         true,
	"notes":          true,
}

const itemColumns = `id, user_id, character, series, item, purchase_price, sell_price,
	image, status, notes, date_added, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*ItemRow, error) {
	row := &ItemRow{}
	var image, notes sql.NullString
	err := s.Scan(&row.ID, &row.UserID, &row.Character, &row.Series, &row.Item,
		&row.PurchasePrice, &row.SellPrice, &image, &row.Status, &notes,
		&row.DateAdded, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	row.Image = image.String
	row.Notes = notes.String
	return row, nil
}

// nullable stores empty optional text as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// checkPrices rejects negative purchase or sell prices.
func checkPrices(purchase *decimal.Decimal, sell *decimal.NullDecimal) error {
	if purchase != nil && purchase.IsNegative() {
		return model.Invalid("purchase price must not be negative")
	}
	if sell != nil && sell.Valid && sell.Decimal.IsNegative() {
		return model.Invalid("sell price must not be negative")
	}
	return nil
}

// CreateItem inserts a new item for row.UserID. The id and timestamps are
// assigned here; a zero DateAdded defaults to now.
func CreateItem(ctx context.Context, db *sql.DB, row ItemRow) (*ItemRow, error) {
	if err := checkPrices(&row.PurchasePrice, &row.SellPrice); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	dateAdded := row.DateAdded
	if dateAdded.IsZero() {
		dateAdded = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO collection_items
		    (id, user_id, character, series, item, purchase_price, sell_price, image, status, notes, date_added)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, row.UserID, row.Character, row.Series, row.Item, row.PurchasePrice, row.SellPrice,
		nullable(row.Image), row.Status, nullable(row.Notes), dateAdded,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, row.UserID, id)
}

// GetItem returns one of a user's items, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, userID, id string) (*ItemRow, error) {
	row, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM collection_items WHERE id = ? AND user_id = ?`, id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return row, nil
}

// ListItems returns a user's items, newest first.
func ListItems(ctx context.Context, db *sql.DB, userID string) ([]ItemRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM collection_items
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []ItemRow
	for rows.Next() {
		row, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *row)
	}
	return items, rows.Err()
}

// UpdateItem writes only the given columns of one of a user's items. It
// reports whether the item exists.
func UpdateItem(ctx context.Context, db *sql.DB, userID, id string, fields Fields) (bool, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !Updatable[col] {
			return false, fmt.Errorf("updating item: column %q is not updatable", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var purchase *decimal.Decimal
	var sell *decimal.NullDecimal
	if v, ok := fields["purchase_price"].(decimal.Decimal); ok {
		purchase = &v
	}
	if v, ok := fields["sell_price"].(decimal.NullDecimal); ok {
		sell = &v
	}
	if err := checkPrices(purchase, sell); err != nil {
		return false, err
	}

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		set = append(set, col+" = ?")
		v := fields[col]
		if s, ok := v.(string); ok && (col == "image" || col == "notes") {
			v = nullable(s)
		}
		args = append(args, v)
	}
	args = append(args, id, userID)

	result, err := db.ExecContext(ctx,
		`UPDATE collection_items SET `+strings.Join(set, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return n > 0, nil
}

// DeleteItem removes one of a user's items. It reports whether the item existed.
func DeleteItem(ctx context.Context, db *sql.DB, userID, id string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM collection_items WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}

// ImagePath is the URL an uploaded item photo is served from.
func ImagePath(id string) string {
	return "/items/" + id + "/image"
}

// SetItemImage stores an uploaded photo and points the item's image at it.
func SetItemImage(ctx context.Context, db *sql.DB, userID, id string, image []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE collection_items SET image_data = ?, image_mime = ?, image = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		image, mime, ImagePath(id), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setting item image: %w", err)
	}
	return n > 0, nil
}

// GetItemImage returns an item's uploaded photo and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, userID, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image_data, image_mime FROM collection_items WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
