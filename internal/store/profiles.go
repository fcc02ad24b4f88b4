package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zbirka/internal/model"
)

// GetProfile returns a user's profile, or nil if it does not exist.
func GetProfile(ctx context.Context, db *sql.DB, id string) (*model.Profile, error) {
	p := &model.Profile{}
	var avatar sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, avatar_url, created_at, updated_at FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Username, &avatar, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p.AvatarURL = avatar.String
	return p, nil
}

// UpdateUsername sets a user's display name.
func UpdateUsername(ctx context.Context, db *sql.DB, id, username string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE profiles SET username = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		username, id,
	)
	if err != nil {
		return fmt.Errorf("updating username: %w", err)
	}
	return nil
}
