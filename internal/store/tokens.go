package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Revocations keeps signed-out token IDs in the revoked_tokens table. A row
// only matters until the token it names would have expired anyway.
type Revocations struct {
	DB *sql.DB
}

// Revoke records jti as signed out until expiresAt and drops expired rows.
func (r Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
		 ON CONFLICT (jti) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	if _, err := r.Purge(ctx, time.Now()); err != nil {
		slog.Warn("failed to purge expired revocations", "error", err)
	}
	return nil
}

// IsRevoked reports whether jti is on the list and not yet expired.
func (r Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ? AND expires_at >= ?)`,
		jti, time.Now().UTC(),
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}

// Purge deletes revocations that expired before now and returns how many.
func (r Revocations) Purge(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging revocations: %w", err)
	}
	return result.RowsAffected()
}
