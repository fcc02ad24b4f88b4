package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Session identifies the signed-in user. It is passed explicitly to whatever
// acts on the user's behalf; a nil *Session means nobody is signed in.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Revoker records and checks revoked token IDs.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ErrRevoked is returned for a token that was signed out.
var ErrRevoked = errors.New("token revoked")

// Authenticate validates a token and checks it against the revocation list.
func Authenticate(ctx context.Context, secret string, revoker Revoker, token string) (*Session, *Claims, error) {
	claims, err := ValidateToken(secret, token)
	if err != nil {
		return nil, nil, err
	}

	if claims.ID != "" && revoker != nil {
		revoked, err := revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("checking revocation: %w", err)
		}
		if revoked {
			return nil, nil, ErrRevoked
		}
	}

	return &Session{UserID: claims.UserID, Email: claims.Email, Token: token}, claims, nil
}

// Revoke adds the claims' token to the revocation list until it would have expired.
func Revoke(ctx context.Context, revoker Revoker, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	expiresAt := time.Now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return revoker.Revoke(ctx, claims.ID, expiresAt)
}

// Issue signs a fresh token for a user and returns its session.
func Issue(secret, userID, email string) (*Session, error) {
	token, err := GenerateToken(secret, userID, email)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: userID, Email: email, Token: token}, nil
}
