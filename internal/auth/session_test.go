package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memRevoker struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func (m *memRevoker) Revoke(_ context.Context, jti string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = make(map[string]time.Time)
	}
	m.ids[jti] = exp
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[jti]
	return ok, nil
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	revoker := &memRevoker{}
	token, _ := GenerateToken("secret", "user-1", "ana@example.com")

	session, claims, err := Authenticate(ctx, "secret", revoker, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if session.UserID != "user-1" || session.Email != "ana@example.com" || session.Token != token {
		t.Errorf("session = %+v", session)
	}

	if err := Revoke(ctx, revoker, claims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, _, err := Authenticate(ctx, "secret", revoker, token); !errors.Is(err, ErrRevoked) {
		t.Errorf("expected ErrRevoked after revoke, got %v", err)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	if _, _, err := Authenticate(context.Background(), "secret", nil, "garbage"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestIssue(t *testing.T) {
	s, err := Issue("secret", "user-9", "mia@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if s.UserID != "user-9" || s.Email != "mia@example.com" {
		t.Errorf("session = %+v", s)
	}
	claims, err := ValidateToken("secret", s.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-9" {
		t.Errorf("claims user = %q", claims.UserID)
	}
}
