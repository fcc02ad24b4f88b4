package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/model"
)

// Account performs the signed-out and account-level calls of the JSON API.
type Account struct {
	baseURL string
	client  *http.Client
}

// NewAccount returns an account client for the server at baseURL.
func NewAccount(baseURL string) *Account {
	return &Account{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: RequestTimeout},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and returns its session.
func (a *Account) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	var s auth.Session
	if err := call(ctx, a.client, http.MethodPost, a.baseURL+"/api/auth/signup", "", credentials{email, password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SignIn exchanges credentials for a session.
func (a *Account) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	var s auth.Session
	if err := call(ctx, a.client, http.MethodPost, a.baseURL+"/api/auth/login", "", credentials{email, password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SignOut revokes the session's token.
func (a *Account) SignOut(ctx context.Context, s *auth.Session) error {
	if s == nil {
		return ErrNotAuthenticated
	}
	return call(ctx, a.client, http.MethodPost, a.baseURL+"/api/auth/logout", s.Token, nil, nil)
}

// Profile returns the session user's profile.
func (a *Account) Profile(ctx context.Context, s *auth.Session) (*model.Profile, error) {
	if s == nil {
		return nil, ErrNotAuthenticated
	}
	var p model.Profile
	if err := call(ctx, a.client, http.MethodGet, a.baseURL+"/api/profile", s.Token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteAccount removes the session user together with their items.
func (a *Account) DeleteAccount(ctx context.Context, s *auth.Session) error {
	if s == nil {
		return ErrNotAuthenticated
	}
	return call(ctx, a.client, http.MethodPost, a.baseURL+"/api/delete-user", s.Token, nil, nil)
}
