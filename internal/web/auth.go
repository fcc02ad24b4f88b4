package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

type authPage struct {
	PageData
	Error string
	Email string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &authPage{PageData: s.page(w, r, "Sign in")})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	fail := func(msg string) {
		s.Templates.Render(w, "login.html", &authPage{
			PageData: PageData{Title: "Sign in"},
			Error:    msg,
			Email:    email,
		})
	}

	if email == "" || password == "" {
		fail("Please enter your email and password.")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		fail("Sign in failed. Please try again.")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		fail("Invalid email or password.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Email)
	if err != nil {
		fail("Sign in failed. Please try again.")
		return
	}

	setAuthCookie(w, token)
	slog.Info("user logged in", "user", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &authPage{PageData: s.page(w, r, "Create account")})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	fail := func(msg string) {
		s.Templates.Render(w, "signup.html", &authPage{
			PageData: PageData{Title: "Create account"},
			Error:    msg,
			Email:    email,
		})
	}

	if email == "" {
		fail("Please fill in all fields.")
		return
	}
	if err := model.ValidatePasswordChange(password, confirm); err != nil {
		fail(capitalize(err.Error()) + ".")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fail("Sign up failed. Please try again.")
		return
	}
	user, err := store.CreateUser(r.Context(), s.DB, email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		fail("An account with this email already exists.")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		fail("Sign up failed. Please try again.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Email)
	if err != nil {
		fail("Sign up failed. Please try again.")
		return
	}

	setAuthCookie(w, token)
	slog.Info("user signed up", "user", user.ID)
	flashSuccess(w, "Welcome! Your collection is ready.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked so copies of the cookie
// stop working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if err := auth.Revoke(r.Context(), s.Revoker, claims); err != nil {
				slog.Error("failed to revoke token", "error", err)
			}
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// capitalize upper-cases the first letter of a validation message.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
