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

type profilePage struct {
	PageData
	Profile *model.Profile
	Email   string
}

// ProfilePage handles GET /profile.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	profile, err := store.GetProfile(r.Context(), s.DB, session.UserID)
	if err != nil {
		slog.Error("failed to get profile", "error", err)
	}
	if profile == nil {
		profile = &model.Profile{ID: session.UserID}
	}

	s.Templates.Render(w, "profile.html", &profilePage{
		PageData: s.page(w, r, "Profile"),
		Profile:  profile,
		Email:    session.Email,
	})
}

func (s *Server) backToProfile(w http.ResponseWriter, r *http.Request, kind, msg string) {
	setFlash(w, kind, msg)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// UsernameSubmit handles POST /profile/username.
func (s *Server) UsernameSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	username := strings.TrimSpace(r.FormValue("username"))
	if username == "" {
		s.backToProfile(w, r, "error", "Please enter a username.")
		return
	}

	if err := store.UpdateUsername(r.Context(), s.DB, session.UserID, username); err != nil {
		slog.Error("failed to update username", "error", err)
		s.backToProfile(w, r, "error", "Could not update your username.")
		return
	}
	s.backToProfile(w, r, "success", "Username updated.")
}

// EmailSubmit handles POST /profile/email. The current password is required
// and the session cookie is reissued for the new address.
func (s *Server) EmailSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.backToProfile(w, r, "error", "Please fill in all fields.")
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, session.UserID)
	if err != nil || user == nil {
		s.backToProfile(w, r, "error", "Could not update your email.")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.backToProfile(w, r, "error", "Password is incorrect.")
		return
	}

	err = store.UpdateUserEmail(r.Context(), s.DB, user.ID, email)
	if errors.Is(err, store.ErrEmailTaken) {
		s.backToProfile(w, r, "error", "That email is already in use.")
		return
	}
	if err != nil {
		slog.Error("failed to update email", "error", err)
		s.backToProfile(w, r, "error", "Could not update your email.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, email)
	if err == nil {
		if err := auth.Revoke(r.Context(), s.Revoker, GetWebClaims(r.Context())); err != nil {
			slog.Warn("failed to revoke previous token", "error", err)
		}
		setAuthCookie(w, token)
	}
	slog.Info("user changed email", "user", user.ID)
	s.backToProfile(w, r, "success", "Email updated.")
}

// PasswordSubmit handles POST /profile/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if current == "" {
		s.backToProfile(w, r, "error", "Please fill in all fields.")
		return
	}
	if err := model.ValidatePasswordChange(next, confirm); err != nil {
		s.backToProfile(w, r, "error", userMessage(err, "Invalid password."))
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, session.UserID)
	if err != nil || user == nil {
		s.backToProfile(w, r, "error", "Could not update your password.")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		s.backToProfile(w, r, "error", "Current password is incorrect.")
		return
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		s.backToProfile(w, r, "error", "Could not update your password.")
		return
	}
	if err := store.UpdateUserPassword(r.Context(), s.DB, user.ID, hash); err != nil {
		slog.Error("failed to update password", "error", err)
		s.backToProfile(w, r, "error", "Could not update your password.")
		return
	}

	slog.Info("user changed password", "user", user.ID)
	s.backToProfile(w, r, "success", "Password updated.")
}

// DeleteAccountSubmit handles POST /profile/delete. The user must type
// DELETE to confirm.
func (s *Server) DeleteAccountSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	if r.FormValue("confirm") != "DELETE" {
		s.backToProfile(w, r, "error", "Type DELETE to confirm.")
		return
	}

	if err := store.DeleteUser(r.Context(), s.DB, session.UserID); err != nil {
		slog.Error("failed to delete account", "user", session.UserID, "error", err)
		s.backToProfile(w, r, "error", "Could not delete your account.")
		return
	}
	if err := auth.Revoke(r.Context(), s.Revoker, GetWebClaims(r.Context())); err != nil {
		slog.Warn("failed to revoke deleted user's token", "error", err)
	}

	slog.Info("user deleted account", "user", session.UserID)
	clearAuthCookie(w)
	flashSuccess(w, "Your account has been deleted.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
