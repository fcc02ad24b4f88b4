package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/store"
)

// UsersHandler handles the signed-in user's profile and account deletion.
type UsersHandler struct {
	DB        *sql.DB
	JWTSecret string
	Revoker   auth.Revoker
}

type updateProfileRequest struct {
	Username string `json:"username"`
}

// GetProfile handles GET /api/profile.
func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	profile, err := store.GetProfile(r.Context(), h.DB, session.UserID)
	if err != nil {
		slog.Error("failed to get profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if profile == nil {
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		jsonError(w, http.StatusBadRequest, "username required")
		return
	}

	if err := store.UpdateUsername(r.Context(), h.DB, session.UserID, username); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	profile, _ := store.GetProfile(r.Context(), h.DB, session.UserID)
	jsonResponse(w, http.StatusOK, profile)
}

// DeleteUser handles /api/delete-user. It removes the caller's account,
// profile and collection, and revokes the token used for the call.
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}
	session, claims, err := auth.Authenticate(r.Context(), h.JWTSecret, h.Revoker, token)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, session.UserID); err != nil {
		slog.Error("failed to delete user", "user", session.UserID, "error", err)
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := auth.Revoke(r.Context(), h.Revoker, claims); err != nil {
		slog.Warn("failed to revoke deleted user's token", "error", err)
	}

	slog.Info("user deleted account", "user", session.UserID)
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}
