package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/erazemk/zbirka/internal/auth"
)

type webContextKey string

const (
	webSessionKey webContextKey = "websession"
	webClaimsKey  webContextKey = "webclaims"
)

const tokenCookie = "token"

// CookieAuthMiddleware validates the JWT from the cookie, checks token
// revocation, and adds the session to the context.
func CookieAuthMiddleware(secret string, revoker auth.Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			session, claims, err := auth.Authenticate(r.Context(), secret, revoker, cookie.Value)
			if err != nil {
				slog.Debug("rejecting session cookie", "error", err)
				clearAuthCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webSessionKey, session)
			ctx = context.WithValue(ctx, webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetSession retrieves the signed-in session from web context.
func GetSession(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(webSessionKey).(*auth.Session)
	return s
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}
