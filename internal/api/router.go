package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/store"
)

// NewRouter creates the API router with all endpoints registered. A nil
// revoker keeps the revocation list in the database.
func NewRouter(db *sql.DB, jwtSecret string, revoker auth.Revoker) http.Handler {
	if revoker == nil {
		revoker = store.Revocations{DB: db}
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Revoker: revoker}
	usersHandler := &UsersHandler{DB: db, JWTSecret: jwtSecret, Revoker: revoker}
	collectionHandler := &CollectionHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, revoker)

	// Public.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/catalog", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, catalog.Get())
	})

	// Account.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("PUT /api/auth/email", authMW(http.HandlerFunc(authHandler.ChangeEmail)))
	mux.Handle("GET /api/profile", authMW(http.HandlerFunc(usersHandler.GetProfile)))
	mux.Handle("PUT /api/profile", authMW(http.HandlerFunc(usersHandler.UpdateProfile)))

	// Checks method and token itself so a wrong method is a 405 before any 401.
	mux.HandleFunc("/api/delete-user", usersHandler.DeleteUser)

	// Collection.
	mux.Handle("GET /api/collection_items", authMW(http.HandlerFunc(collectionHandler.List)))
	mux.Handle("POST /api/collection_items", authMW(http.HandlerFunc(collectionHandler.Create)))
	mux.Handle("PATCH /api/collection_items/{id}", authMW(http.HandlerFunc(collectionHandler.Update)))
	mux.Handle("DELETE /api/collection_items/{id}", authMW(http.HandlerFunc(collectionHandler.Delete)))
	mux.Handle("PUT /api/collection_items/{id}/image", authMW(http.HandlerFunc(collectionHandler.UploadImage)))
	mux.Handle("GET /api/collection_items/{id}/image", authMW(http.HandlerFunc(collectionHandler.GetImage)))

	return mux
}
