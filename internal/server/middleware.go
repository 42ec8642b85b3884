package server

import (
	"context"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geohunt/internal/store"
)

type ctxKey int

const (
	ctxKeyPlayer ctxKey = iota
	ctxKeyAdmin
)

const adminCookieName = "admin_session"

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// playerMiddleware validates the {player} URL parameter.
func playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := chi.URLParam(r, "player")
		if !playerIDPattern.MatchString(player) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "player id must be 1-64 letters, digits, '-' or '_'",
				Field: "player",
			})
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyPlayer, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminAuthMiddleware(admins Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			admin, err := admins.AdminFromSession(r.Context(), cookie.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func playerFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyPlayer).(string)
}

func adminFrom(r *http.Request) store.Admin {
	return r.Context().Value(ctxKeyAdmin).(store.Admin)
}
