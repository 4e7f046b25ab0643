package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/session"
)

const sessionCookieName = "ministore_session"

type ctxKey int

const (
	tokenCtxKey ctxKey = iota
	clientCtxKey
)

// SessionMiddleware ensures every request carries a session token (minting a
// cookie on first contact) and, when the token maps to a logged-in client,
// loads that client into the request context.
func SessionMiddleware(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				token = cookie.Value
			} else {
				token = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(7 * 24 * time.Hour),
				})
			}

			ctx := context.WithValue(r.Context(), tokenCtxKey, token)

			if client, err := store.GetClient(ctx, token); err == nil {
				ctx = context.WithValue(ctx, clientCtxKey, client)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(ctx context.Context) string {
	if token, ok := ctx.Value(tokenCtxKey).(string); ok {
		return token
	}
	return ""
}

func clientFromContext(ctx context.Context) *domain.Client {
	if client, ok := ctx.Value(clientCtxKey).(*domain.Client); ok {
		return client
	}
	return nil
}
