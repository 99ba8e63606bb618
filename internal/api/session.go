package api

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

const sessionCookieName = "session_id"

// Thirty days, matching the cookie-based bookkeeping this service replaces
// user accounts with.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// SessionMiddleware assigns an anonymous session id to every request,
// minting one (cookie + user_sessions row) when the browser has none. The
// generation core never reads sessions; they exist for the progress ledger.
func (h *APIHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
			if err := h.dbStore.TouchSession(sessionID); err != nil {
				log.Printf("Failed to touch session %.8s: %v", sessionID, err)
			}
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
			})
			if err := h.dbStore.CreateSession(sessionID); err != nil {
				log.Printf("Failed to persist new session %.8s: %v", sessionID, err)
			}
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
