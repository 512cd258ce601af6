package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/service"
	"github.com/Dan9191/expense-service/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	// SessionCookie carries the session identifier for browser clients
	SessionCookie = "sid"
	// SessionHeader carries the session identifier for API clients
	SessionHeader = "X-Session-ID"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	sessionIDKey contextKey = "sessionID"
)

// SessionID extracts the session identifier from the cookie, falling back to
// the header
func SessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(SessionHeader)
}

// UserIDFromContext returns the user the request was authorized for
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// SessionIDFromContext returns the session the request was authorized with
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}

// WithUserID returns ctx carrying userID
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// AuthMiddleware lets a request through only when its session is both
// flagged authenticated and holds a token, and that token is a valid JWT.
// Denied browser requests are redirected to the login route with the
// requested location in "from"; other clients get 401 with the same target.
func AuthMiddleware(reg *session.Registry, cfg *config.Config, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := session.LocationFromURL(r.URL)
			id := SessionID(r)

			m, ok := reg.Get(id)
			if !ok {
				deny(w, r, session.Deny(reg.LoginRoute(), loc))
				return
			}
			decision := m.Authorize(m.Authenticated(), loc)
			if !decision.Allowed {
				deny(w, r, decision)
				return
			}

			token, _ := m.Token()
			userID, err := service.ParseToken(token, cfg.JWTSecret)
			if err != nil {
				log.Warnf("Rejected session %s: %v", id, err)
				deny(w, r, session.Deny(reg.LoginRoute(), loc))
				return
			}

			m.Touch()
			ctx := WithUserID(r.Context(), userID)
			ctx = context.WithValue(ctx, sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, d session.Decision) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, d.RedirectURL(), http.StatusSeeOther)
		return
	}
	from := ""
	if d.PreservedState != nil {
		from = d.PreservedState.String()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":    "unauthorized",
		"redirect": d.RedirectURL(),
		"from":     from,
	})
}
