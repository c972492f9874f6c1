package auth

import (
	"net"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"portaria/internal/models"
)

// SessionAuth resolves the session cookie and attaches the caller's Identity
// to the request context.
func SessionAuth(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			sess, ok := store.Resolve(c.Value)
			if !ok {
				ClearCookie(w)
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}
			id := Identity{Username: sess.Username, IsAdmin: sess.IsAdmin, Address: sess.Address}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequirePermission gates a route on one of the per-account flags, consulting
// the usuarios row on every request.
func RequirePermission(db *gorm.DB, perm models.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorize(db, Username(r.Context()), perm) {
				http.Error(w, "permission denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route on the session's administrator flag. This is
// independent of the named permissions.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).IsAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientAddr extracts the caller's network address. chi's RealIP middleware
// rewrites RemoteAddr from X-Forwarded-For / X-Real-IP upstream of this.
func ClientAddr(r *http.Request) string {
	addr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.TrimSpace(addr)
}
