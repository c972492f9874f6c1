package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"portaria/internal/apperrs"
	"portaria/internal/auth"
	"portaria/internal/models"
)

// Index is the login entry point. With a live session it redirects to the
// dashboard; otherwise it returns the usernames for the login dropdown.
func Index(db *gorm.DB, store *auth.SessionStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(auth.CookieName); err == nil {
			if _, ok := store.Resolve(c.Value); ok {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
		}
		var usernames []string
		if err := db.Model(&models.Account{}).Distinct().Order("username").
			Pluck("username", &usernames).Error; err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, map[string]any{"usuarios": usernames})
	}
}

func Login(db *gorm.DB, store *auth.SessionStore, limiter *auth.LoginLimiter, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		username := models.NormalizeUsername(r.PostFormValue("username"))
		senha := r.PostFormValue("senha")
		if !limiter.Allow(username) {
			respondError(w, apperrs.ErrTooManyAttempts)
			return
		}
		acct, addr, err := auth.Authenticate(db, username, senha, auth.ClientAddr(r))
		if err != nil {
			lg.Infow("login refused", "username", username, "reason", err)
			respondError(w, err)
			return
		}
		sess, token, err := store.Create(acct.Username, acct.IsAdmin, addr)
		if err != nil {
			respondError(w, err)
			return
		}
		auth.SetCookie(w, token, sess.ExpiresAt)
		lg.Infow("login", "username", acct.Username, "address", addr)
		respondJSON(w, map[string]any{"username": acct.Username, "is_admin": acct.IsAdmin})
	}
}

func Logout(store *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(auth.CookieName); err == nil {
			store.Delete(c.Value)
		}
		auth.ClearCookie(w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
