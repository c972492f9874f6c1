package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portaria/internal/apperrs"
	"portaria/internal/auth"
	"portaria/internal/models"
)

func accountID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrs.ErrNotFound
	}
	return id, nil
}

func ListUsers(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var accts []models.Account
		if err := db.Order("username").Find(&accts).Error; err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, accts)
	}
}

func CreateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		username := models.NormalizeUsername(r.PostFormValue("username"))
		senha := r.PostFormValue("senha")
		if username == "" || senha == "" {
			respondError(w, apperrs.ErrValidation)
			return
		}
		var existing models.Account
		if err := db.First(&existing, "username = ?", username).Error; err == nil {
			respondError(w, apperrs.ErrDuplicateUsername)
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, err)
			return
		}
		hash, err := auth.HashPassword(senha)
		if err != nil {
			respondError(w, err)
			return
		}
		ip := r.PostFormValue("ip")
		if ip == "" {
			ip = models.AnyAddress
		}
		acct := models.Account{
			Username:  username,
			Password:  hash,
			BoundIP:   ip,
			IsAdmin:   bool(models.ParseYesNo(r.PostFormValue("is_admin"))),
			CanInsert: models.ParseYesNo(r.PostFormValue("libinserir")),
			CanAlter:  models.ParseYesNo(r.PostFormValue("libalterar")),
			CanDelete: models.ParseYesNo(r.PostFormValue("libexcluir")),
			CanQuery:  models.ParseYesNo(r.PostFormValue("libconsulta")),
		}
		if err := db.Create(&acct).Error; err != nil {
			lg.Errorw("account create failed", "username", username, "error", err)
			respondError(w, err)
			return
		}
		lg.Infow("account created", "username", username, "by", auth.Username(r.Context()))
		respondJSON(w, map[string]any{"id": acct.ID})
	}
}

// UpdateUser rewrites username, bound address, the administrator flag and the
// permission flags. The password is never touched here.
func UpdateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := accountID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		username := models.NormalizeUsername(r.PostFormValue("username"))
		if username == "" {
			respondError(w, apperrs.ErrValidation)
			return
		}
		var acct models.Account
		if err := db.First(&acct, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(w, apperrs.ErrNotFound)
				return
			}
			respondError(w, err)
			return
		}
		acct.Username = username
		acct.BoundIP = r.PostFormValue("ip")
		if acct.BoundIP == "" {
			acct.BoundIP = models.AnyAddress
		}
		acct.IsAdmin = bool(models.ParseYesNo(r.PostFormValue("is_admin")))
		acct.CanInsert = models.ParseYesNo(r.PostFormValue("libinserir"))
		acct.CanAlter = models.ParseYesNo(r.PostFormValue("libalterar"))
		acct.CanDelete = models.ParseYesNo(r.PostFormValue("libexcluir"))
		acct.CanQuery = models.ParseYesNo(r.PostFormValue("libconsulta"))
		if err := db.Save(&acct).Error; err != nil {
			lg.Errorw("account update failed", "id", id, "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, map[string]any{"updated": true})
	}
}

func ChangeUserPassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := accountID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		senha := r.PostFormValue("senha")
		confirm := r.PostFormValue("senha_confirmacao")
		if senha == "" {
			respondError(w, apperrs.ErrValidation)
			return
		}
		if senha != confirm {
			respondError(w, apperrs.ErrConfirmationMismatch)
			return
		}
		hash, err := auth.HashPassword(senha)
		if err != nil {
			respondError(w, err)
			return
		}
		tx := db.Model(&models.Account{}).Where("id = ?", id).Update("senha", hash)
		if tx.Error != nil {
			lg.Errorw("password change failed", "id", id, "error", tx.Error)
			respondError(w, tx.Error)
			return
		}
		if tx.RowsAffected == 0 {
			respondError(w, apperrs.ErrNotFound)
			return
		}
		lg.Infow("password changed", "id", id, "by", auth.Username(r.Context()))
		respondJSON(w, map[string]any{"updated": true})
	}
}

// DeleteUser removes an account. The account behind the acting session is
// protected from deleting itself.
func DeleteUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := accountID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var acct models.Account
		if err := db.First(&acct, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(w, apperrs.ErrNotFound)
				return
			}
			respondError(w, err)
			return
		}
		if acct.Username == auth.Username(r.Context()) {
			respondError(w, apperrs.ErrSelfDeletionForbidden)
			return
		}
		if err := db.Delete(&models.Account{}, id).Error; err != nil {
			lg.Errorw("account delete failed", "id", id, "error", err)
			respondError(w, err)
			return
		}
		lg.Infow("account deleted", "username", acct.Username, "by", auth.Username(r.Context()))
		respondJSON(w, map[string]any{"deleted": true})
	}
}
