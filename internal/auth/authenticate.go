package auth

import (
	"errors"

	"gorm.io/gorm"

	"portaria/internal/apperrs"
	"portaria/internal/models"
)

// Authenticate validates a login attempt. It returns the account and the
// effective bound address for the session: accounts bound to the "livre"
// sentinel are pinned to the caller's actual address for the session's life.
func Authenticate(db *gorm.DB, username, password, callerAddr string) (models.Account, string, error) {
	var acct models.Account
	err := db.First(&acct, "username = ?", models.NormalizeUsername(username)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Account{}, "", apperrs.ErrNotFound
		}
		return models.Account{}, "", err
	}
	if !VerifyPassword(acct.Password, password) {
		return models.Account{}, "", apperrs.ErrInvalidCredential
	}
	addr := callerAddr
	if acct.BoundIP != models.AnyAddress {
		if acct.BoundIP != callerAddr {
			return models.Account{}, "", apperrs.ErrAddressMismatch
		}
		addr = acct.BoundIP
	}
	return acct, addr, nil
}

// Authorize re-reads the account row and reports whether it carries the named
// permission. Reading the row on every check, instead of trusting anything
// cached in the session, makes revocation take effect on the next request.
func Authorize(db *gorm.DB, username string, perm models.Permission) bool {
	if username == "" {
		return false
	}
	var acct models.Account
	if err := db.First(&acct, "username = ?", username).Error; err != nil {
		return false
	}
	return acct.Has(perm)
}
