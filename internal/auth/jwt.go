package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sessionTTL() time.Duration {
	if s := os.Getenv("SESSION_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 12 * time.Hour
}

// Sign wraps a server-side session id in an HS256 token. The token is only a
// tamper-evident carrier for the cookie; the session table stays authoritative.
func Sign(sessionID string) (string, error) {
	key := []byte(os.Getenv("JWT_SECRET"))
	claims := jwt.MapClaims{
		"jti": sessionID,
		"exp": time.Now().Add(sessionTTL()).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// Verify validates a signed cookie value and returns the session id it carries.
func Verify(tokenStr string) (string, error) {
	key := []byte(os.Getenv("JWT_SECRET"))
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	jti, _ := mapc["jti"].(string)
	if jti == "" {
		return "", errors.New("missing session id")
	}
	return jti, nil
}
