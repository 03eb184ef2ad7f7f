package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// Tokens that are not JWTs or carry no exp claim report ok=false.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// LogExpiry warns when the token is already expired or about to expire.
// The token is still used; the service decides whether to accept it.
func LogExpiry(token string) {
	expiresAt, ok := ExpiresAt(token)
	if !ok {
		return
	}
	remaining := time.Until(expiresAt)
	switch {
	case remaining <= 0:
		logrus.WithField("expired_at", expiresAt).Warn("auth token has expired")
	case remaining < 10*time.Minute:
		logrus.WithField("expires_at", expiresAt).Warn("auth token expires soon")
	default:
		logrus.WithField("expires_at", expiresAt).Debug("auth token loaded")
	}
}
