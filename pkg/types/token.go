package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt extracts the expiry claim from a sync service access token
// without verifying its signature (the backend owns verification; we only
// need the timestamp for proactive refresh decisions).
func TokenExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpiringSoon reports whether the token expires within the window.
func TokenExpiringSoon(token string, window time.Duration) bool {
	exp, ok := TokenExpiresAt(token)
	if !ok {
		// No exp claim: don't attempt proactive refresh.
		return false
	}
	return time.Until(exp) <= window
}
