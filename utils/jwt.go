package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// The backend signs session tokens; this service never holds the key, so
// tokens are only inspected, not verified. The backend stays the authority.

// HashToken returns the hex SHA-256 of a token, used to name it in logs.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// InspectToken parses a token without verifying its signature and returns its claims.
func InspectToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpired reports whether the token carries an "exp" claim in the past.
// Opaque or unparsable tokens are never considered expired here.
func TokenExpired(tokenString string, now time.Time) bool {
	claims, err := InspectToken(tokenString)
	if err != nil {
		return false
	}
	if _, ok := claims["exp"]; !ok {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), true)
}

// ExtractIDFromToken extracts the subject (user id) from a token string.
func ExtractIDFromToken(tokenString string) (string, error) {
	claims, err := InspectToken(tokenString)
	if err != nil {
		return "", err
	}

	for _, key := range []string{"sub", "userId", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", errors.New("token does not contain a subject claim")
}
