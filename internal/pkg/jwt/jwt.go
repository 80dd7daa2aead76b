// Package jwt wraps golang-jwt for the session tokens handed out at login.
package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
)

// Claims carries the authenticated student id as the registered subject,
// plus the standard iat/exp pair.
type Claims struct {
	jwtlib.RegisteredClaims
}

var errEmptySubject = errors.New("token subject is required")

// GenerateToken signs an HS256 token for subject valid for maxAge.
func GenerateToken(subject string, secret []byte, maxAge time.Duration) (string, error) {
	if subject == "" {
		return "", errEmptySubject
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(maxAge)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry. Every failure mode collapses to
// the one ErrInvalidToken so callers cannot tell a tampered token from an
// expired one.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(token *jwtlib.Token) (interface{}, error) {
		if token.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, appErr.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, appErr.ErrInvalidToken
	}
	return claims, nil
}
