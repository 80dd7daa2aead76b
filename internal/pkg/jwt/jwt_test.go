package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
)

var testSecret = []byte("super-secret-key")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("1234567", testSecret, 10*time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "1234567", claims.Subject)
	require.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateEmptySubjectFails(t *testing.T) {
	_, err := GenerateToken("", testSecret, 10*time.Minute)
	require.Error(t, err)
}

func TestParseWrongSecretFails(t *testing.T) {
	token, err := GenerateToken("1234567", testSecret, 10*time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("wrong-secret"))
	require.ErrorIs(t, err, appErr.ErrInvalidToken)
}

func TestParseMalformedFails(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	require.ErrorIs(t, err, appErr.ErrInvalidToken)
}

func TestParseExpiredSameErrorClass(t *testing.T) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "1234567",
			IssuedAt:  jwtlib.NewNumericDate(now.Add(-10 * time.Minute)),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(-2 * time.Minute)),
		},
	}
	expired, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(expired, testSecret)
	require.ErrorIs(t, err, appErr.ErrInvalidToken)
}

func TestParseRejectsUnexpectedAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "1234567",
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(signed, testSecret)
	require.ErrorIs(t, err, appErr.ErrInvalidToken)
}
