package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/jwt"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/response"
)

const ContextUserIDKey = "user_id"

// renewMinAge is how old a cookie token must be before a response silently
// replaces it with a fresh one. Keeps busy clients from re-signing on every
// request.
const renewMinAge = 60 * time.Second

type SessionConfig struct {
	Secret     []byte
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// AccountChecker re-validates the account behind a token on every request,
// so deleted or un-verified accounts lose access immediately rather than at
// token expiry.
type AccountChecker interface {
	AccountVerified(ctx context.Context, studentID string) (bool, error)
}

// Session authenticates requests from the session cookie, falling back to an
// Authorization bearer header. Cookie-based requests also get silent renewal:
// once the token is old enough, the response carries a fresh cookie.
func Session(cfg SessionConfig, checker AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := extractToken(c, cfg.CookieName)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", appErr.ErrTokenNotProvided.Error())
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token, cfg.Secret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", appErr.ErrInvalidToken.Error())
			c.Abort()
			return
		}
		userID := claims.Subject
		ok, err := checker.AccountVerified(c.Request.Context(), userID)
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Error("account check failed", zap.String("user_id", userID), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
			c.Abort()
			return
		}
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", appErr.ErrPermissionDenied.Error())
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, userID)

		if fromCookie {
			// a token without iat never qualifies for renewal
			issuedAt := time.Now()
			if claims.IssuedAt != nil {
				issuedAt = claims.IssuedAt.Time
			}
			c.Writer = &renewWriter{
				ResponseWriter: c.Writer,
				ctx:            c.Request.Context(),
				cfg:            cfg,
				userID:         userID,
				issuedAt:       issuedAt,
			}
		}
		c.Next()
	}
}

// extractToken prefers the session cookie and falls back to a bearer header.
// The second return reports which source won.
func extractToken(c *gin.Context, cookieName string) (string, bool) {
	if cookie, err := c.Request.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
		return parts[1], false
	}
	return "", false
}

func shouldRenew(issuedAt time.Time, now time.Time, minAge time.Duration) bool {
	return now.Sub(issuedAt) > minAge
}

// renewWriter injects the renewed session cookie just before the first byte
// of the response goes out. Headers are still mutable at that point, and a
// handler that already set its own session cookie (logout, login) wins.
type renewWriter struct {
	gin.ResponseWriter
	ctx      context.Context
	cfg      SessionConfig
	userID   string
	issuedAt time.Time
	done     bool
}

func (w *renewWriter) before() {
	if w.done {
		return
	}
	w.done = true
	if hasSessionCookie(w.Header(), w.cfg.CookieName) {
		return
	}
	if !shouldRenew(w.issuedAt, time.Now(), renewMinAge) {
		return
	}
	token, err := jwt.GenerateToken(w.userID, w.cfg.Secret, w.cfg.MaxAge)
	if err != nil {
		// renewal is best effort, the current token is still valid
		logutil.GetLogger(w.ctx).Warn("session renewal failed", zap.String("user_id", w.userID), zap.Error(err))
		return
	}
	cookie := NewSessionCookie(w.cfg, token)
	w.Header().Add("Set-Cookie", cookie.String())
}

func (w *renewWriter) WriteHeader(code int) {
	w.before()
	w.ResponseWriter.WriteHeader(code)
}

func (w *renewWriter) WriteHeaderNow() {
	w.before()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *renewWriter) Write(b []byte) (int, error) {
	w.before()
	return w.ResponseWriter.Write(b)
}

func (w *renewWriter) WriteString(s string) (int, error) {
	w.before()
	return w.ResponseWriter.WriteString(s)
}

func hasSessionCookie(h http.Header, name string) bool {
	for _, v := range h.Values("Set-Cookie") {
		if strings.HasPrefix(v, name+"=") {
			return true
		}
	}
	return false
}

// NewSessionCookie builds the cookie carrying a freshly signed token.
func NewSessionCookie(cfg SessionConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewExpiredSessionCookie builds the cookie that logs a client out.
func NewExpiredSessionCookie(cfg SessionConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
