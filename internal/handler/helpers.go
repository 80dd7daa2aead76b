package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Kroplewski-M/student-showcase/internal/middleware"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

// handleError is the single place where domain errors become HTTP statuses.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, appErr.ErrWrongCredentials),
		errors.Is(err, appErr.ErrUserNotVerified),
		errors.Is(err, appErr.ErrTokenNotProvided),
		errors.Is(err, appErr.ErrInvalidToken),
		errors.Is(err, appErr.ErrPermissionDenied):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, appErr.ErrUserAlreadyExists):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, appErr.ErrVerifyTokenNotFound),
		errors.Is(err, appErr.ErrResetTokenNotValid),
		errors.Is(err, appErr.ErrEmptyPassword),
		errors.Is(err, appErr.ErrPasswordTooLong),
		errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "not found")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("user_id", getUserID(c)),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
