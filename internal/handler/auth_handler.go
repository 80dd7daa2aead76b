package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/Kroplewski-M/student-showcase/internal/middleware"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/jwt"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/response"
	"github.com/Kroplewski-M/student-showcase/internal/service"
)

var studentIDPattern = regexp.MustCompile(`^[0-9]{7}$`)

type AuthHandler struct {
	auth    *service.AuthService
	session middleware.SessionConfig
}

func NewAuthHandler(auth *service.AuthService, session middleware.SessionConfig) *AuthHandler {
	return &AuthHandler{auth: auth, session: session}
}

type registerRequest struct {
	StudentID       string `json:"student_id" binding:"required"`
	Password        string `json:"password" binding:"required,min=5,max=20"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=5,max=20"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

func validStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "password must be 5-20 characters and match its confirmation")
		return
	}
	if !validStudentID(req.StudentID) {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "student id must be 7 digits")
		return
	}
	if err := h.auth.Register(c.Request.Context(), req.StudentID, req.Password); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "account created, check your university email to verify it"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "student id and password are required")
		return
	}
	user, err := h.auth.Login(c.Request.Context(), req.StudentID, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	token, err := jwt.GenerateToken(user.ID, h.session.Secret, h.session.MaxAge)
	if err != nil {
		handleError(c, err)
		return
	}
	http.SetCookie(c.Writer, middleware.NewSessionCookie(h.session, token))
	response.Success(c, gin.H{"token": token})
}

func (h *AuthHandler) ValidateUser(c *gin.Context) {
	if err := h.auth.VerifyUser(c.Request.Context(), c.Param("token")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "account verified, you can now log in"})
}

// ForgotPassword answers the same way whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "student id is required")
		return
	}
	if !validStudentID(req.StudentID) {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "student id must be 7 digits")
		return
	}
	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.StudentID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "if the account exists, a reset link is on its way"})
}

// CheckResetToken lets the reset form validate its token before rendering.
func (h *AuthHandler) CheckResetToken(c *gin.Context) {
	ok, err := h.auth.ResetTokenExists(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	if !ok {
		handleError(c, appErr.ErrResetTokenNotValid)
		return
	}
	response.Success(c, gin.H{"valid": true})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "token and a 5-20 character password with matching confirmation are required")
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "password updated, you can now log in"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, middleware.NewExpiredSessionCookie(h.session))
	response.Success(c, gin.H{"message": "logged out"})
}
