package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kroplewski-M/student-showcase/internal/middleware"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Users       *UserHandler
	References  *ReferenceHandler
	Files       *FileHandler
	Session     middleware.SessionConfig
	Checker     middleware.AccountChecker
	AuthLimiter time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	// credential endpoints share a rate limit window
	authGroup := api.Group("/auth")
	if deps.AuthLimiter > 0 {
		authGroup.Use(middleware.RateLimit(deps.AuthLimiter))
	}
	authGroup.POST("/register", deps.Auth.Register)
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/validate-user/:token", deps.Auth.ValidateUser)
	authGroup.POST("/forgot-password", deps.Auth.ForgotPassword)
	authGroup.GET("/reset-password/:token", deps.Auth.CheckResetToken)
	authGroup.POST("/reset-password", deps.Auth.ResetPassword)

	session := middleware.Session(deps.Session, deps.Checker)
	api.POST("/auth/logout", session, deps.Auth.Logout)

	userGroup := api.Group("/user")
	userGroup.Use(session)
	userGroup.GET("/profile", deps.Users.GetProfile)
	userGroup.PUT("/profile", deps.Users.UpdateProfile)
	userGroup.POST("/image", deps.Users.UploadImage)

	api.GET("/ref/courses", deps.References.Courses)
	api.GET("/ref/link-types", deps.References.LinkTypes)
	api.GET("/files/:key", deps.Files.Get)
}
