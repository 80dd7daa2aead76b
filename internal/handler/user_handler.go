package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kroplewski-M/student-showcase/internal/model"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/response"
	"github.com/Kroplewski-M/student-showcase/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateProfileRequest struct {
	FirstName     *string `json:"first_name" binding:"omitempty,max=100"`
	LastName      *string `json:"last_name" binding:"omitempty,max=100"`
	PersonalEmail *string `json:"personal_email" binding:"omitempty,email"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	CourseID      *int64  `json:"course_id"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile replaces the whole editable profile, PUT-style.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid profile payload")
		return
	}
	err := h.users.UpdateProfile(c.Request.Context(), getUserID(c), model.ProfileUpdate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PersonalEmail: req.PersonalEmail,
		Description:   req.Description,
		CourseID:      req.CourseID,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	profile, err := h.users.GetProfile(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *UserHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "image file is required")
		return
	}
	opened, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "failed to open upload")
		return
	}
	defer opened.Close()

	file, err := h.users.UploadImage(c.Request.Context(), getUserID(c), header.Filename, opened, header.Size)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"id":   file.ID,
		"name": file.NewFileName + "." + file.Extension,
	})
}
