package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kroplewski-M/student-showcase/internal/pkg/response"
	"github.com/Kroplewski-M/student-showcase/internal/service"
)

type ReferenceHandler struct {
	refs *service.ReferenceService
}

func NewReferenceHandler(refs *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

func (h *ReferenceHandler) Courses(c *gin.Context) {
	courses, err := h.refs.ListCourses(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, courses)
}

func (h *ReferenceHandler) LinkTypes(c *gin.Context) {
	types, err := h.refs.ListLinkTypes(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, types)
}
