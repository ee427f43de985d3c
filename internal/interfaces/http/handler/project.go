package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	projectapp "github.com/groundplan/backend/internal/application/project"
)

// ProjectHandler handles project and membership endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.Service
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.Service) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create creates a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req projectapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists the projects visible to the caller. Admins see every
// project of the tenant; members only their assignments.
func (h *ProjectHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projects, err := h.projectService.ListVisible(c.Request.Context(), tenantID, userID, isAdmin(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, projects)
}

// MemberRequest identifies the user of a membership change
type MemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// AssignMember adds a user to a project
func (h *ProjectHandler) AssignMember(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.AssignMember(c.Request.Context(), tenantID, projectID, req.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveMember removes a user from a project
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	resp, err := h.projectService.RemoveMember(c.Request.Context(), tenantID, projectID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Archive archives a project
func (h *ProjectHandler) Archive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	resp, err := h.projectService.Archive(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
