package query

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"benefitflow-backend/internal/applications"
	"benefitflow-backend/internal/shared/server/respond"
	"benefitflow-backend/internal/users"
)

// Handler exposes the read paths and the status update.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the query routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.listApplications)
	rg.GET("/applications/:id", h.getApplication)
	rg.PATCH("/applications/:id/status", h.updateStatus)
	rg.GET("/users", h.listUsers)
	rg.POST("/users/lookup", h.lookupUser)
}

func (h *Handler) getApplication(c *gin.Context) {
	id := c.Param("id")
	view, err := h.svc.GetApplication(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load application", nil)
		return
	}
	c.Set("applicationId", id)
	respond.OK(c, gin.H{"success": true, "application": view})
}

func (h *Handler) listApplications(c *gin.Context) {
	views, err := h.svc.ListApplications(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "applications": views, "count": len(views)})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))

	err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes)
	switch {
	case errors.Is(err, applications.ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "invalid_status", "status must be one of PENDING, UNDER_REVIEW, APPROVED, DENIED", nil)
	case errors.Is(err, applications.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
	default:
		c.Set("applicationId", id)
		respond.OK(c, gin.H{"success": true, "application_id": id, "status": req.Status})
	}
}

func (h *Handler) listUsers(c *gin.Context) {
	summaries, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "users": summaries, "count": len(summaries)})
}

type lookupRequest struct {
	SocialSecurityNumber string `json:"socialSecurityNumber"`
}

func (h *Handler) lookupUser(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SocialSecurityNumber) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "socialSecurityNumber is required", nil)
		return
	}

	view, err := h.svc.GetUserBySSN(c.Request.Context(), strings.TrimSpace(req.SocialSecurityNumber))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no user found for the given socialSecurityNumber", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	c.Set("userId", view.User.ID)
	respond.OK(c, gin.H{
		"success":           true,
		"user":              view.User,
		"applications":      view.Applications,
		"application_count": view.ApplicationCount,
	})
}
