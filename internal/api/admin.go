package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/akmovies/internal/admin"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/middleware"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// ServerListResponse is the player server list
type ServerListResponse struct {
	Servers  []*models.Server `json:"servers"`
	Fallback bool             `json:"fallback"`
}

// ReorderRequest is the body of PUT /admin/servers/reorder
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// AdminHandler handles the admin panel
type AdminHandler struct {
	admin *admin.Service
	cfg   *config.AuthConfig
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, cfg *config.AuthConfig) *AdminHandler {
	return &AdminHandler{admin: adminService, cfg: cfg}
}

func respondAdminError(c *gin.Context, err error, msg string) {
	switch {
	case admin.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case admin.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg(msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: msg,
		})
	}
}

func parseServerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid server ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func actor(c *gin.Context) *auth.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}

// Servers handles GET /api/servers. Anyone may read the list.
func (h *AdminHandler) Servers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	servers, fallback := h.admin.Servers(ctx)
	c.JSON(http.StatusOK, ServerListResponse{Servers: servers, Fallback: fallback})
}

// Me handles GET /api/admin/me and reports the caller's admin access
func (h *AdminHandler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	c.JSON(http.StatusOK, admin.ValidateAccess(id, ok, h.cfg))
}

// AddServer handles POST /api/admin/servers
func (h *AdminHandler) AddServer(c *gin.Context) {
	var req admin.ServerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	server, err := h.admin.AddServer(ctx, actor(c), req)
	if err != nil {
		respondAdminError(c, err, "Failed to add server")
		return
	}

	c.JSON(http.StatusCreated, server)
}

// UpdateServer handles PUT /api/admin/servers/:id
func (h *AdminHandler) UpdateServer(c *gin.Context) {
	id, ok := parseServerID(c)
	if !ok {
		return
	}
	var req admin.ServerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	server, err := h.admin.UpdateServer(ctx, actor(c), id, req)
	if err != nil {
		respondAdminError(c, err, "Failed to update server")
		return
	}

	c.JSON(http.StatusOK, server)
}

// DeleteServer handles DELETE /api/admin/servers/:id
func (h *AdminHandler) DeleteServer(c *gin.Context) {
	id, ok := parseServerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.admin.DeleteServer(ctx, actor(c), id); err != nil {
		respondAdminError(c, err, "Failed to delete server")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "Server deleted successfully"})
}

// ReorderServers handles PUT /api/admin/servers/reorder
func (h *AdminHandler) ReorderServers(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	servers, err := h.admin.ReorderServers(ctx, actor(c), req.IDs)
	if err != nil {
		respondAdminError(c, err, "Failed to reorder servers")
		return
	}

	c.JSON(http.StatusOK, ServerListResponse{Servers: servers})
}

// AddRecommendation handles POST /api/admin/recommendations with a card body
func (h *AdminHandler) AddRecommendation(c *gin.Context) {
	var card models.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	rec, err := h.admin.AddRecommendation(ctx, actor(c), card)
	if err != nil {
		respondAdminError(c, err, "Failed to add recommendation")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// DeleteRecommendation handles DELETE /api/admin/recommendations/:type/:id
func (h *AdminHandler) DeleteRecommendation(c *gin.Context) {
	mt, ok := parseMediaTypeParam(c, "type")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.admin.DeleteRecommendation(ctx, actor(c), mt, id); err != nil {
		respondAdminError(c, err, "Failed to delete recommendation")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "Recommendation deleted successfully"})
}

// Users handles GET /api/admin/users?q=...
func (h *AdminHandler) Users(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	users, err := h.admin.Users(ctx, c.Query("q"))
	if err != nil {
		respondAdminError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UserHistory handles GET /api/admin/users/:id/history
func (h *AdminHandler) UserHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entries, err := h.admin.UserHistory(ctx, c.Param("id"))
	if err != nil {
		respondAdminError(c, err, "Failed to list user history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": entries})
}

// SetupAdminRoutes registers the public server list and the admin routes.
// Mutations are rate limited per admin and action.
func SetupAdminRoutes(apiGroup *gin.RouterGroup, adminService *admin.Service, cfg *config.AuthConfig, limiter *admin.RateLimiter) {
	handler := NewAdminHandler(adminService, cfg)

	apiGroup.GET("/servers", handler.Servers)
	apiGroup.GET("/admin/me", handler.Me)

	adminGroup := apiGroup.Group("/admin", middleware.RequireAdmin(cfg))
	{
		adminGroup.POST("/servers", middleware.RateLimit(limiter, admin.ActionAddServer), handler.AddServer)
		adminGroup.PUT("/servers/reorder", middleware.RateLimit(limiter, admin.ActionReorderServers), handler.ReorderServers)
		adminGroup.PUT("/servers/:id", middleware.RateLimit(limiter, admin.ActionEditServer), handler.UpdateServer)
		adminGroup.DELETE("/servers/:id", middleware.RateLimit(limiter, admin.ActionDeleteServer), handler.DeleteServer)

		adminGroup.POST("/recommendations", middleware.RateLimit(limiter, admin.ActionAddRecommendation), handler.AddRecommendation)
		adminGroup.DELETE("/recommendations/:type/:id", middleware.RateLimit(limiter, admin.ActionDeleteRecommendation), handler.DeleteRecommendation)

		adminGroup.GET("/users", handler.Users)
		adminGroup.GET("/users/:id/history", handler.UserHistory)
	}
}
