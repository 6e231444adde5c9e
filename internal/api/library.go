package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/library"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/middleware"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// PlayRequest is the body of PUT /me/history/:type/:id and the position update
type PlayRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PosterPath  string `json:"poster_path"`
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
}

// ProgressRequest is the body of PATCH /me/history/:type/:id/progress
type ProgressRequest struct {
	Progress *float64 `json:"progress" binding:"required"`
}

// BookmarkStatusResponse reports whether a title is bookmarked
type BookmarkStatusResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// LibraryHandler handles a user's history and bookmarks
type LibraryHandler struct {
	library *library.Service
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryService *library.Service) *LibraryHandler {
	return &LibraryHandler{library: libraryService}
}

func respondLibraryError(c *gin.Context, err error, msg string) {
	switch {
	case library.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case library.IsAlreadyBookmarked(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already_bookmarked",
			Message: "Title is already bookmarked",
		})
	case errors.Is(err, library.ErrInvalidItem), errors.Is(err, library.ErrInvalidProgress):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("user_id", userID(c)).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg(msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: msg,
		})
	}
}

func (h *LibraryHandler) titleParams(c *gin.Context) (models.MediaType, int64, bool) {
	mt, ok := parseMediaTypeParam(c, "type")
	if !ok {
		return "", 0, false
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return "", 0, false
	}
	return mt, id, true
}

func (h *LibraryHandler) playItem(c *gin.Context) (library.PlayItem, bool) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return library.PlayItem{}, false
	}
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return library.PlayItem{}, false
	}
	return library.PlayItem{
		MediaType:   mt,
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		PosterPath:  req.PosterPath,
		Season:      req.Season,
		Episode:     req.Episode,
	}, true
}

// Me handles GET /api/me
func (h *LibraryHandler) Me(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	count, err := h.library.HistoryCount(ctx, id.UserID)
	if err != nil {
		respondLibraryError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         id,
		"historyCount": count,
	})
}

// History handles GET /api/me/history
func (h *LibraryHandler) History(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	items, err := h.library.ContinueWatching(ctx, userID(c))
	if err != nil {
		respondLibraryError(c, err, "Failed to list history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": items})
}

// ClearHistory handles DELETE /api/me/history
func (h *LibraryHandler) ClearHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	removed, err := h.library.ClearHistory(ctx, userID(c))
	if err != nil {
		respondLibraryError(c, err, "Failed to clear history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "History cleared",
		"removed": removed,
	})
}

// HistoryCount handles GET /api/me/history/count
func (h *LibraryHandler) HistoryCount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	count, err := h.library.HistoryCount(ctx, userID(c))
	if err != nil {
		respondLibraryError(c, err, "Failed to count history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// RecordPlay handles PUT /api/me/history/:type/:id
func (h *LibraryHandler) RecordPlay(c *gin.Context) {
	item, ok := h.playItem(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entry, err := h.library.RecordPlay(ctx, userID(c), item)
	if err != nil {
		respondLibraryError(c, err, "Failed to record play")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdatePosition handles PATCH /api/me/history/:type/:id/position
func (h *LibraryHandler) UpdatePosition(c *gin.Context) {
	item, ok := h.playItem(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entry, err := h.library.UpdatePosition(ctx, userID(c), item)
	if err != nil {
		respondLibraryError(c, err, "Failed to update position")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateProgress handles PATCH /api/me/history/:type/:id/progress
func (h *LibraryHandler) UpdateProgress(c *gin.Context) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.library.UpdateProgress(ctx, userID(c), mt, id, *req.Progress); err != nil {
		respondLibraryError(c, err, "Failed to update progress")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "Progress updated"})
}

// HistoryEntry handles GET /api/me/history/:type/:id
func (h *LibraryHandler) HistoryEntry(c *gin.Context) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entry, err := h.library.Resume(ctx, userID(c), mt, id)
	if err != nil {
		respondLibraryError(c, err, "Failed to get history entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RemoveHistory handles DELETE /api/me/history/:type/:id
func (h *LibraryHandler) RemoveHistory(c *gin.Context) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.library.RemoveHistory(ctx, userID(c), mt, id); err != nil {
		respondLibraryError(c, err, "Failed to remove history entry")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "History entry removed"})
}

// Bookmarks handles GET /api/me/bookmarks
func (h *LibraryHandler) Bookmarks(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	bookmarks, err := h.library.Bookmarks(ctx, userID(c))
	if err != nil {
		respondLibraryError(c, err, "Failed to list bookmarks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": bookmarks})
}

// AddBookmark handles POST /api/me/bookmarks with a catalog card body
func (h *LibraryHandler) AddBookmark(c *gin.Context) {
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

	bookmark, err := h.library.AddBookmark(ctx, userID(c), card)
	if err != nil {
		respondLibraryError(c, err, "Failed to add bookmark")
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// BookmarkStatus handles GET /api/me/bookmarks/:type/:id
func (h *LibraryHandler) BookmarkStatus(c *gin.Context) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	bookmarked, err := h.library.IsBookmarked(ctx, userID(c), mt, id)
	if err != nil {
		respondLibraryError(c, err, "Failed to check bookmark")
		return
	}

	c.JSON(http.StatusOK, BookmarkStatusResponse{Bookmarked: bookmarked})
}

// RemoveBookmark handles DELETE /api/me/bookmarks/:type/:id
func (h *LibraryHandler) RemoveBookmark(c *gin.Context) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.library.RemoveBookmark(ctx, userID(c), mt, id); err != nil {
		respondLibraryError(c, err, "Failed to remove bookmark")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "Bookmark removed"})
}

// ToggleBookmark handles POST /api/me/bookmarks/:type/:id/toggle. The body
// is the card to store when the title gets bookmarked; its id and type are
// taken from the path. An empty body is enough to remove a bookmark.
func (h *LibraryHandler) ToggleBookmark(c *gin.Context) {
	mt, id, ok := h.titleParams(c)
	if !ok {
		return
	}
	var card models.Card
	if err := c.ShouldBindJSON(&card); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}
	card.ID = id
	card.MediaType = mt

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	bookmarked, err := h.library.ToggleBookmark(ctx, userID(c), card)
	if err != nil {
		respondLibraryError(c, err, "Failed to toggle bookmark")
		return
	}

	c.JSON(http.StatusOK, BookmarkStatusResponse{Bookmarked: bookmarked})
}

// SetupLibraryRoutes registers the signed-in user's routes under /me
func SetupLibraryRoutes(apiGroup *gin.RouterGroup, libraryService *library.Service) {
	handler := NewLibraryHandler(libraryService)

	me := apiGroup.Group("/me", middleware.RequireUser())
	{
		me.GET("", handler.Me)

		me.GET("/history", handler.History)
		me.DELETE("/history", handler.ClearHistory)
		me.GET("/history/count", handler.HistoryCount)
		me.GET("/history/:type/:id", handler.HistoryEntry)
		me.PUT("/history/:type/:id", handler.RecordPlay)
		me.DELETE("/history/:type/:id", handler.RemoveHistory)
		me.PATCH("/history/:type/:id/position", handler.UpdatePosition)
		me.PATCH("/history/:type/:id/progress", handler.UpdateProgress)

		me.GET("/bookmarks", handler.Bookmarks)
		me.POST("/bookmarks", handler.AddBookmark)
		me.GET("/bookmarks/:type/:id", handler.BookmarkStatus)
		me.DELETE("/bookmarks/:type/:id", handler.RemoveBookmark)
		me.POST("/bookmarks/:type/:id/toggle", handler.ToggleBookmark)
	}
}
