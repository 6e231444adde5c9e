// Package api implements the portal's HTTP handlers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/catalog"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/middleware"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/player"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

const (
	// dbTimeout bounds handlers that only touch the database
	dbTimeout = 5 * time.Second
	// upstreamTimeout bounds handlers that call TMDB or AniList
	upstreamTimeout = 20 * time.Second
)

// DeleteResponse represents a successful delete or other message-only response
type DeleteResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondCatalogError maps catalog and upstream failures to responses
func respondCatalogError(c *gin.Context, err error, what string) {
	switch {
	case catalog.IsTitleNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Title not found",
		})
	case catalog.IsInvalidTab(err), catalog.IsInvalidMediaType(err),
		errors.Is(err, tmdb.ErrInvalidMediaType), errors.Is(err, tmdb.ErrInvalidTimeWindow):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		logger.Log.Error().Msg("TMDB API key not configured")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "upstream_unavailable",
			Message: "Catalog provider is not configured",
		})
	case upstream.IsCircuitOpen(err):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "upstream_unavailable",
			Message: "Catalog provider is temporarily unavailable",
		})
	case upstream.IsStatusError(err), errors.Is(err, anilist.ErrGraphQL):
		logger.Log.Warn().
			Err(err).
			Int("upstream_status", upstream.StatusCode(err)).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("Upstream error")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch " + what,
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("Failed to fetch " + what)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch " + what,
		})
	}
}

// parseMediaTypeParam reads a media type path parameter, answering 400 when invalid
func parseMediaTypeParam(c *gin.Context, name string) (models.MediaType, bool) {
	mt, err := models.ParseMediaType(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_media_type",
			Message: "Media type must be movie, tv or anime",
		})
		return "", false
	}
	return mt, true
}

// parseIDParam reads an id path parameter; "123-some-title" is accepted
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := player.ParseWatchParam(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid id format",
		})
		return 0, false
	}
	return id, true
}

// queryInt reads a positive integer query parameter, falling back to def
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// queryBool reads a boolean query parameter; "1" and "true" are true
func queryBool(c *gin.Context, name string) bool {
	b, err := strconv.ParseBool(c.Query(name))
	return err == nil && b
}

// userID returns the authenticated caller's id. Routes using it sit behind RequireUser.
func userID(c *gin.Context) string {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return ""
	}
	return id.UserID
}
