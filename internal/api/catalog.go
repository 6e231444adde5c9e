package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/catalog"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// CatalogHandler handles catalog browsing and search requests
type CatalogHandler struct {
	catalog      *catalog.Service
	events       *events.Publisher
	animePerPage int
}

// NewCatalogHandler creates a new catalog handler. publisher may be nil.
func NewCatalogHandler(catalogService *catalog.Service, publisher *events.Publisher, animePerPage int) *CatalogHandler {
	if animePerPage < 1 {
		animePerPage = 20
	}
	animePerPage = min(animePerPage, anilist.MaxPerPage)
	return &CatalogHandler{
		catalog:      catalogService,
		events:       publisher,
		animePerPage: animePerPage,
	}
}

// Home handles GET /api/home
func (h *CatalogHandler) Home(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	feed := h.catalog.Home(ctx)
	c.JSON(http.StatusOK, feed)
}

// Browse handles GET /api/browse?type=movie&tab=popular&genre=28&page=1
func (h *CatalogHandler) Browse(c *gin.Context) {
	mt, err := models.ParseMediaType(c.DefaultQuery("type", string(models.MediaTypeMovie)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_media_type",
			Message: "Media type must be movie or tv",
		})
		return
	}

	genreID := 0
	if g := c.Query("genre"); g != "" {
		genreID, err = strconv.Atoi(g)
		if err != nil || genreID < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_genre",
				Message: "Genre must be a positive integer",
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	page, err := h.catalog.Browse(ctx, catalog.BrowseQuery{
		MediaType: mt,
		Tab:       c.DefaultQuery("tab", catalog.TabPopular),
		GenreID:   genreID,
		Page:      queryInt(c, "page", 1),
	})
	if err != nil {
		respondCatalogError(c, err, "titles")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GenresResponse is the browse filter metadata: genre lists plus the tabs
// each media type offers
type GenresResponse struct {
	*catalog.GenreLists
	Tabs map[models.MediaType][]string `json:"tabs"`
}

// Genres handles GET /api/genres
func (h *CatalogHandler) Genres(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	genres, err := h.catalog.Genres(ctx)
	if err != nil {
		respondCatalogError(c, err, "genres")
		return
	}

	c.JSON(http.StatusOK, GenresResponse{
		GenreLists: genres,
		Tabs: map[models.MediaType][]string{
			models.MediaTypeMovie: catalog.Tabs(models.MediaTypeMovie),
			models.MediaTypeTV:    catalog.Tabs(models.MediaTypeTV),
		},
	})
}

// Search handles GET /api/search?q=...&page=1&include=anime
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	includeAnime := c.Query("include") == "anime"

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	page, err := h.catalog.Search(ctx, query, queryInt(c, "page", 1), includeAnime)
	if err != nil {
		respondCatalogError(c, err, "search results")
		return
	}

	if len(page.Results) > 0 {
		h.events.Publish(events.SubjectSearchPerformed, "search_performed", userID(c), map[string]any{
			"query":         query,
			"results":       len(page.Results),
			"include_anime": includeAnime,
		})
	}

	c.JSON(http.StatusOK, page)
}

// Title handles GET /api/titles/:type/:id
func (h *CatalogHandler) Title(c *gin.Context) {
	mt, ok := parseMediaTypeParam(c, "type")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	if mt == models.MediaTypeAnime {
		details, err := h.catalog.Anime(ctx, id)
		if err != nil {
			respondCatalogError(c, err, "anime")
			return
		}
		c.JSON(http.StatusOK, details)
		return
	}

	details, err := h.catalog.Details(ctx, mt, id)
	if err != nil {
		respondCatalogError(c, err, "title")
		return
	}

	c.JSON(http.StatusOK, details)
}

// Season handles GET /api/titles/tv/:id/seasons/:season
func (h *CatalogHandler) Season(c *gin.Context) {
	if c.Param("type") != string(models.MediaTypeTV) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_media_type",
			Message: "Only tv titles have seasons",
		})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	season, err := strconv.Atoi(c.Param("season"))
	if err != nil || season < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_season",
			Message: "Season must be a non-negative integer",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	details, err := h.catalog.Season(ctx, id, season)
	if err != nil {
		respondCatalogError(c, err, "season")
		return
	}

	c.JSON(http.StatusOK, details)
}

// Anime handles GET /api/anime/:id
func (h *CatalogHandler) Anime(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	details, err := h.catalog.Anime(ctx, id)
	if err != nil {
		respondCatalogError(c, err, "anime")
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CatalogHandler) animeList(list catalog.AnimeList) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
		defer cancel()

		page, err := h.catalog.AnimePage(ctx, list, queryInt(c, "page", 1), h.perPage(c))
		if err != nil {
			respondCatalogError(c, err, string(list)+" anime")
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// perPage reads the perPage query parameter, capped at what AniList serves
func (h *CatalogHandler) perPage(c *gin.Context) int {
	return min(queryInt(c, "perPage", h.animePerPage), anilist.MaxPerPage)
}

// SearchAnime handles GET /api/anime/search?q=...&page=1
func (h *CatalogHandler) SearchAnime(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	page, err := h.catalog.SearchAnime(ctx, c.Query("q"), queryInt(c, "page", 1), h.perPage(c))
	if err != nil {
		respondCatalogError(c, err, "anime search results")
		return
	}

	c.JSON(http.StatusOK, page)
}

// AnimeGenres handles GET /api/anime/genres
func (h *CatalogHandler) AnimeGenres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"genres": anilist.Genres()})
}

// AnimeStudios handles GET /api/anime/studios
func (h *CatalogHandler) AnimeStudios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"studios": anilist.Studios()})
}

// Recommendations handles GET /api/recommendations
func (h *CatalogHandler) Recommendations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	cards, err := h.catalog.Recommendations(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list recommendations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list recommendations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": cards})
}

// SetupCatalogRoutes registers catalog routes
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, catalogService *catalog.Service, publisher *events.Publisher, animePerPage int) {
	handler := NewCatalogHandler(catalogService, publisher, animePerPage)

	apiGroup.GET("/home", handler.Home)
	apiGroup.GET("/browse", handler.Browse)
	apiGroup.GET("/genres", handler.Genres)
	apiGroup.GET("/search", handler.Search)
	apiGroup.GET("/recommendations", handler.Recommendations)

	titles := apiGroup.Group("/titles")
	{
		titles.GET("/:type/:id", handler.Title)
		titles.GET("/:type/:id/seasons/:season", handler.Season)
	}

	anime := apiGroup.Group("/anime")
	{
		anime.GET("/trending", handler.animeList(catalog.AnimeTrending))
		anime.GET("/popular", handler.animeList(catalog.AnimePopular))
		anime.GET("/search", handler.SearchAnime)
		anime.GET("/genres", handler.AnimeGenres)
		anime.GET("/studios", handler.AnimeStudios)
		anime.GET("/:id", handler.Anime)
	}
}
