package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/admin"
	"github.com/stwalsh4118/akmovies/internal/catalog"
	"github.com/stwalsh4118/akmovies/internal/library"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/player"
)

// Navigation describes the episode controls of the TV player
type Navigation struct {
	Previous      library.Position `json:"previous"`
	Next          library.Position `json:"next"`
	CanGoPrevious bool             `json:"canGoPrevious"`
	CanGoNext     bool             `json:"canGoNext"`
}

// AnimeNavigation describes the episode controls of the anime player
type AnimeNavigation struct {
	Previous      int                 `json:"previous"`
	Next          int                 `json:"next"`
	CanGoPrevious bool                `json:"canGoPrevious"`
	CanGoNext     bool                `json:"canGoNext"`
	EpisodePage   library.EpisodePage `json:"episodePage"`
}

// VidsrcLinks is the Vidsrc embed and its mirrors
type VidsrcLinks struct {
	Primary   string   `json:"primary"`
	Fallbacks []string `json:"fallbacks"`
}

// WatchResponse is everything the watch page needs for one title
type WatchResponse struct {
	MediaType models.MediaType `json:"media_type"`
	ID        int64            `json:"id"`
	Season    int              `json:"season"`
	Episode   int              `json:"episode"`
	Dub       bool             `json:"dub,omitempty"`
	Details   any              `json:"details"`

	Embeds          []player.Embed `json:"embeds,omitempty"`
	ServersFallback bool           `json:"serversFallback,omitempty"`
	Vidsrc          *VidsrcLinks   `json:"vidsrc,omitempty"`
	AnimeURL        string         `json:"animeUrl,omitempty"`

	Navigation      *Navigation      `json:"navigation,omitempty"`
	AnimeNavigation *AnimeNavigation `json:"animeNavigation,omitempty"`

	Resume     *models.HistoryEntry `json:"resume,omitempty"`
	Bookmarked bool                 `json:"bookmarked"`
}

// WatchHandler assembles watch pages
type WatchHandler struct {
	catalog *catalog.Service
	admin   *admin.Service
	library *library.Service
	player  *player.Builder
}

// NewWatchHandler creates a new watch handler
func NewWatchHandler(catalogService *catalog.Service, adminService *admin.Service, libraryService *library.Service, builder *player.Builder) *WatchHandler {
	return &WatchHandler{
		catalog: catalogService,
		admin:   adminService,
		library: libraryService,
		player:  builder,
	}
}

// position resolves the season and episode to play: explicit query values
// win, then the caller's history, then 1/1
func position(c *gin.Context, resume *models.HistoryEntry) (int, int) {
	season, episode := 1, 1
	if resume != nil {
		season, episode = max(resume.Season, 1), max(resume.Episode, 1)
	}
	if s, err := strconv.Atoi(c.Query("season")); err == nil && s > 0 {
		season = s
	}
	if e, err := strconv.Atoi(c.Query("episode")); err == nil && e > 0 {
		episode = e
	}
	return season, episode
}

// Watch handles GET /api/watch/:type/:id?season=1&episode=1&dub=true
func (h *WatchHandler) Watch(c *gin.Context) {
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

	resp := &WatchResponse{MediaType: mt, ID: id}

	if uid := userID(c); uid != "" {
		resume, err := h.library.Resume(ctx, uid, mt, id)
		if err != nil && !library.IsNotFound(err) {
			logger.Log.Warn().Err(err).Str("user_id", uid).Msg("Failed to load resume position")
		}
		resp.Resume = resume
		if bookmarked, err := h.library.IsBookmarked(ctx, uid, mt, id); err == nil {
			resp.Bookmarked = bookmarked
		}
	}

	resp.Season, resp.Episode = position(c, resp.Resume)

	if mt == models.MediaTypeAnime {
		h.watchAnime(ctx, c, resp)
		return
	}

	details, err := h.catalog.Details(ctx, mt, id)
	if err != nil {
		respondCatalogError(c, err, "title")
		return
	}
	resp.Details = details

	servers, fallback := h.admin.Servers(ctx)
	resp.ServersFallback = fallback
	resp.Embeds, err = h.player.ServerURLs(servers, mt, id, resp.Season, resp.Episode)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to build embed URLs")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to build player URLs",
		})
		return
	}

	opts := player.VidsrcOptions{}
	primary, err := h.player.VidsrcURL(mt, id, resp.Season, resp.Episode, opts)
	if err == nil {
		fallbacks, _ := h.player.VidsrcFallbacks(mt, id, resp.Season, resp.Episode, opts)
		resp.Vidsrc = &VidsrcLinks{Primary: primary, Fallbacks: fallbacks}
	}

	if mt == models.MediaTypeTV {
		cur := library.Position{Season: resp.Season, Episode: resp.Episode}
		resp.Navigation = &Navigation{
			Previous:      library.PreviousEpisode(details.Seasons, cur),
			Next:          library.NextEpisode(details.Seasons, cur),
			CanGoPrevious: library.CanGoPrevious(details.Seasons, cur),
			CanGoNext:     library.CanGoNext(details.Seasons, cur),
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *WatchHandler) watchAnime(ctx context.Context, c *gin.Context, resp *WatchResponse) {
	details, err := h.catalog.Anime(ctx, resp.ID)
	if err != nil {
		respondCatalogError(c, err, "anime")
		return
	}
	resp.Details = details
	resp.Season = 1
	resp.Dub = queryBool(c, "dub")

	resp.AnimeURL, err = h.player.AnimeURL(resp.ID, resp.Episode, resp.Dub)
	if err != nil && !errors.Is(err, player.ErrAnimeServerNotConfigured) {
		logger.Log.Error().Err(err).Msg("Failed to build anime URL")
	}

	count := details.EpisodeCount()
	prev, canPrev := library.PreviousAnimeEpisode(resp.Episode)
	next, canNext := library.NextAnimeEpisode(count, resp.Episode)
	resp.AnimeNavigation = &AnimeNavigation{
		Previous:      prev,
		Next:          next,
		CanGoPrevious: canPrev,
		CanGoNext:     canNext,
		EpisodePage:   library.AnimeEpisodePage(count, queryInt(c, "page", library.AnimeEpisodePageFor(resp.Episode))),
	}

	c.JSON(http.StatusOK, resp)
}

// SetupWatchRoutes registers the watch route
func SetupWatchRoutes(apiGroup *gin.RouterGroup, catalogService *catalog.Service, adminService *admin.Service, libraryService *library.Service, builder *player.Builder) {
	handler := NewWatchHandler(catalogService, adminService, libraryService, builder)
	apiGroup.GET("/watch/:type/:id", handler.Watch)
}
