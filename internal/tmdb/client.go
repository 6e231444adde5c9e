// Package tmdb is a client for The Movie Database REST API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

const (
	placeholderImage   = "/placeholder-movie.jpg"
	defaultImageSize   = "w500"
	detailsAppend      = "credits,videos,similar"
	movieDetailsAppend = detailsAppend + ",release_dates"
	tvDetailsAppend    = detailsAppend + ",content_ratings"
)

var (
	// ErrMissingAPIKey indicates no TMDB API key is configured
	ErrMissingAPIKey = errors.New("TMDB API key not found")
	// ErrInvalidTimeWindow indicates a trending window other than day or week
	ErrInvalidTimeWindow = errors.New("invalid trending time window")
	// ErrInvalidMediaType indicates a media type TMDB does not serve
	ErrInvalidMediaType = errors.New("invalid tmdb media type")
)

// Client talks to the TMDB v3 API
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	http         *upstream.Client
}

// NewClient creates a TMDB client from configuration and a shared upstream client
func NewClient(cfg config.TMDBConfig, http *upstream.Client) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		http:         http,
	}
}

// ImageURL returns the full image URL for path at size, or the placeholder
// image when path is empty. An empty size means w500.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return placeholderImage
	}
	if size == "" {
		size = defaultImageSize
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

// get performs a GET on endpoint with params plus the api key
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	u := c.baseURL + endpoint + "?" + params.Encode()
	if err := c.http.GetJSON(ctx, u, dest); err != nil {
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	return nil
}

// getPage fetches a paged list endpoint and returns the cleaned page
func (c *Client) getPage(ctx context.Context, endpoint string, params url.Values) (*models.Page, error) {
	var resp pagedResponse
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return models.NewPage(clean(resp.Results), resp.Page, resp.TotalPages), nil
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

// Trending returns trending titles. mediaType is all, movie or tv; window is day or week.
func (c *Client) Trending(ctx context.Context, mediaType, window string) ([]models.Card, error) {
	switch mediaType {
	case "all", string(models.MediaTypeMovie), string(models.MediaTypeTV):
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}
	if window != "day" && window != "week" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeWindow, window)
	}

	var resp pagedResponse
	if err := c.get(ctx, fmt.Sprintf("/trending/%s/%s", mediaType, window), nil, &resp); err != nil {
		return nil, err
	}
	return clean(resp.Results), nil
}

// PopularMovies returns the all-time popular movies, which TMDB serves as top rated
func (c *Client) PopularMovies(ctx context.Context, page int) (*models.Page, error) {
	return c.getPage(ctx, "/movie/top_rated", pageParams(page))
}

// PopularTV returns the all-time popular TV shows, served as top rated
func (c *Client) PopularTV(ctx context.Context, page int) (*models.Page, error) {
	return c.getPage(ctx, "/tv/top_rated", pageParams(page))
}

// TopRatedMovies returns top rated movies
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*models.Page, error) {
	return c.getPage(ctx, "/movie/top_rated", pageParams(page))
}

// NowPlayingMovies returns movies currently in theatres
func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*models.Page, error) {
	return c.getPage(ctx, "/movie/now_playing", pageParams(page))
}

// UpcomingMovies returns soon-to-be-released movies
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*models.Page, error) {
	return c.getPage(ctx, "/movie/upcoming", pageParams(page))
}

// DiscoverByGenre returns titles of mediaType in genreID sorted by popularity
func (c *Client) DiscoverByGenre(ctx context.Context, mediaType models.MediaType, genreID, page int) (*models.Page, error) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}
	params := pageParams(page)
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", "popularity.desc")
	return c.getPage(ctx, "/discover/"+string(mediaType), params)
}

// SearchMulti searches movies and TV shows (people are dropped by the content filter)
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*models.Page, error) {
	params := pageParams(page)
	params.Set("query", query)
	return c.getPage(ctx, "/search/multi", params)
}

// MovieGenres returns the movie genre list
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var resp genreList
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// TVGenres returns the TV genre list
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	var resp genreList
	if err := c.get(ctx, "/genre/tv/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// MovieDetails returns a movie with credits, videos, similar titles and release dates
func (c *Client) MovieDetails(ctx context.Context, id int64) (*Details, error) {
	var d Details
	params := url.Values{"append_to_response": {movieDetailsAppend}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &d); err != nil {
		return nil, err
	}
	d.MediaType = models.MediaTypeMovie
	return &d, nil
}

// TVDetails returns a TV show with credits, videos, similar titles and content ratings
func (c *Client) TVDetails(ctx context.Context, id int64) (*Details, error) {
	var d Details
	params := url.Values{"append_to_response": {tvDetailsAppend}}
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), params, &d); err != nil {
		return nil, err
	}
	d.MediaType = models.MediaTypeTV
	return &d, nil
}

// Details dispatches to MovieDetails or TVDetails
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id int64) (*Details, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return c.MovieDetails(ctx, id)
	case models.MediaTypeTV:
		return c.TVDetails(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}
}

// TVSeason returns one season with its episodes
func (c *Client) TVSeason(ctx context.Context, id int64, season int) (*SeasonDetails, error) {
	var s SeasonDetails
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d", id, season), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// TitleLogo returns the URL of the best English or language-neutral logo for
// a title, or "" when there is none
func (c *Client) TitleLogo(ctx context.Context, mediaType models.MediaType, id int64) (string, error) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}

	var resp imageList
	params := url.Values{"include_image_language": {"en,null"}}
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/images", mediaType, id), params, &resp); err != nil {
		return "", err
	}

	var fallback string
	for _, logo := range resp.Logos {
		if logo.Language != nil && *logo.Language == "en" {
			return c.ImageURL(logo.FilePath, "original"), nil
		}
		if logo.Language == nil && fallback == "" {
			fallback = logo.FilePath
		}
	}
	if fallback == "" {
		return "", nil
	}
	return c.ImageURL(fallback, "original"), nil
}
