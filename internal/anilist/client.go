// Package anilist is a client for the AniList GraphQL API.
package anilist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

var (
	// ErrGraphQL indicates AniList answered with an errors array
	ErrGraphQL = errors.New("GraphQL errors")
	// ErrNotFound indicates the requested media does not exist
	ErrNotFound = errors.New("anime not found")
)

// MaxPerPage is the largest page size AniList serves
const MaxPerPage = 50

// Client talks to the AniList GraphQL endpoint
type Client struct {
	url     string
	perPage int
	http    *upstream.Client
}

// NewClient creates an AniList client from configuration and a shared upstream client
func NewClient(cfg config.AniListConfig, http *upstream.Client) *Client {
	perPage := cfg.PerPage
	if perPage < 1 {
		perPage = 20
	}
	return &Client{url: cfg.URL, perPage: perPage, http: http}
}

// PerPage returns the default page size
func (c *Client) PerPage() int {
	return c.perPage
}

// execute posts a GraphQL document and decodes data into a T
func execute[T any](ctx context.Context, c *Client, query string, variables map[string]any) (T, error) {
	var resp graphQLResponse[T]
	err := c.http.PostJSON(ctx, c.url, graphQLRequest{Query: query, Variables: variables}, &resp)
	if err != nil {
		return resp.Data, fmt.Errorf("anilist request: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return resp.Data, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, ", "))
	}
	return resp.Data, nil
}

func (c *Client) pageVars(page, perPage int) map[string]any {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = c.perPage
	}
	return map[string]any{"page": page, "perPage": perPage}
}

// Details returns one anime by AniList id
func (c *Client) Details(ctx context.Context, id int64) (*Media, error) {
	data, err := execute[struct {
		Media *Media `json:"Media"`
	}](ctx, c, mediaDetailsQuery, map[string]any{"id": id})
	if err != nil {
		if upstream.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}
	if data.Media == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return data.Media, nil
}

type pageData struct {
	Page *Page `json:"Page"`
}

func (c *Client) page(ctx context.Context, query string, vars map[string]any) (*Page, error) {
	data, err := execute[pageData](ctx, c, query, vars)
	if err != nil {
		return nil, err
	}
	if data.Page == nil {
		return &Page{}, nil
	}
	return data.Page, nil
}

// Search returns anime whose titles match term, most popular first
func (c *Client) Search(ctx context.Context, term string, page, perPage int) (*Page, error) {
	vars := c.pageVars(page, perPage)
	vars["search"] = term
	return c.page(ctx, searchQuery, vars)
}

// Trending returns the currently trending anime
func (c *Client) Trending(ctx context.Context, page, perPage int) (*Page, error) {
	return c.page(ctx, trendingQuery, c.pageVars(page, perPage))
}

// Popular returns the most popular anime
func (c *Client) Popular(ctx context.Context, page, perPage int) (*Page, error) {
	return c.page(ctx, popularQuery, c.pageVars(page, perPage))
}
