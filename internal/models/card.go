package models

// Card is the catalog item shape shared by TMDB results, converted AniList
// media and curated recommendations. Field names follow TMDB's JSON.
type Card struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title,omitempty"`
	Name         string    `json:"name,omitempty"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	VoteAverage  float64   `json:"vote_average"`
	VoteCount    int       `json:"vote_count"`
	Popularity   float64   `json:"popularity"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty"`
	MediaType    MediaType `json:"media_type,omitempty"`
	GenreIDs     []int     `json:"genre_ids,omitempty"`
	UniqueKey    string    `json:"uniqueKey,omitempty"`
	// WatchPath is the slugged watch link, e.g. /watch/movie/550-fight-club
	WatchPath string `json:"watchPath,omitempty"`

	// Anime-only fields
	Episodes int      `json:"episodes,omitempty"`
	Status   string   `json:"status,omitempty"`
	Format   string   `json:"format,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Studios  []string `json:"studios,omitempty"`
}

// DisplayTitle returns the movie title or, for series, the name
func (c *Card) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// ResolvedMediaType returns the explicit media type or infers it: items with a
// title are movies, everything else is tv
func (c *Card) ResolvedMediaType() MediaType {
	if c.MediaType != "" {
		return c.MediaType
	}
	if c.Title != "" {
		return MediaTypeMovie
	}
	return MediaTypeTV
}

// Date returns the release date or first air date
func (c *Card) Date() string {
	if c.ReleaseDate != "" {
		return c.ReleaseDate
	}
	return c.FirstAirDate
}

// Page is one page of catalog cards with the upstream's paging info
type Page struct {
	Results    []Card `json:"results"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	HasMore    bool   `json:"hasMore"`
}

// NewPage builds a Page and derives HasMore from page < totalPages
func NewPage(results []Card, page, totalPages int) *Page {
	if results == nil {
		results = []Card{}
	}
	return &Page{
		Results:    results,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// RecommendationFromCard builds a curated recommendation record from a card
func RecommendationFromCard(c *Card) *Recommendation {
	mt := c.ResolvedMediaType()
	return &Recommendation{
		DocID:        DocID(mt, c.ID),
		MediaID:      c.ID,
		MediaType:    mt,
		Title:        c.DisplayTitle(),
		Overview:     c.Overview,
		PosterPath:   c.PosterPath,
		BackdropPath: c.BackdropPath,
		ReleaseDate:  c.Date(),
		VoteAverage:  c.VoteAverage,
	}
}

// Card converts a recommendation back to a catalog card
func (r *Recommendation) Card() Card {
	c := Card{
		ID:           r.MediaID,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		ReleaseDate:  r.ReleaseDate,
		MediaType:    r.MediaType,
		UniqueKey:    r.DocID,
	}
	if r.MediaType == MediaTypeMovie {
		c.Title = r.Title
	} else {
		c.Name = r.Title
	}
	return c
}

// BookmarkFromCard builds a bookmark for userID from a card
func BookmarkFromCard(userID string, c *Card) *Bookmark {
	mt := c.ResolvedMediaType()
	return &Bookmark{
		UserID:       userID,
		DocID:        DocID(mt, c.ID),
		MediaID:      c.ID,
		MediaType:    mt,
		Title:        c.DisplayTitle(),
		Overview:     c.Overview,
		PosterPath:   c.PosterPath,
		BackdropPath: c.BackdropPath,
		ReleaseDate:  c.Date(),
		VoteAverage:  c.VoteAverage,
	}
}
