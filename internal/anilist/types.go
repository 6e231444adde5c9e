package anilist

// Title holds the localized titles of a media entry
type Title struct {
	Romaji  string `json:"romaji,omitempty"`
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

// CoverImage holds cover art URLs
type CoverImage struct {
	Large      string `json:"large,omitempty"`
	ExtraLarge string `json:"extraLarge,omitempty"`
}

// Trailer points at a hosted trailer video
type Trailer struct {
	ID        string `json:"id"`
	Site      string `json:"site"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Studio is an animation studio
type Studio struct {
	Name string `json:"name"`
}

// StudioConnection wraps the studio nodes list
type StudioConnection struct {
	Nodes []Studio `json:"nodes"`
}

// Names returns the studio names in order
func (s *StudioConnection) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		out = append(out, n.Name)
	}
	return out
}

// StaffEdge is one staff credit
type StaffEdge struct {
	Role string `json:"role"`
	Node struct {
		Name struct {
			Full string `json:"full"`
		} `json:"name"`
	} `json:"node"`
}

// AiringEpisode describes the next episode to air
type AiringEpisode struct {
	Episode         int   `json:"episode"`
	AiringAt        int64 `json:"airingAt"`
	TimeUntilAiring int64 `json:"timeUntilAiring"`
}

// RelationNode is a related media entry
type RelationNode struct {
	ID           int64      `json:"id"`
	Title        Title      `json:"title"`
	CoverImage   CoverImage `json:"coverImage"`
	Type         string     `json:"type"`
	Format       string     `json:"format"`
	Episodes     *int       `json:"episodes"`
	Status       string     `json:"status"`
	Season       string     `json:"season"`
	SeasonYear   *int       `json:"seasonYear"`
	AverageScore *int       `json:"averageScore"`
}

// RelationEdge links a media entry to a related one
type RelationEdge struct {
	ID           int64        `json:"id"`
	RelationType string       `json:"relationType"`
	Node         RelationNode `json:"node"`
}

// Media is an AniList anime entry. Optional numbers are pointers because
// AniList returns null for unknown values.
type Media struct {
	ID              int64             `json:"id"`
	IDMal           *int64            `json:"idMal,omitempty"`
	Title           Title             `json:"title"`
	Description     string            `json:"description,omitempty"`
	CoverImage      CoverImage        `json:"coverImage"`
	BannerImage     string            `json:"bannerImage,omitempty"`
	Trailer         *Trailer          `json:"trailer,omitempty"`
	Episodes        *int              `json:"episodes"`
	Duration        *int              `json:"duration,omitempty"`
	Season          string            `json:"season,omitempty"`
	SeasonYear      *int              `json:"seasonYear"`
	Status          string            `json:"status,omitempty"`
	Format          string            `json:"format,omitempty"`
	Genres          []string          `json:"genres,omitempty"`
	AverageScore    *int              `json:"averageScore"`
	MeanScore       *int              `json:"meanScore,omitempty"`
	Popularity      int               `json:"popularity,omitempty"`
	Trending        int               `json:"trending,omitempty"`
	CountryOfOrigin string            `json:"countryOfOrigin,omitempty"`
	Studios         *StudioConnection `json:"studios,omitempty"`
	Staff           *struct {
		Edges []StaffEdge `json:"edges"`
	} `json:"staff,omitempty"`
	NextAiringEpisode *AiringEpisode `json:"nextAiringEpisode,omitempty"`
	Relations         *struct {
		Edges []RelationEdge `json:"edges"`
	} `json:"relations,omitempty"`
}

// PageInfo is AniList's pagination block
type PageInfo struct {
	Total       int  `json:"total"`
	PerPage     int  `json:"perPage"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// Page is one page of media
type Page struct {
	PageInfo PageInfo `json:"pageInfo"`
	Media    []Media  `json:"media"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}
