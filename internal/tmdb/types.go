package tmdb

import "github.com/stwalsh4118/akmovies/internal/models"

// Genre is a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season is a season summary embedded in TV details
type Season struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
	Overview     string `json:"overview,omitempty"`
}

// Episode is one episode of a season
type Episode struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	AirDate       string  `json:"air_date,omitempty"`
	Runtime       int     `json:"runtime,omitempty"`
	StillPath     string  `json:"still_path,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
}

// SeasonDetails is the payload of /tv/{id}/season/{n}
type SeasonDetails struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	SeasonNumber int       `json:"season_number"`
	AirDate      string    `json:"air_date,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	Episodes     []Episode `json:"episodes"`
}

// CastMember is a credited performer
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is a credited crew person
type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits holds cast and crew
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a trailer, teaser or clip
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type videoList struct {
	Results []Video `json:"results"`
}

type cardList struct {
	Results []models.Card `json:"results"`
}

type releaseDate struct {
	Certification string `json:"certification"`
}

type releaseDatesByCountry struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []releaseDate `json:"release_dates"`
}

type releaseDateList struct {
	Results []releaseDatesByCountry `json:"results"`
}

type contentRating struct {
	Country string `json:"iso_3166_1"`
	Rating  string `json:"rating"`
}

type contentRatingList struct {
	Results []contentRating `json:"results"`
}

// Details is a movie or TV show with credits, videos and similar titles appended
type Details struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title,omitempty"`
	Name             string   `json:"name,omitempty"`
	Tagline          string   `json:"tagline,omitempty"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	Runtime          int      `json:"runtime,omitempty"`
	EpisodeRunTime   []int    `json:"episode_run_time,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Status           string   `json:"status,omitempty"`
	Genres           []Genre  `json:"genres"`
	NumberOfSeasons  int      `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int      `json:"number_of_episodes,omitempty"`
	Seasons          []Season `json:"seasons,omitempty"`

	Credits        Credits           `json:"credits"`
	Videos         videoList         `json:"videos"`
	Similar        cardList          `json:"similar"`
	ReleaseDates   releaseDateList   `json:"release_dates"`
	ContentRatings contentRatingList `json:"content_ratings"`

	MediaType models.MediaType `json:"media_type"`
}

// DisplayTitle returns the movie title or series name
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Date returns the release date or first air date
func (d *Details) Date() string {
	if d.ReleaseDate != "" {
		return d.ReleaseDate
	}
	return d.FirstAirDate
}

// Card converts the details into a catalog card
func (d *Details) Card() models.Card {
	c := models.Card{
		ID:           d.ID,
		Title:        d.Title,
		Name:         d.Name,
		Overview:     d.Overview,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
		ReleaseDate:  d.ReleaseDate,
		FirstAirDate: d.FirstAirDate,
		MediaType:    d.MediaType,
	}
	c.UniqueKey = models.DocID(c.ResolvedMediaType(), c.ID)
	return c
}

// pagedResponse is the envelope of every paged TMDB list
type pagedResponse struct {
	Page         int           `json:"page"`
	Results      []models.Card `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type imageFile struct {
	FilePath    string  `json:"file_path"`
	Language    *string `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
}

type imageList struct {
	Logos []imageFile `json:"logos"`
}
