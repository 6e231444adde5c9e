package library

import "github.com/stwalsh4118/akmovies/internal/tmdb"

// Anime episode paging
const (
	AnimeEpisodesPerPage = 40
	// UnknownEpisodeCount is assumed for airing anime whose total is not known yet
	UnknownEpisodeCount = 1500
)

// Position is a season and episode pair
type Position struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

func findSeason(seasons []tmdb.Season, number int) (tmdb.Season, bool) {
	for _, s := range seasons {
		if s.SeasonNumber == number {
			return s, true
		}
	}
	return tmdb.Season{}, false
}

// NextEpisode returns the position after cur: the next episode of the same
// season, else the first episode of the next season, else cur unchanged.
func NextEpisode(seasons []tmdb.Season, cur Position) Position {
	if current, ok := findSeason(seasons, cur.Season); ok && cur.Episode < current.EpisodeCount {
		return Position{Season: cur.Season, Episode: cur.Episode + 1}
	}
	if _, ok := findSeason(seasons, cur.Season+1); ok {
		return Position{Season: cur.Season + 1, Episode: 1}
	}
	return cur
}

// PreviousEpisode returns the position before cur: the previous episode of
// the same season, else the last episode of the previous season, else cur.
func PreviousEpisode(seasons []tmdb.Season, cur Position) Position {
	if cur.Episode > 1 {
		return Position{Season: cur.Season, Episode: cur.Episode - 1}
	}
	if prev, ok := findSeason(seasons, cur.Season-1); ok {
		return Position{Season: cur.Season - 1, Episode: prev.EpisodeCount}
	}
	return cur
}

// CanGoPrevious is false only on the first episode of the first regular season
func CanGoPrevious(seasons []tmdb.Season, cur Position) bool {
	if len(seasons) == 0 {
		return false
	}
	for _, s := range seasons {
		if s.SeasonNumber > 0 {
			return !(cur.Season == s.SeasonNumber && cur.Episode == 1)
		}
	}
	return true
}

// CanGoNext is false only on the last episode of the last listed season
func CanGoNext(seasons []tmdb.Season, cur Position) bool {
	if len(seasons) == 0 {
		return false
	}
	last := seasons[len(seasons)-1]
	current, _ := findSeason(seasons, cur.Season)
	return !(cur.Season == last.SeasonNumber && cur.Episode == current.EpisodeCount)
}

// EpisodePage describes one page of an anime episode grid
type EpisodePage struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Episodes   []int `json:"episodes"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

// AnimeEpisodeCount returns count, or UnknownEpisodeCount when it is not known
func AnimeEpisodeCount(count int) int {
	if count <= 0 {
		return UnknownEpisodeCount
	}
	return count
}

// AnimeEpisodePageFor returns the grid page that contains episode
func AnimeEpisodePageFor(episode int) int {
	if episode < 1 {
		return 1
	}
	return (episode + AnimeEpisodesPerPage - 1) / AnimeEpisodesPerPage
}

// AnimeEpisodePage returns the episode numbers on one grid page. page is
// clamped into range.
func AnimeEpisodePage(episodeCount, page int) EpisodePage {
	total := AnimeEpisodeCount(episodeCount)
	totalPages := (total + AnimeEpisodesPerPage - 1) / AnimeEpisodesPerPage
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	first := (page-1)*AnimeEpisodesPerPage + 1
	last := min(page*AnimeEpisodesPerPage, total)
	episodes := make([]int, 0, last-first+1)
	for ep := first; ep <= last; ep++ {
		episodes = append(episodes, ep)
	}

	return EpisodePage{
		Page:       page,
		TotalPages: totalPages,
		Episodes:   episodes,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// NextAnimeEpisode returns episode+1 while it stays within the episode count
func NextAnimeEpisode(episodeCount, episode int) (int, bool) {
	if episode < AnimeEpisodeCount(episodeCount) {
		return episode + 1, true
	}
	return episode, false
}

// PreviousAnimeEpisode returns episode-1 while it stays above zero
func PreviousAnimeEpisode(episode int) (int, bool) {
	if episode > 1 {
		return episode - 1, true
	}
	return episode, false
}
