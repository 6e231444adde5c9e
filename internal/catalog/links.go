package catalog

import (
	"fmt"

	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/player"
)

// WatchPath builds the watch link for a title, with the title slug after the id
func WatchPath(mediaType models.MediaType, id int64, title string) string {
	return fmt.Sprintf("/watch/%s/%s", mediaType, player.WatchParam(id, title))
}

func withCardLinks(cards []models.Card) []models.Card {
	for i := range cards {
		c := &cards[i]
		c.WatchPath = WatchPath(c.ResolvedMediaType(), c.ID, c.DisplayTitle())
	}
	return cards
}

func withWatchPaths(p *models.Page) *models.Page {
	if p != nil {
		withCardLinks(p.Results)
	}
	return p
}
