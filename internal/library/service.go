// Package library manages per-user state: the continue-watching history and
// bookmarks. Every record is keyed by "{mediaType}_{id}".
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// Service handles history and bookmark operations
type Service struct {
	repos  *db.Repositories
	events *events.Publisher
	now    func() time.Time
}

// NewService creates a new library service. publisher may be nil.
func NewService(repos *db.Repositories, publisher *events.Publisher) *Service {
	return &Service{
		repos:  repos,
		events: publisher,
		now:    time.Now,
	}
}

// PlayItem describes the title a user started watching
type PlayItem struct {
	MediaType   models.MediaType `json:"media_type"`
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	PosterPath  string           `json:"poster_path"`
	Season      int              `json:"season"`
	Episode     int              `json:"episode"`
}

func validateItem(mediaType models.MediaType, id int64) error {
	if _, err := models.ParseMediaType(string(mediaType)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidItem)
	}
	return nil
}

// RecordPlay writes the history entry for a title, replacing any previous one
func (s *Service) RecordPlay(ctx context.Context, userID string, item PlayItem) (*models.HistoryEntry, error) {
	if err := validateItem(item.MediaType, item.ID); err != nil {
		return nil, err
	}

	entry := models.NewHistoryEntry(userID, item.MediaType, item.ID, item.Title, item.PosterPath, item.Season, item.Episode)
	entry.Description = item.Description
	entry.Timestamp = s.now().UTC()

	if err := s.repos.History.Upsert(ctx, entry); err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Str("doc_id", entry.DocID).
			Msg("Failed to record play")
		return nil, fmt.Errorf("failed to record play: %w", err)
	}

	logger.Log.Debug().
		Str("user_id", userID).
		Str("doc_id", entry.DocID).
		Int("season", entry.Season).
		Int("episode", entry.Episode).
		Msg("Recorded play")

	s.events.Publish(events.SubjectWatchStarted, "watch_started", userID, map[string]any{
		"doc_id":     entry.DocID,
		"media_type": entry.MediaType.String(),
		"season":     entry.Season,
		"episode":    entry.Episode,
	})

	return entry, nil
}

// UpdatePosition moves the entry to a new season and episode. When the user
// has no entry yet one is created from item.
func (s *Service) UpdatePosition(ctx context.Context, userID string, item PlayItem) (*models.HistoryEntry, error) {
	if err := validateItem(item.MediaType, item.ID); err != nil {
		return nil, err
	}
	season, episode := item.Season, item.Episode
	if season < 1 {
		season = 1
	}
	if episode < 1 {
		episode = 1
	}

	docID := models.DocID(item.MediaType, item.ID)
	err := s.repos.History.UpdatePosition(ctx, userID, docID, season, episode)
	if err == nil {
		return s.repos.History.Get(ctx, userID, docID)
	}
	if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}

	item.Season, item.Episode = season, episode
	return s.RecordPlay(ctx, userID, item)
}

// UpdateProgress stores the playback progress percentage on an existing entry
func (s *Service) UpdateProgress(ctx context.Context, userID string, mediaType models.MediaType, id int64, progress float64) error {
	if err := validateItem(mediaType, id); err != nil {
		return err
	}
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}

	docID := models.DocID(mediaType, id)
	if err := s.repos.History.UpdateProgress(ctx, userID, docID, progress); err != nil {
		if db.IsNotFound(err) {
			return ErrHistoryNotFound
		}
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

// ContinueItem is a history entry as listed in the continue-watching row
type ContinueItem struct {
	*models.HistoryEntry
	UniqueKey string `json:"uniqueKey"`
}

// ContinueWatching lists the user's history, most recent first
func (s *Service) ContinueWatching(ctx context.Context, userID string) ([]ContinueItem, error) {
	entries, err := s.repos.History.ListByUser(ctx, userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to list history")
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	items := make([]ContinueItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ContinueItem{HistoryEntry: e, UniqueKey: e.UniqueKey()})
	}
	return items, nil
}

// Resume returns the user's entry for one title
func (s *Service) Resume(ctx context.Context, userID string, mediaType models.MediaType, id int64) (*models.HistoryEntry, error) {
	entry, err := s.repos.History.Get(ctx, userID, models.DocID(mediaType, id))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return entry, nil
}

// RemoveHistory deletes one entry
func (s *Service) RemoveHistory(ctx context.Context, userID string, mediaType models.MediaType, id int64) error {
	if err := s.repos.History.Delete(ctx, userID, models.DocID(mediaType, id)); err != nil {
		if db.IsNotFound(err) {
			return ErrHistoryNotFound
		}
		return fmt.Errorf("failed to remove history entry: %w", err)
	}
	return nil
}

// ClearHistory deletes every entry of the user and returns how many were removed
func (s *Service) ClearHistory(ctx context.Context, userID string) (int64, error) {
	n, err := s.repos.History.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID).
		Int64("removed", n).
		Msg("History cleared")

	return n, nil
}

// HistoryCount returns the number of history entries of the user
func (s *Service) HistoryCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.repos.History.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}
