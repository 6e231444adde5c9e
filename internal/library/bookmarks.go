package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// AddBookmark saves a card to the user's bookmarks. The card needs a title
// so the bookmark list can render it.
func (s *Service) AddBookmark(ctx context.Context, userID string, card models.Card) (*models.Bookmark, error) {
	mediaType := card.ResolvedMediaType()
	if err := validateItem(mediaType, card.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(card.DisplayTitle()) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	card.MediaType = mediaType

	b := models.BookmarkFromCard(userID, &card)
	b.Timestamp = s.now().UTC()

	if err := s.repos.Bookmarks.Create(ctx, b); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrAlreadyBookmarked
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Str("doc_id", b.DocID).
			Msg("Failed to add bookmark")
		return nil, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return b, nil
}

// RemoveBookmark deletes a bookmark
func (s *Service) RemoveBookmark(ctx context.Context, userID string, mediaType models.MediaType, id int64) error {
	if err := s.repos.Bookmarks.Delete(ctx, userID, models.DocID(mediaType, id)); err != nil {
		if db.IsNotFound(err) {
			return ErrBookmarkNotFound
		}
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

// IsBookmarked reports whether the user bookmarked the title
func (s *Service) IsBookmarked(ctx context.Context, userID string, mediaType models.MediaType, id int64) (bool, error) {
	ok, err := s.repos.Bookmarks.Exists(ctx, userID, models.DocID(mediaType, id))
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return ok, nil
}

// ToggleBookmark removes the bookmark when present and adds it otherwise. It
// returns whether the title is bookmarked afterwards.
func (s *Service) ToggleBookmark(ctx context.Context, userID string, card models.Card) (bool, error) {
	mediaType := card.ResolvedMediaType()
	exists, err := s.IsBookmarked(ctx, userID, mediaType, card.ID)
	if err != nil {
		return false, err
	}

	bookmarked := !exists
	if exists {
		if err := s.RemoveBookmark(ctx, userID, mediaType, card.ID); err != nil {
			return true, err
		}
	} else if _, err := s.AddBookmark(ctx, userID, card); err != nil {
		return false, err
	}

	s.events.Publish(events.SubjectBookmarkToggled, "bookmark_toggled", userID, map[string]any{
		"doc_id":     models.DocID(mediaType, card.ID),
		"bookmarked": bookmarked,
	})
	return bookmarked, nil
}

// Bookmarks lists the user's bookmarks, newest first
func (s *Service) Bookmarks(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	bookmarks, err := s.repos.Bookmarks.ListByUser(ctx, userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to list bookmarks")
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}
