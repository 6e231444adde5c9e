package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// AddRecommendation stores a card as a recommendation. Adding the same title
// again replaces the stored copy.
func (s *Service) AddRecommendation(ctx context.Context, actor *auth.Identity, card models.Card) (*models.Recommendation, error) {
	if card.ID <= 0 || card.DisplayTitle() == "" {
		return nil, fmt.Errorf("%w: id and title are required", ErrInvalidRecommendation)
	}
	if card.MediaType != "" {
		if _, err := models.ParseMediaType(string(card.MediaType)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecommendation, err)
		}
	}

	rec := models.RecommendationFromCard(&card)
	rec.Timestamp = time.Now().UTC()
	if err := s.repos.Recommendations.Upsert(ctx, rec); err != nil {
		logger.Log.Error().
			Err(err).
			Str("doc_id", rec.DocID).
			Msg("Failed to store recommendation")
		return nil, fmt.Errorf("failed to add recommendation: %w", err)
	}

	s.audit(actor, ActionAddRecommendation, map[string]any{
		"doc_id": rec.DocID,
		"title":  rec.Title,
	})
	return rec, nil
}

// DeleteRecommendation removes a recommendation
func (s *Service) DeleteRecommendation(ctx context.Context, actor *auth.Identity, mediaType models.MediaType, id int64) error {
	docID := models.DocID(mediaType, id)
	if err := s.repos.Recommendations.Delete(ctx, docID); err != nil {
		if db.IsNotFound(err) {
			return ErrRecommendationNotFound
		}
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	s.audit(actor, ActionDeleteRecommendation, map[string]any{"doc_id": docID})
	return nil
}

// Recommendations lists recommendations newest first. A read failure yields
// an empty list.
func (s *Service) Recommendations(ctx context.Context) []*models.Recommendation {
	recs, err := s.repos.Recommendations.List(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list recommendations")
		return []*models.Recommendation{}
	}
	return recs
}

// Users lists user profiles, newest first. A non-empty query keeps only users
// whose name or email fuzzily matches it, best match first.
func (s *Service) Users(ctx context.Context, query string) ([]*models.User, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return users, nil
	}

	haystack := make([]string, len(users))
	for i, u := range users {
		haystack[i] = strings.ToLower(u.DisplayName + " " + u.Email)
	}
	matches := fuzzy.Find(strings.ToLower(query), haystack)

	out := make([]*models.User, len(matches))
	for i, m := range matches {
		out[i] = users[m.Index]
	}
	return out, nil
}

// UserHistory returns one user's continue-watching entries
func (s *Service) UserHistory(ctx context.Context, userID string) ([]*models.HistoryEntry, error) {
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	entries, err := s.repos.History.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user history: %w", err)
	}
	return entries, nil
}
