package db

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/akmovies/internal/models"
	"gorm.io/gorm/clause"
)

// RecommendationRepository handles database operations for curated recommendations
type RecommendationRepository struct {
	db *DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Upsert inserts or replaces a recommendation keyed by doc id
func (r *RecommendationRepository) Upsert(ctx context.Context, rec *models.Recommendation) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_id"}},
			UpdateAll: true,
		}).
		Create(rec)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert recommendation: %w", MapGormError(result.Error))
	}
	return nil
}

// List retrieves all recommendations, newest first
func (r *RecommendationRepository) List(ctx context.Context) ([]*models.Recommendation, error) {
	var recs []*models.Recommendation
	result := r.db.WithContext(ctx).Order("timestamp DESC").Find(&recs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", MapGormError(result.Error))
	}
	return recs, nil
}

// Delete removes a recommendation by doc id
func (r *RecommendationRepository) Delete(ctx context.Context, docID string) error {
	result := r.db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&models.Recommendation{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete recommendation: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
