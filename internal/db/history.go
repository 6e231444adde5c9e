// Package db provides database connection management and repositories.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/akmovies/internal/models"
	"gorm.io/gorm/clause"
)

// HistoryRepository handles database operations for continue-watching entries
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert writes the whole entry, replacing any earlier row for the same (user, doc id)
func (r *HistoryRepository) Upsert(ctx context.Context, entry *models.HistoryEntry) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "doc_id"}},
			UpdateAll: true,
		}).
		Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert history entry: %w", MapGormError(result.Error))
	}
	return nil
}

// Get retrieves one entry by user and doc id
func (r *HistoryRepository) Get(ctx context.Context, userID, docID string) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// ListByUser retrieves a user's entries, most recently watched first
func (r *HistoryRepository) ListByUser(ctx context.Context, userID string) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list history: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// UpdatePosition moves an existing entry to season/episode and refreshes its timestamp
func (r *HistoryRepository) UpdatePosition(ctx context.Context, userID, docID string, season, episode int) error {
	result := r.db.WithContext(ctx).
		Model(&models.HistoryEntry{}).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Updates(map[string]interface{}{
			"season":    season,
			"episode":   episode,
			"timestamp": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update history position: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProgress stores playback progress for an existing entry
func (r *HistoryRepository) UpdateProgress(ctx context.Context, userID, docID string, progress float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.HistoryEntry{}).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Updates(map[string]interface{}{
			"progress":  progress,
			"timestamp": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update history progress: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one entry
func (r *HistoryRepository) Delete(ctx context.Context, userID, docID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Delete(&models.HistoryEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete history entry: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByUser removes every entry for a user and returns how many were removed
func (r *HistoryRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.HistoryEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear history: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// CountByUser returns the number of entries a user has
func (r *HistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.HistoryEntry{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count history: %w", MapGormError(result.Error))
	}
	return count, nil
}
