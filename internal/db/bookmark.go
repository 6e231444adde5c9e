package db

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/akmovies/internal/models"
)

// BookmarkRepository handles database operations for bookmarks
type BookmarkRepository struct {
	db *DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create inserts a bookmark. An existing (user, doc id) pair yields ErrDuplicate.
func (r *BookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	result := r.db.WithContext(ctx).Create(bookmark)
	if result.Error != nil {
		return fmt.Errorf("failed to create bookmark: %w", MapGormError(result.Error))
	}
	return nil
}

// Get retrieves one bookmark by user and doc id
func (r *BookmarkRepository) Get(ctx context.Context, userID, docID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		First(&bookmark)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &bookmark, nil
}

// Exists reports whether the user has bookmarked doc id
func (r *BookmarkRepository) Exists(ctx context.Context, userID, docID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// ListByUser retrieves a user's bookmarks, newest first
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	var bookmarks []*models.Bookmark
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&bookmarks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", MapGormError(result.Error))
	}
	return bookmarks, nil
}

// Delete removes one bookmark
func (r *BookmarkRepository) Delete(ctx context.Context, userID, docID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete bookmark: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
