package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/akmovies/internal/models"
	"gorm.io/gorm"
)

// ServerRepository handles database operations for the player server list
type ServerRepository struct {
	db *DB
}

// NewServerRepository creates a new server repository
func NewServerRepository(db *DB) *ServerRepository {
	return &ServerRepository{db: db}
}

// Create inserts a new server
func (r *ServerRepository) Create(ctx context.Context, server *models.Server) error {
	result := r.db.WithContext(ctx).Create(server)
	if result.Error != nil {
		return fmt.Errorf("failed to create server: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a server by its UUID
func (r *ServerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Server, error) {
	var server models.Server
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&server)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &server, nil
}

// List retrieves all servers ordered by order_number
func (r *ServerRepository) List(ctx context.Context) ([]*models.Server, error) {
	var servers []*models.Server
	result := r.db.WithContext(ctx).Order("order_number ASC").Find(&servers)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list servers: %w", MapGormError(result.Error))
	}
	return servers, nil
}

// Count returns the number of configured servers
func (r *ServerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Server{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count servers: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Update rewrites a server's name and url
func (r *ServerRepository) Update(ctx context.Context, server *models.Server) error {
	result := r.db.WithContext(ctx).
		Model(&models.Server{}).
		Where("id = ?", server.ID.String()).
		Select("name", "url", "timestamp").
		Updates(server)
	if result.Error != nil {
		return fmt.Errorf("failed to update server: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a server by its UUID
func (r *ServerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Server{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete server: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder sets order_number = index+1 for every id in one transaction.
// An unknown id rolls back the whole reorder.
func (r *ServerRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&models.Server{}).
				Where("id = ?", id.String()).
				Update("order_number", i+1)
			if result.Error != nil {
				return fmt.Errorf("failed to update order for server %s: %w", id, MapGormError(result.Error))
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("server %s: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}
