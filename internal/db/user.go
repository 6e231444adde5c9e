package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/akmovies/internal/models"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for user profiles
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert merges a profile into the users table. The original created_at is kept;
// name, email, photo and updated_at are refreshed.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = user.UpdatedAt
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "photo_url", "updated_at"}),
		}).
		Create(user)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert user: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &user, nil
}

// List retrieves all users, most recently created first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list users: %w", MapGormError(result.Error))
	}
	return users, nil
}
