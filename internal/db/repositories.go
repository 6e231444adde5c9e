package db

// Repositories provides access to all database repositories
type Repositories struct {
	History         *HistoryRepository
	Bookmarks       *BookmarkRepository
	Servers         *ServerRepository
	Recommendations *RecommendationRepository
	Users           *UserRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		History:         NewHistoryRepository(db),
		Bookmarks:       NewBookmarkRepository(db),
		Servers:         NewServerRepository(db),
		Recommendations: NewRecommendationRepository(db),
		Users:           NewUserRepository(db),
	}
}
