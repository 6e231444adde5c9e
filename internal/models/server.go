package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Server is an embed provider entry in the admin-managed, ordered player list
type Server struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name        string    `json:"name" gorm:"type:text;not null;column:name"`
	URL         string    `json:"url" gorm:"type:text;not null;column:url"`
	OrderNumber int       `json:"order_number" gorm:"type:integer;not null;column:order_number"`
	Timestamp   time.Time `json:"timestamp" gorm:"type:datetime;not null;column:timestamp"`
}

// NewServer creates a new Server with generated UUID and timestamp
func NewServer(name, url string, orderNumber int) *Server {
	return &Server{
		ID:          uuid.New(),
		Name:        name,
		URL:         url,
		OrderNumber: orderNumber,
		Timestamp:   time.Now().UTC(),
	}
}

// DefaultServers builds the fallback player list from base URLs, numbered
// in order. IDs are derived from the URL so they stay stable across calls.
func DefaultServers(urls []string) []*Server {
	out := make([]*Server, 0, len(urls))
	for i, u := range urls {
		out = append(out, &Server{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(u)),
			Name:        fmt.Sprintf("Server %d", i+1),
			URL:         u,
			OrderNumber: i + 1,
		})
	}
	return out
}
