package models

import (
	"time"
)

// HistoryEntry is the continue-watching record for one title per user.
// Writes overwrite the whole row; there is one row per (user, title).
type HistoryEntry struct {
	UserID      string    `json:"-" gorm:"type:text;primaryKey;column:user_id"`
	DocID       string    `json:"firebase_id" gorm:"type:text;primaryKey;column:doc_id"`
	MediaID     int64     `json:"id" gorm:"type:integer;not null;column:media_id"`
	MediaType   MediaType `json:"media_type" gorm:"type:text;not null;column:media_type"`
	Title       string    `json:"title" gorm:"type:text;column:title"`
	Description string    `json:"description,omitempty" gorm:"type:text;column:description"`
	PosterPath  string    `json:"poster_path" gorm:"type:text;column:poster_path"`
	Season      int       `json:"season" gorm:"type:integer;not null;default:1;column:season"`
	Episode     int       `json:"episode" gorm:"type:integer;not null;default:1;column:episode"`
	Progress    *float64  `json:"progress,omitempty" gorm:"type:real;column:progress"`
	Timestamp   time.Time `json:"timestamp" gorm:"type:datetime;not null;column:timestamp"`
}

// TableName binds HistoryEntry to the history table
func (HistoryEntry) TableName() string {
	return "history"
}

// NewHistoryEntry creates a history entry with its composite key and a fresh timestamp.
// Season and episode default to 1.
func NewHistoryEntry(userID string, mediaType MediaType, mediaID int64, title, posterPath string, season, episode int) *HistoryEntry {
	if season < 1 {
		season = 1
	}
	if episode < 1 {
		episode = 1
	}
	return &HistoryEntry{
		UserID:     userID,
		DocID:      DocID(mediaType, mediaID),
		MediaID:    mediaID,
		MediaType:  mediaType,
		Title:      title,
		PosterPath: posterPath,
		Season:     season,
		Episode:    episode,
		Timestamp:  time.Now().UTC(),
	}
}

// UniqueKey returns the list key used by continue-watching rows
func (h *HistoryEntry) UniqueKey() string {
	return "continue_" + h.DocID
}
