package models

import "time"

// Bookmark is a saved title. A bookmark is created once and removed on toggle-off.
type Bookmark struct {
	UserID       string    `json:"-" gorm:"type:text;primaryKey;column:user_id"`
	DocID        string    `json:"firebase_id" gorm:"type:text;primaryKey;column:doc_id"`
	MediaID      int64     `json:"id" gorm:"type:integer;not null;column:media_id"`
	MediaType    MediaType `json:"media_type" gorm:"type:text;not null;column:media_type"`
	Title        string    `json:"title" gorm:"type:text;column:title"`
	Overview     string    `json:"overview,omitempty" gorm:"type:text;column:overview"`
	PosterPath   string    `json:"poster_path,omitempty" gorm:"type:text;column:poster_path"`
	BackdropPath string    `json:"backdrop_path,omitempty" gorm:"type:text;column:backdrop_path"`
	ReleaseDate  string    `json:"release_date,omitempty" gorm:"type:text;column:release_date"`
	VoteAverage  float64   `json:"vote_average" gorm:"type:real;column:vote_average"`
	Timestamp    time.Time `json:"timestamp" gorm:"type:datetime;not null;column:timestamp"`
}

// TableName binds Bookmark to the bookmarks table
func (Bookmark) TableName() string {
	return "bookmarks"
}
