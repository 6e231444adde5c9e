package models

import "time"

// Recommendation is an admin-curated catalog item shown on the home feed
type Recommendation struct {
	DocID        string    `json:"firebase_id" gorm:"type:text;primaryKey;column:doc_id"`
	MediaID      int64     `json:"id" gorm:"type:integer;not null;column:media_id"`
	MediaType    MediaType `json:"media_type" gorm:"type:text;not null;column:media_type"`
	Title        string    `json:"title" gorm:"type:text;not null;column:title"`
	Overview     string    `json:"overview,omitempty" gorm:"type:text;column:overview"`
	PosterPath   string    `json:"poster_path,omitempty" gorm:"type:text;column:poster_path"`
	BackdropPath string    `json:"backdrop_path,omitempty" gorm:"type:text;column:backdrop_path"`
	ReleaseDate  string    `json:"release_date,omitempty" gorm:"type:text;column:release_date"`
	VoteAverage  float64   `json:"vote_average" gorm:"type:real;column:vote_average"`
	Timestamp    time.Time `json:"timestamp" gorm:"type:datetime;not null;column:timestamp"`
}

// TableName binds Recommendation to the recommendations table
func (Recommendation) TableName() string {
	return "recommendations"
}
