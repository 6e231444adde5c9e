package models

import "time"

// User is the profile of an authenticated account, refreshed on every sign-in
type User struct {
	ID          string    `json:"id" gorm:"type:text;primaryKey;column:id"`
	DisplayName string    `json:"display_name" gorm:"type:text;not null;column:display_name"`
	Email       string    `json:"email" gorm:"type:text;not null;column:email"`
	PhotoURL    *string   `json:"photo_url" gorm:"type:text;column:photo_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// Placeholder values for profiles without a name or email
const (
	UnknownDisplayName = "Unknown"
	UnknownEmail       = "Unknown"
)

// NewUser creates a user profile, substituting placeholders for missing fields
func NewUser(id, displayName, email string, photoURL *string) *User {
	if displayName == "" {
		displayName = UnknownDisplayName
	}
	if email == "" {
		email = UnknownEmail
	}
	now := time.Now().UTC()
	return &User{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		PhotoURL:    photoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
