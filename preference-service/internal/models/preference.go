package models

import (
	"time"

	"town-discovery/pkg/hobbytag"
)

// User represents a registered user.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// HobbyPreference is a user's hobby profile. Both lists empty means the user
// is open to any town.
type HobbyPreference struct {
	ID         int        `json:"id,omitempty"`
	UserID     int        `json:"user_id"`
	Activities []string   `json:"activities"`
	Interests  []string   `json:"interests"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// SetPreferenceRequest is the request body for setting preferences.
type SetPreferenceRequest struct {
	Activities []string `json:"activities"`
	Interests  []string `json:"interests"`
}

// Normalize trims tags, drops blanks and removes case- and accent-insensitive
// duplicates within each list.
func (r *SetPreferenceRequest) Normalize() {
	r.Activities = hobbytag.Clean(r.Activities)
	r.Interests = hobbytag.Clean(r.Interests)
}

// Favorite is a town a user has saved.
type Favorite struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TownID    int       `json:"town_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateFavoriteRequest is the request body for saving a favorite town.
type CreateFavoriteRequest struct {
	TownID int `json:"town_id"`
}
