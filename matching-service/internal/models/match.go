package models

import (
	"time"

	"town-discovery/matching-service/internal/hobby"
)

// Hobby is a row of the hobby catalog.
type Hobby struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	IsUniversal bool      `json:"is_universal"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TownRecord is a town as served by the town service.
type TownRecord struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Country             string   `json:"country"`
	Region              string   `json:"region"`
	Description         string   `json:"description"`
	GeographicFeatures  []string `json:"geographic_features"`
	ActivitiesAvailable []string `json:"activities_available"`
	ImageURL            string   `json:"image_url"`
}

// Profile converts the record into the matcher's view of a town.
func (t TownRecord) Profile() hobby.Town {
	return hobby.Town{
		ID:                  t.ID,
		Name:                t.Name,
		GeographicFeatures:  t.GeographicFeatures,
		ActivitiesAvailable: t.ActivitiesAvailable,
		Description:         t.Description,
	}
}

// TownListResponse is the town service's paginated listing.
type TownListResponse struct {
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Data         []TownRecord `json:"data"`
}

// HobbyPreference is a user's hobby profile from the preference service.
type HobbyPreference struct {
	UserID     int      `json:"user_id"`
	Activities []string `json:"activities"`
	Interests  []string `json:"interests"`
}

// TownMatch is one ranked town in a match response.
type TownMatch struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Country  string         `json:"country"`
	ImageURL string         `json:"image_url,omitempty"`
	Score    int            `json:"score"`
	Matched  []string       `json:"matched"`
	Missing  []string       `json:"missing"`
	Factors  []hobby.Factor `json:"factors"`
}

// TownMatchResponse wraps a user's ranked towns.
type TownMatchResponse struct {
	UserID      int         `json:"user_id"`
	Towns       []TownMatch `json:"towns"`
	GeneratedAt string      `json:"generated_at"`
}

// TownMatchErrorResponse is returned when towns could not be ranked. Towns
// is always empty; Retryable tells clients the failure was upstream.
type TownMatchErrorResponse struct {
	UserID    int         `json:"user_id"`
	Towns     []TownMatch `json:"towns"`
	Error     string      `json:"error"`
	Retryable bool        `json:"retryable"`
}

// HobbyScoreRequest scores a single town against an ad-hoc profile.
type HobbyScoreRequest struct {
	Activities []string   `json:"activities"`
	Interests  []string   `json:"interests"`
	Town       hobby.Town `json:"town"`
}

// TownHobbies lists the catalog hobbies a town supports.
type TownHobbies struct {
	TownID     int                `json:"town_id"`
	Total      int                `json:"total"`
	Grouped    map[string][]Hobby `json:"grouped"`
	Highlights []string           `json:"highlights"`
}

// Hobby categories.
const (
	CategoryActivity = "activity"
	CategoryInterest = "interest"
	CategoryCustom   = "custom"
)
