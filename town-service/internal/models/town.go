package models

import "time"

// Town is a retirement destination stored in our database. The descriptive
// fields may all be empty; consumers must treat that as "unknown".
type Town struct {
	ID                  int       `json:"id"`
	FeedID              string    `json:"feed_id,omitempty"`
	Name                string    `json:"name"`
	Country             string    `json:"country"`
	Region              string    `json:"region"`
	Description         string    `json:"description"`
	GeographicFeatures  []string  `json:"geographic_features"`
	ActivitiesAvailable []string  `json:"activities_available"`
	HobbyCapabilities   []string  `json:"hobby_capabilities"`
	ImageURL            string    `json:"image_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TownListResponse is the paginated town listing response.
type TownListResponse struct {
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Data         []Town `json:"data"`
}

// TownListParams holds query parameters for town listing.
type TownListParams struct {
	Page      int    `query:"page"`
	PageSize  int    `query:"page_size"`
	SortBy    string `query:"sort_by"`
	Order     string `query:"order"`
	Country   string `query:"country"`
	WithPhoto bool   `query:"with_photo"`
}

// Validate sets defaults and validates parameters.
func (p *TownListParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	validSorts := map[string]bool{"name": true, "country": true, "updated_at": true}
	if !validSorts[p.SortBy] {
		p.SortBy = "name"
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = "asc"
	}
}

// CapabilityRun summarizes a capability derivation pass.
type CapabilityRun struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}
