package hobby

import (
	"strings"

	"town-discovery/pkg/hobbytag"
)

// Town is the part of a town record the matcher reads. Nil slices and an
// empty description are valid and simply match nothing.
type Town struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	GeographicFeatures  []string `json:"geographic_features"`
	ActivitiesAvailable []string `json:"activities_available"`
	Description         string   `json:"description"`
}

// haystack joins every descriptive field into one folded search surface.
func (t Town) haystack() string {
	parts := make([]string, 0, len(t.GeographicFeatures)+len(t.ActivitiesAvailable)+1)
	parts = append(parts, t.GeographicFeatures...)
	parts = append(parts, t.ActivitiesAvailable...)
	parts = append(parts, t.Description)
	return hobbytag.Fold(strings.Join(parts, " "))
}

// Profile holds a user's selected hobby tags.
type Profile struct {
	Activities []string `json:"activities"`
	Interests  []string `json:"interests"`
}

// Tags returns activities followed by interests, cleaned and de-duplicated.
func (p Profile) Tags() []string {
	return hobbytag.Clean(p.Activities, p.Interests)
}

// Empty reports whether the profile expresses no preference at all.
func (p Profile) Empty() bool {
	return len(p.Tags()) == 0
}
