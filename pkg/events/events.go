// Package events defines the Redis pub/sub messages exchanged between services.
package events

import "time"

// PreferencesUpdatedChannel carries a PreferencesUpdated message whenever a
// user's hobby preferences change.
const PreferencesUpdatedChannel = "preferences.updated"

// PreferencesUpdated announces that cached results derived from a user's
// preferences are stale.
type PreferencesUpdated struct {
	UserID    int       `json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TownsUpdatedChannel carries a TownsUpdated message whenever the town
// catalog or its derived capabilities change.
const TownsUpdatedChannel = "towns.updated"

// TownsUpdated announces that results derived from town data are stale.
// Reason names the job that changed the data.
type TownsUpdated struct {
	Reason    string    `json:"reason"`
	UpdatedAt time.Time `json:"updated_at"`
}
