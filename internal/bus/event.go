package bus

import "time"

// Event kinds published by portal components. Subscribers filter by prefix,
// e.g. "analytics." or "prefs.".
const (
	KindPrefsChanged     = "prefs.changed"
	KindAnalyticsPrefix  = "analytics."
	KindLoginState       = "login.state_changed"
	KindFacilitiesLoaded = "maps.facilities_loaded"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
