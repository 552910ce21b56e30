package location

import "time"

// Location is a registered geofence center: a named point with an
// allowed radius around it.
type Location struct {
	ID           string
	OrgID        string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
