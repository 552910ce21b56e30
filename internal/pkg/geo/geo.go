package geo

import "math"

// Earth radius used by the haversine approximation, in meters.
const earthRadiusMeters = 6371000

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// DistanceMeters returns the great-circle distance between a and b in
// whole meters (floor-truncated), using the haversine formula on a
// spherical earth. The result is symmetric and zero for identical points.
func DistanceMeters(a, b Coordinate) int {
	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLng := (b.Lng - a.Lng) * (math.Pi / 180.0)

	latARad := a.Lat * (math.Pi / 180.0)
	latBRad := b.Lat * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(latARad)*math.Cos(latBRad)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return int(math.Floor(earthRadiusMeters * c))
}

// WithinRadius reports whether the reported point lies inside the circle
// of radiusMeters around the registered point. Device accuracy is not
// folded in; the raw point-to-point distance is compared directly.
func WithinRadius(reported, registered Coordinate, radiusMeters int) bool {
	return DistanceMeters(reported, registered) <= radiusMeters
}
