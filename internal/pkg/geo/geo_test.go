package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	cityHall = Coordinate{Lat: 37.5665, Lng: 126.9780}
	gangnam  = Coordinate{Lat: 37.4979, Lng: 127.0276}
)

func TestDistanceMeters_Identity(t *testing.T) {
	cases := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 37.5665, Lng: 126.9780},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: -179.9},
	}
	for _, c := range cases {
		assert.Equal(t, 0, DistanceMeters(c, c))
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	pairs := [][2]Coordinate{
		{cityHall, gangnam},
		{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
		{{Lat: -45.0, Lng: 170.0}, {Lat: 45.0, Lng: -170.0}},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceMeters(p[0], p[1]), DistanceMeters(p[1], p[0]))
	}
}

func TestDistanceMeters_NearbyPoint(t *testing.T) {
	// One ten-thousandth of a degree in each axis is roughly 14m at this latitude.
	nearby := Coordinate{Lat: 37.5666, Lng: 126.9781}
	d := DistanceMeters(cityHall, nearby)
	assert.GreaterOrEqual(t, d, 10)
	assert.LessOrEqual(t, d, 20)
}

func TestDistanceMeters_FarPoint(t *testing.T) {
	d := DistanceMeters(cityHall, gangnam)
	assert.GreaterOrEqual(t, d, 7000)
	assert.LessOrEqual(t, d, 8500)
}

func TestWithinRadius(t *testing.T) {
	nearby := Coordinate{Lat: 37.5666, Lng: 126.9781}

	assert.True(t, WithinRadius(nearby, cityHall, 50))
	assert.False(t, WithinRadius(gangnam, cityHall, 50))

	// Boundary: a point exactly at distance d is allowed for radius d.
	d := DistanceMeters(cityHall, nearby)
	assert.True(t, WithinRadius(nearby, cityHall, d))
	assert.False(t, WithinRadius(nearby, cityHall, d-1))
}
