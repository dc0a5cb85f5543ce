package spatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// degreesToRadians converts an angle in degrees to radians
func degreesToRadians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// MetersPerDegreeLat approximates the length of one degree of latitude
	MetersPerDegreeLat = 111111.0
)
