package spatial

import (
	"github.com/golang/geo/r1"

	"github.com/jengzang/rci-backend-go/internal/models"
)

// DiagonalMeters returns the great-circle length of the box diagonal
func DiagonalMeters(b models.Bounds) float64 {
	return HaversineDistance(b.SouthWest.Lat, b.SouthWest.Lng, b.NorthEast.Lat, b.NorthEast.Lng)
}

// BoundingBox returns the smallest axis-aligned box containing every point.
// Latitude and longitude are bounded independently; no antimeridian wrapping.
// ok is false when points is empty.
func BoundingBox(points []models.LatLng) (bounds models.Bounds, ok bool) {
	if len(points) == 0 {
		return models.Bounds{}, false
	}

	lat := r1.IntervalFromPoint(points[0].Lat)
	lng := r1.IntervalFromPoint(points[0].Lng)
	for _, p := range points[1:] {
		lat = lat.AddPoint(p.Lat)
		lng = lng.AddPoint(p.Lng)
	}

	return models.Bounds{
		SouthWest: models.LatLng{Lat: lat.Lo, Lng: lng.Lo},
		NorthEast: models.LatLng{Lat: lat.Hi, Lng: lng.Hi},
	}, true
}
