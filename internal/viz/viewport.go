package viz

import (
	"github.com/jengzang/rci-backend-go/internal/models"
	"github.com/jengzang/rci-backend-go/internal/spatial"
)

const (
	// FitPadding is the pixel margin kept around fitted bounds
	FitPadding = 50
	// FocusZoom is the zoom level used when centering on a single cell
	FocusZoom = 18
)

// ComputeViewport returns the viewport the map should display for the given
// cells. It returns nil for an empty cell set, meaning "leave the map alone".
func ComputeViewport(cells []models.GridCell, mode models.ViewportMode) *models.Viewport {
	if len(cells) == 0 {
		return nil
	}

	if mode == models.ViewportFocus {
		top := HighestCell(cells)
		return &models.Viewport{
			Mode:   models.ViewportFocus,
			Center: &models.LatLng{Lat: top.CenterLat, Lng: top.CenterLng},
			Zoom:   FocusZoom,
		}
	}

	centers := make([]models.LatLng, len(cells))
	for i, c := range cells {
		centers[i] = models.LatLng{Lat: c.CenterLat, Lng: c.CenterLng}
	}
	bounds, _ := spatial.BoundingBox(centers)
	return fitAll(bounds)
}

// HighestCell returns the cell with the largest average value.
// Ties go to the lowest cell key so the result does not depend on input order.
// cells must not be empty.
func HighestCell(cells []models.GridCell) models.GridCell {
	top := cells[0]
	for _, c := range cells[1:] {
		if c.AvgValue > top.AvgValue || (c.AvgValue == top.AvgValue && c.Key.Less(top.Key)) {
			top = c
		}
	}
	return top
}

// ReadingsViewport fits raw readings the same way cells are fitted
func ReadingsViewport(readings []models.Reading) *models.Viewport {
	points := make([]models.LatLng, len(readings))
	for i, r := range readings {
		points[i] = models.LatLng{Lat: r.Latitude, Lng: r.Longitude}
	}
	bounds, ok := spatial.BoundingBox(points)
	if !ok {
		return nil
	}
	return fitAll(bounds)
}

func fitAll(bounds models.Bounds) *models.Viewport {
	return &models.Viewport{
		Mode:    models.ViewportFitAll,
		Bounds:  &bounds,
		Padding: FitPadding,
		Span:    spatial.DiagonalMeters(bounds),
	}
}
