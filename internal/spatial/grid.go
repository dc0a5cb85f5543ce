package spatial

import (
	"math"
	"sort"

	"github.com/jengzang/rci-backend-go/internal/models"
)

// DefaultCellSize is the grid cell edge length in meters
const DefaultCellSize = 100.0

// MinCellSize is the smallest cell edge the aggregator accepts, in meters
const MinCellSize = 1.0

// cell indices beyond this magnitude no longer fit an int64 exactly
const maxIndex = 1 << 62

// LatStep returns the latitude step in degrees for a cell of the given size
func LatStep(cellSize float64) float64 {
	return cellSize / MetersPerDegreeLat
}

// LngStep returns the longitude step in degrees for a cell of the given size at
// the given latitude. The step widens by 1/cos(lat) toward the poles.
func LngStep(cellSize, lat float64) float64 {
	return cellSize / (MetersPerDegreeLat * math.Cos(degreesToRadians(lat)))
}

// Aggregator bins readings into fixed-size grid cells and keeps a running mean
// per cell. An Aggregator is single-use: build a new one for every pass.
type Aggregator struct {
	cellSize float64
	latStep  float64
	cells    map[models.CellKey]*models.GridCell
	folded   int
	dropped  int
}

// NewAggregator creates an aggregator for the given cell size in meters.
// Sizes below MinCellSize (and NaN or infinite ones) fall back to
// DefaultCellSize.
func NewAggregator(cellSize float64) *Aggregator {
	if !(cellSize >= MinCellSize) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Aggregator{
		cellSize: cellSize,
		latStep:  LatStep(cellSize),
		cells:    make(map[models.CellKey]*models.GridCell),
	}
}

// CellSize returns the effective cell size in meters
func (a *Aggregator) CellSize() float64 {
	return a.cellSize
}

// KeyFor returns the grid cell key of a reading for the given cell size.
// ok is false when an index is not finite or does not fit an int64.
//
// The longitude step uses the reading's own latitude, not the cell's, so two
// readings on either side of a latitude boundary can see slightly different
// longitude widths. This is a known approximation.
func KeyFor(cellSize float64, r models.Reading) (key models.CellKey, ok bool) {
	lat := math.Floor(r.Latitude / LatStep(cellSize))
	lng := math.Floor(r.Longitude / LngStep(cellSize, r.Latitude))
	if !indexInRange(lat) || !indexInRange(lng) {
		return models.CellKey{}, false
	}
	return models.CellKey{LatIndex: int64(lat), LngIndex: int64(lng)}, true
}

func indexInRange(i float64) bool {
	return i > -maxIndex && i < maxIndex
}

// Add folds one reading into its cell and reports whether it was folded.
// Inputs must already be finite; a reading without a representable cell
// key is dropped.
func (a *Aggregator) Add(r models.Reading) bool {
	lngStep := LngStep(a.cellSize, r.Latitude)
	key, ok := KeyFor(a.cellSize, r)
	if !ok {
		a.dropped++
		return false
	}

	if cell, exists := a.cells[key]; exists {
		cell.AvgValue = (cell.AvgValue*float64(cell.Count) + r.Value) / float64(cell.Count+1)
		cell.Count++
	} else {
		a.cells[key] = &models.GridCell{
			Key:       key,
			CenterLat: float64(key.LatIndex)*a.latStep + a.latStep/2,
			CenterLng: float64(key.LngIndex)*lngStep + lngStep/2,
			AvgValue:  r.Value,
			Count:     1,
		}
	}
	a.folded++
	return true
}

// Folded returns the number of readings folded so far
func (a *Aggregator) Folded() int {
	return a.folded
}

// Dropped returns the number of readings that had no representable cell
func (a *Aggregator) Dropped() int {
	return a.dropped
}

// Cells returns a snapshot of the current cells ordered by key.
// The snapshot is independent of the aggregator's internal state.
func (a *Aggregator) Cells() []models.GridCell {
	cells := make([]models.GridCell, 0, len(a.cells))
	for _, cell := range a.cells {
		cells = append(cells, *cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Key.Less(cells[j].Key)
	})
	return cells
}

// Aggregate reduces readings into grid cells of cellSize meters
func Aggregate(readings []models.Reading, cellSize float64) []models.GridCell {
	agg := NewAggregator(cellSize)
	for _, r := range readings {
		agg.Add(r)
	}
	return agg.Cells()
}

// FilterMinReadings returns the cells backed by at least minReadings readings.
// The input slice is not modified.
func FilterMinReadings(cells []models.GridCell, minReadings int) []models.GridCell {
	filtered := make([]models.GridCell, 0, len(cells))
	for _, cell := range cells {
		if cell.Count >= minReadings {
			filtered = append(filtered, cell)
		}
	}
	return filtered
}
