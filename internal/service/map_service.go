package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/metrics"
	"github.com/jengzang/rci-backend-go/internal/models"
	"github.com/jengzang/rci-backend-go/internal/source"
	"github.com/jengzang/rci-backend-go/internal/spatial"
	"github.com/jengzang/rci-backend-go/internal/stats"
	"github.com/jengzang/rci-backend-go/internal/viz"
)

// MaxCellSize bounds the requested cell size in meters
const MaxCellSize = 100000.0

// NormalizeMapFilter applies defaults and rejects out-of-range parameters
func NormalizeMapFilter(filter models.MapFilter) (models.MapFilter, error) {
	if filter.CellSize == 0 {
		filter.CellSize = spatial.DefaultCellSize
	}
	if math.IsNaN(filter.CellSize) || filter.CellSize < spatial.MinCellSize || filter.CellSize > MaxCellSize {
		return filter, fmt.Errorf("cellSize must be between %v and %v meters: %w",
			spatial.MinCellSize, MaxCellSize, apperrors.ErrInvalidParameter)
	}
	if filter.MinReadings < 0 {
		return filter, fmt.Errorf("minReadings must not be negative: %w", apperrors.ErrInvalidParameter)
	}
	if filter.MinReadings == 0 {
		filter.MinReadings = 1
	}
	return filter, nil
}

// BuildMapView runs one aggregation pass over an immutable reading set. It
// keeps no state: every parameter change rebuilds the view from scratch.
func BuildMapView(readings []models.Reading, filter models.MapFilter) *models.MapView {
	agg := spatial.NewAggregator(filter.CellSize)
	for _, r := range readings {
		if !agg.Add(r) {
			log.Printf("[MapService] Dropped reading at (%v, %v): no cell at %vm", r.Latitude, r.Longitude, agg.CellSize())
		}
	}

	all := agg.Cells()
	cells := spatial.FilterMinReadings(all, filter.MinReadings)

	mode := models.ViewportFitAll
	if filter.Focus {
		mode = models.ViewportFocus
	}

	values := viz.CellValues(cells)
	return &models.MapView{
		Cells:        viz.Style(cells),
		Buckets:      viz.CountBuckets(values),
		Summary:      stats.Summarize(values),
		Viewport:     viz.ComputeViewport(cells, mode),
		CellSize:     agg.CellSize(),
		MinReadings:  filter.MinReadings,
		TotalCells:   len(all),
		ReadingCount: agg.Folded(),
	}
}

// BuildPointView summarises raw readings without grid aggregation
func BuildPointView(readings []models.Reading) *models.PointView {
	if readings == nil {
		readings = []models.Reading{}
	}
	values := viz.ReadingValues(readings)
	return &models.PointView{
		Readings: readings,
		Buckets:  viz.CountBuckets(values),
		Summary:  stats.Summarize(values),
		Viewport: viz.ReadingsViewport(readings),
	}
}

// EmptyMapView is the view rendered when no readings could be loaded
func EmptyMapView(filter models.MapFilter) *models.MapView {
	return BuildMapView(nil, filter)
}

// MapService loads readings from the configured provider and aggregates them
type MapService struct {
	provider source.Provider
}

// NewMapService creates a new map service
func NewMapService(provider source.Provider) *MapService {
	return &MapService{provider: provider}
}

// GetMapView fetches the current reading set and aggregates it
func (s *MapService) GetMapView(ctx context.Context, filter models.MapFilter) (*models.MapView, error) {
	filter, err := NormalizeMapFilter(filter)
	if err != nil {
		return nil, err
	}

	readings, err := s.loadReadings(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	view := BuildMapView(readings, filter)
	metrics.AggregationDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.GridCells.Set(float64(len(view.Cells)))

	log.Printf("[MapService] Aggregated %d readings into %d cells (cellSize=%vm, minReadings=%d, focus=%v)",
		view.ReadingCount, view.TotalCells, view.CellSize, view.MinReadings, filter.Focus)
	return view, nil
}

// GetPointView fetches the current reading set without aggregating it
func (s *MapService) GetPointView(ctx context.Context) (*models.PointView, error) {
	readings, err := s.loadReadings(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPointView(readings), nil
}

func (s *MapService) loadReadings(ctx context.Context) ([]models.Reading, error) {
	result, err := s.provider.Readings(ctx)
	if err != nil {
		metrics.UpstreamFailuresTotal.Inc()
		return nil, fmt.Errorf("failed to load readings: %w", err)
	}
	if result.Skipped > 0 {
		metrics.MalformedRecordsTotal.Add(float64(result.Skipped))
	}
	return result.Readings, nil
}
