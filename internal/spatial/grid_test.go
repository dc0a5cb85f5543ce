package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rci-backend-go/internal/models"
)

// randomReadings scatters readings around Yogyakarta, roughly 2 km across
func randomReadings(n int, seed int64) []models.Reading {
	rng := rand.New(rand.NewSource(seed))
	readings := make([]models.Reading, n)
	for i := range readings {
		readings[i] = models.Reading{
			Value:     rng.Float64() * 6,
			Latitude:  -7.797068 + (rng.Float64()-0.5)*0.02,
			Longitude: 110.370529 + (rng.Float64()-0.5)*0.02,
		}
	}
	return readings
}

func TestAggregate_Empty(t *testing.T) {
	cells := Aggregate(nil, DefaultCellSize)
	require.NotNil(t, cells)
	assert.Empty(t, cells)
}

func TestAggregate_ConservesCounts(t *testing.T) {
	readings := randomReadings(5000, 1)

	for _, size := range []float64{10, 100, 250, 1000} {
		cells := Aggregate(readings, size)

		total := 0
		for _, c := range cells {
			assert.GreaterOrEqual(t, c.Count, 1)
			total += c.Count
		}
		assert.Equal(t, len(readings), total, "cell size %v", size)
	}
}

func TestAggregate_MeanMatchesRecomputation(t *testing.T) {
	readings := randomReadings(3000, 7)
	cells := Aggregate(readings, DefaultCellSize)

	sums := make(map[models.CellKey]float64)
	counts := make(map[models.CellKey]int)
	for _, r := range readings {
		key, ok := KeyFor(DefaultCellSize, r)
		require.True(t, ok)
		sums[key] += r.Value
		counts[key]++
	}

	require.Len(t, cells, len(counts))
	for _, c := range cells {
		require.Contains(t, counts, c.Key)
		assert.Equal(t, counts[c.Key], c.Count)
		assert.InDelta(t, sums[c.Key]/float64(counts[c.Key]), c.AvgValue, 1e-9)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	readings := randomReadings(1000, 3)

	reversed := make([]models.Reading, len(readings))
	for i, r := range readings {
		reversed[len(readings)-1-i] = r
	}

	a := Aggregate(readings, DefaultCellSize)
	b := Aggregate(reversed, DefaultCellSize)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Key, b[i].Key)
		assert.Equal(t, a[i].Count, b[i].Count)
		assert.InDelta(t, a[i].AvgValue, b[i].AvgValue, 1e-9)
	}
}

func TestAggregate_SameCell(t *testing.T) {
	readings := []models.Reading{
		{Value: 1, Latitude: -7.79705, Longitude: 110.37091},
		{Value: 2, Latitude: -7.79706, Longitude: 110.37092},
		{Value: 6, Latitude: -7.79707, Longitude: 110.37093},
	}

	cells := Aggregate(readings, DefaultCellSize)
	require.Len(t, cells, 1)
	assert.Equal(t, 3, cells[0].Count)
	assert.InDelta(t, 3.0, cells[0].AvgValue, 1e-12)

	// The center sits half a step inside the cell's south-west corner
	latStep := LatStep(DefaultCellSize)
	assert.InDelta(t, float64(cells[0].Key.LatIndex)*latStep+latStep/2, cells[0].CenterLat, 1e-12)
	assert.InDelta(t, readings[0].Latitude, cells[0].CenterLat, latStep)
}

func TestAggregate_InvalidCellSizeFallsBack(t *testing.T) {
	agg := NewAggregator(0)
	assert.Equal(t, DefaultCellSize, agg.CellSize())

	agg = NewAggregator(-5)
	assert.Equal(t, DefaultCellSize, agg.CellSize())

	agg = NewAggregator(1e-14)
	assert.Equal(t, DefaultCellSize, agg.CellSize())

	agg = NewAggregator(MinCellSize)
	assert.Equal(t, MinCellSize, agg.CellSize())
}

func TestKeyFor_UnrepresentableIndex(t *testing.T) {
	_, ok := KeyFor(1e-14, models.Reading{Latitude: -7.80, Longitude: 110.36})
	assert.False(t, ok)

	_, ok = KeyFor(1e-14, models.Reading{Latitude: 45.0, Longitude: -120.0})
	assert.False(t, ok)

	key, ok := KeyFor(MinCellSize, models.Reading{Latitude: -89.9, Longitude: 179.9})
	assert.True(t, ok)
	assert.Less(t, key.LatIndex, int64(0))
}

func TestAggregator_DistantReadingsNeverShareCell(t *testing.T) {
	agg := NewAggregator(MinCellSize)
	assert.True(t, agg.Add(models.Reading{Value: 1, Latitude: -7.80, Longitude: 110.36}))
	assert.True(t, agg.Add(models.Reading{Value: 5, Latitude: 45.0, Longitude: -120.0}))

	cells := agg.Cells()
	require.Len(t, cells, 2)
	assert.Zero(t, agg.Dropped())
	for _, c := range cells {
		assert.Equal(t, 1, c.Count)
	}
}

func TestAggregator_CellsIsSnapshot(t *testing.T) {
	agg := NewAggregator(DefaultCellSize)
	agg.Add(models.Reading{Value: 2, Latitude: 10, Longitude: 20})

	snapshot := agg.Cells()
	snapshot[0].AvgValue = 99

	agg.Add(models.Reading{Value: 4, Latitude: 10, Longitude: 20})
	cells := agg.Cells()
	require.Len(t, cells, 1)
	assert.InDelta(t, 3.0, cells[0].AvgValue, 1e-12)
	assert.Equal(t, 2, agg.Folded())
}

func TestStepsApproximateCellSize(t *testing.T) {
	for _, lat := range []float64{-7.8, 0, 35.6, 60} {
		latStep := LatStep(DefaultCellSize)
		lngStep := LngStep(DefaultCellSize, lat)

		assert.InEpsilon(t, DefaultCellSize, HaversineDistance(lat, 110, lat+latStep, 110), 0.01, "lat %v", lat)
		assert.InEpsilon(t, DefaultCellSize, HaversineDistance(lat, 110, lat, 110+lngStep), 0.01, "lat %v", lat)
	}

	assert.Greater(t, LngStep(DefaultCellSize, 60), LngStep(DefaultCellSize, 0))
	assert.False(t, math.IsInf(LngStep(DefaultCellSize, -7.8), 0))
}

func TestFilterMinReadings(t *testing.T) {
	cells := []models.GridCell{
		{Key: models.CellKey{LatIndex: 1}, AvgValue: 1.5, Count: 1},
		{Key: models.CellKey{LatIndex: 2}, AvgValue: 2.5, Count: 3},
		{Key: models.CellKey{LatIndex: 3}, AvgValue: 3.5, Count: 10},
	}

	filtered := FilterMinReadings(cells, 3)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(2), filtered[0].Key.LatIndex)
	assert.Equal(t, 2.5, filtered[0].AvgValue)
	assert.Len(t, cells, 3)

	assert.Len(t, FilterMinReadings(cells, 0), 3)
	assert.Empty(t, FilterMinReadings(cells, 11))
}

func TestBoundingBox(t *testing.T) {
	_, ok := BoundingBox(nil)
	assert.False(t, ok)

	bounds, ok := BoundingBox([]models.LatLng{
		{Lat: -7.79, Lng: 110.36},
		{Lat: -7.80, Lng: 110.38},
	})
	require.True(t, ok)
	assert.Equal(t, models.LatLng{Lat: -7.80, Lng: 110.36}, bounds.SouthWest)
	assert.Equal(t, models.LatLng{Lat: -7.79, Lng: 110.38}, bounds.NorthEast)
	assert.InDelta(t, HaversineDistance(-7.80, 110.36, -7.79, 110.38), DiagonalMeters(bounds), 1e-9)
	assert.Zero(t, DiagonalMeters(models.Bounds{SouthWest: bounds.SouthWest, NorthEast: bounds.SouthWest}))
}
