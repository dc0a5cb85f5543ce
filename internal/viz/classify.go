// Package viz derives map presentation data from aggregated grid cells:
// colour buckets, marker weights and the viewport.
package viz

import (
	"math"

	"github.com/jengzang/rci-backend-go/internal/models"
)

// bucket is a half-open RCI interval [lower, upper)
type bucket struct {
	lower float64
	upper float64
	color string
	label string
}

var buckets = []bucket{
	{math.Inf(-1), 1, "blue", "RCI < 1"},
	{1, 2, "green", "1 ≤ RCI < 2"},
	{2, 3, "yellow", "2 ≤ RCI < 3"},
	{3, 4, "orange", "3 ≤ RCI < 4"},
	{4, 5, "red", "4 ≤ RCI < 5"},
	{5, math.Inf(1), "darkred", "RCI ≥ 5"},
}

// Marker weight policy
const (
	RadiusScale = 3.0
	MinRadius   = 3.0
	MaxRadius   = 15.0

	BaseOpacity = 0.35
	OpacityStep = 0.05
	MaxOpacity  = 0.9
)

// NumBuckets is the number of colour buckets
const NumBuckets = 6

// Bucket returns the 1-based colour bucket of an RCI value
func Bucket(value float64) int {
	for i, b := range buckets {
		if value >= b.lower && value < b.upper {
			return i + 1
		}
	}
	// NaN matches nothing; report it in the lowest bucket
	return 1
}

// Color returns the colour label for an RCI value
func Color(value float64) string {
	return buckets[Bucket(value)-1].color
}

// Radius returns the marker radius in pixels for a cell backed by count readings
func Radius(count int) float64 {
	r := RadiusScale * math.Log2(float64(count)+1)
	return math.Min(math.Max(r, MinRadius), MaxRadius)
}

// Opacity returns the marker fill opacity for a cell backed by count readings
func Opacity(count int) float64 {
	if count < 0 {
		count = 0
	}
	return math.Min(BaseOpacity+OpacityStep*float64(count), MaxOpacity)
}

// Classify returns the presentation attributes of a cell
func Classify(cell models.GridCell) models.CellStyle {
	b := Bucket(cell.AvgValue)
	return models.CellStyle{
		Bucket:  b,
		Color:   buckets[b-1].color,
		Radius:  Radius(cell.Count),
		Opacity: Opacity(cell.Count),
	}
}

// Style pairs every cell with its presentation attributes
func Style(cells []models.GridCell) []models.StyledCell {
	styled := make([]models.StyledCell, len(cells))
	for i, cell := range cells {
		styled[i] = models.StyledCell{GridCell: cell, Style: Classify(cell)}
	}
	return styled
}

// CountBuckets counts how many values fall in each colour bucket.
// The result always has NumBuckets entries in bucket order.
func CountBuckets(values []float64) []models.BucketCount {
	counts := make([]models.BucketCount, len(buckets))
	for i, b := range buckets {
		counts[i] = models.BucketCount{Bucket: i + 1, Label: b.label, Color: b.color}
	}
	for _, v := range values {
		counts[Bucket(v)-1].Count++
	}
	return counts
}

// CellValues returns the average value of each cell
func CellValues(cells []models.GridCell) []float64 {
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.AvgValue
	}
	return values
}

// ReadingValues returns the RCI value of each reading
func ReadingValues(readings []models.Reading) []float64 {
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.Value
	}
	return values
}
