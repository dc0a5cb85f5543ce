// Package stats summarises the distribution of RCI values shown on the map.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/rci-backend-go/internal/models"
)

// Summarize returns the distribution summary of values. Quantiles use linear
// interpolation between closest ranks. An empty input yields a zero summary.
func Summarize(values []float64) models.ValueSummary {
	if len(values) == 0 {
		return models.ValueSummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}

	return models.ValueSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		StdDev: std,
		Median: Quantile(sorted, 0.5),
		P90:    Quantile(sorted, 0.9),
	}
}

// Quantile returns the q-th quantile (0 <= q <= 1) of sorted values,
// interpolating linearly between closest ranks. sorted must not be empty.
func Quantile(sorted []float64, q float64) float64 {
	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
