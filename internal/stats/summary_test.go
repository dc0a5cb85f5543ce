package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/rci-backend-go/internal/models"
)

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.ValueSummary{}, Summarize(nil))
}

func TestSummarize_Single(t *testing.T) {
	s := Summarize([]float64{2.5})
	assert.Equal(t, models.ValueSummary{Count: 1, Min: 2.5, Max: 2.5, Mean: 2.5, Median: 2.5, P90: 2.5}, s)
}

func TestSummarize(t *testing.T) {
	values := []float64{4, 1, 3, 2, 5}
	s := Summarize(values)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.5811388300841898, s.StdDev, 1e-12)
	assert.InDelta(t, 3.0, s.Median, 1e-12)
	assert.InDelta(t, 4.6, s.P90, 1e-12)

	// input is left untouched
	assert.Equal(t, []float64{4, 1, 3, 2, 5}, values)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 10.0, Quantile(sorted, 1))
	assert.InDelta(t, 5.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 9.55, Quantile(sorted, 0.95), 1e-12)
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.95))
}
