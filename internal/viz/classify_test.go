package viz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rci-backend-go/internal/models"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		value  float64
		bucket int
		color  string
	}{
		{-3, 1, "blue"},
		{0, 1, "blue"},
		{0.999, 1, "blue"},
		{1.0, 2, "green"},
		{1.999, 2, "green"},
		{2.0, 3, "yellow"},
		{3.5, 4, "orange"},
		{4.0, 5, "red"},
		{4.999, 5, "red"},
		{5.0, 6, "darkred"},
		{120, 6, "darkred"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.bucket, Bucket(tt.value), "value %v", tt.value)
		assert.Equal(t, tt.color, Color(tt.value), "value %v", tt.value)
	}
}

func TestRadius(t *testing.T) {
	assert.Equal(t, MinRadius, Radius(0))
	assert.Equal(t, MinRadius, Radius(1)) // 3*log2(2) = 3
	assert.InDelta(t, 3*math.Log2(8), Radius(7), 1e-12)
	assert.Equal(t, MaxRadius, Radius(100000))

	prev := 0.0
	for count := 1; count < 5000; count *= 2 {
		r := Radius(count)
		assert.GreaterOrEqual(t, r, prev)
		prev = r
	}
}

func TestOpacity(t *testing.T) {
	assert.InDelta(t, 0.40, Opacity(1), 1e-12)
	assert.InDelta(t, 0.60, Opacity(5), 1e-12)
	assert.Equal(t, MaxOpacity, Opacity(11))
	assert.Equal(t, MaxOpacity, Opacity(50000))
	assert.InDelta(t, BaseOpacity, Opacity(-4), 1e-12)
}

func TestClassifyAndStyle(t *testing.T) {
	cells := []models.GridCell{
		{AvgValue: 0.5, Count: 1},
		{AvgValue: 5.2, Count: 40},
	}

	styled := Style(cells)
	require.Len(t, styled, 2)
	assert.Equal(t, 1, styled[0].Style.Bucket)
	assert.Equal(t, "blue", styled[0].Style.Color)
	assert.Equal(t, MinRadius, styled[0].Style.Radius)
	assert.InDelta(t, 0.4, styled[0].Style.Opacity, 1e-12)
	assert.Equal(t, 6, styled[1].Style.Bucket)
	assert.Equal(t, "darkred", styled[1].Style.Color)
	assert.Equal(t, 40, styled[1].Count)
}

func TestCountBuckets(t *testing.T) {
	counts := CountBuckets([]float64{0.2, 0.999, 1, 2.5, 5, 7})
	require.Len(t, counts, NumBuckets)

	got := make([]int, len(counts))
	for i, c := range counts {
		assert.Equal(t, i+1, c.Bucket)
		got[i] = c.Count
	}
	assert.Equal(t, []int{2, 1, 1, 0, 0, 2}, got)
	assert.Equal(t, "1 ≤ RCI < 2", counts[1].Label)

	empty := CountBuckets(nil)
	require.Len(t, empty, NumBuckets)
	for _, c := range empty {
		assert.Zero(t, c.Count)
	}
}
