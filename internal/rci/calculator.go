package rci

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/jengzang/rci-backend-go/internal/stats"
)

const (
	// Gravity converts samples in g to m/s²
	Gravity = 9.81
	// ScalingFactor maps the weighted vector magnitude onto the RCI scale
	ScalingFactor = 0.01
	// PercentileRank is the percentile taken of each weighted axis
	PercentileRank = 95.0
)

var errNoSamples = errors.New("axis has no samples")

// ParseSamples reads an acceleration cell. It accepts a JSON array, a single
// number, or comma-separated numbers with optional brackets. Anything else,
// including an empty cell, yields nil.
func ParseSamples(cell string) []float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return nil
	}

	var list []float64
	if err := json.Unmarshal([]byte(cell), &list); err == nil {
		return list
	}
	var single float64
	if err := json.Unmarshal([]byte(cell), &single); err == nil {
		return []float64{single}
	}

	parts := strings.Split(strings.Trim(cell, "[]"), ",")
	samples := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil
		}
		samples = append(samples, v)
	}
	return samples
}

// Index computes the Ride Comfort Index of one window. x and y are weighted
// as horizontal axes, z as the vertical axis.
func Index(x, y, z []float64) (float64, error) {
	axes := []struct {
		samples []float64
		weight  WeightFunc
	}{
		{x, WeightWd},
		{y, WeightWd},
		{z, WeightWk},
	}

	p95 := make([]float64, len(axes))
	for i, axis := range axes {
		if len(axis.samples) == 0 {
			return 0, errNoSamples
		}
		mps2 := make([]float64, len(axis.samples))
		copy(mps2, axis.samples)
		floats.Scale(Gravity, mps2)

		weighted := Weighted(mps2, SampleRate, axis.weight)
		sort.Float64s(weighted)
		p95[i] = stats.Quantile(weighted, PercentileRank/100)
	}

	index := ScalingFactor * floats.Norm(p95, 2)
	if math.IsNaN(index) || math.IsInf(index, 0) {
		return 0, fmt.Errorf("non-finite index %v", index)
	}
	return index, nil
}
