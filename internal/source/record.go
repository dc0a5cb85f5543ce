// Package source turns tabular and JSON reading feeds into validated readings
// and fetches them from the configured provider.
package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/models"
)

// ParseResult holds the readings parsed from one feed
type ParseResult struct {
	Readings []models.Reading
	Skipped  int // Malformed rows excluded from Readings
}

// Validate checks that a reading carries finite numbers and a coordinate on
// the globe
func Validate(r models.Reading) error {
	for _, v := range []float64{r.Value, r.Latitude, r.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite field: %w", apperrors.ErrMalformedRecord)
		}
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range: %w", r.Latitude, apperrors.ErrMalformedRecord)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range: %w", r.Longitude, apperrors.ErrMalformedRecord)
	}
	return nil
}

// ParseReading builds a reading from its textual fields
func ParseReading(value, lat, lng string) (models.Reading, error) {
	fields := [3]float64{}
	for i, raw := range []string{value, lat, lng} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return models.Reading{}, fmt.Errorf("missing field: %w", apperrors.ErrMalformedRecord)
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Reading{}, fmt.Errorf("invalid number %q: %w", raw, apperrors.ErrMalformedRecord)
		}
		fields[i] = f
	}

	r := models.Reading{Value: fields[0], Latitude: fields[1], Longitude: fields[2]}
	if err := Validate(r); err != nil {
		return models.Reading{}, err
	}
	return r, nil
}

// SplitCoordinate splits a "lat,lng" coordinate cell
func SplitCoordinate(coordinate string) (lat, lng string, err error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(coordinate), "()[]"), ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid coordinate %q: %w", coordinate, apperrors.ErrMalformedRecord)
	}
	return parts[0], parts[1], nil
}
