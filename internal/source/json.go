package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jengzang/rci-backend-go/internal/models"
)

// jsonReading mirrors one element of the map-data feed. Pointers tell a
// missing field apart from a zero value.
type jsonReading struct {
	Value     *float64 `json:"Ride_Comfort_Index"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// DecodeJSON reads a JSON array of {Ride_Comfort_Index, latitude, longitude}
// objects. Elements that are not objects of three numbers are skipped.
func DecodeJSON(r io.Reader) (*ParseResult, error) {
	var elements []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elements); err != nil {
		return nil, fmt.Errorf("failed to decode reading array: %w", err)
	}

	result := &ParseResult{Readings: make([]models.Reading, 0, len(elements))}
	for _, raw := range elements {
		var jr jsonReading
		if err := json.Unmarshal(raw, &jr); err != nil || jr.Value == nil || jr.Latitude == nil || jr.Longitude == nil {
			result.Skipped++
			continue
		}

		reading := models.Reading{Value: *jr.Value, Latitude: *jr.Latitude, Longitude: *jr.Longitude}
		if err := Validate(reading); err != nil {
			result.Skipped++
			continue
		}
		result.Readings = append(result.Readings, reading)
	}

	return result, nil
}
