package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

// Column names recognised in reading CSV files
const (
	ColumnRCI        = "ride_comfort_index"
	ColumnLatitude   = "latitude"
	ColumnLongitude  = "longitude"
	ColumnCoordinate = "coordinate"
)

const utf8BOM = "\ufeff"

// csvLayout records where the reading fields live in a CSV row
type csvLayout struct {
	rci, lat, lng, coordinate int
}

func newCSVLayout(header []string) (csvLayout, error) {
	layout := csvLayout{rci: -1, lat: -1, lng: -1, coordinate: -1}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnRCI:
			layout.rci = i
		case ColumnLatitude, "lat":
			layout.lat = i
		case ColumnLongitude, "lng", "lon":
			layout.lng = i
		case ColumnCoordinate:
			layout.coordinate = i
		}
	}

	if layout.rci < 0 {
		return layout, fmt.Errorf("missing column Ride_Comfort_Index: %w", apperrors.ErrEmptyInput)
	}
	if (layout.lat < 0 || layout.lng < 0) && layout.coordinate < 0 {
		return layout, fmt.Errorf("missing latitude/longitude or coordinate column: %w", apperrors.ErrEmptyInput)
	}
	return layout, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseRow extracts a reading from a CSV row. Separate latitude/longitude
// columns win over a combined coordinate column.
func (l csvLayout) parseRow(row []string) (lat, lng, value string, err error) {
	value = field(row, l.rci)
	if l.lat >= 0 && l.lng >= 0 {
		return field(row, l.lat), field(row, l.lng), value, nil
	}
	lat, lng, err = SplitCoordinate(field(row, l.coordinate))
	return lat, lng, value, err
}

// ParseCSV reads a reading CSV with a header row. Malformed rows are counted
// and skipped; only I/O errors and a missing required column are fatal.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row: %w", apperrors.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	layout, err := newCSVLayout(header)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		lat, lng, value, err := layout.parseRow(row)
		if err != nil {
			result.Skipped++
			continue
		}
		reading, err := ParseReading(value, lat, lng)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Readings = append(result.Readings, reading)
	}

	return result, nil
}
