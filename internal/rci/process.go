package rci

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

const (
	// OutputColumn is the column the index is written to
	OutputColumn = "Ride_Comfort_Index"
	// MaxPDOP drops GPS fixes whose position dilution of precision is worse
	MaxPDOP = 1000.0
)

var axisColumns = []string{"X", "Y", "Z"}

// Result is a processed sensor log: the input rows that produced an index,
// each with the index in OutputColumn
type Result struct {
	Header   []string
	Rows     [][]string
	Computed int // Rows with an index
	Filtered int // Rows dropped for a missing or excessive pdop
	Failed   int // Rows dropped because an axis had no usable samples
}

type layout struct {
	axes   [3]int
	pdop   int
	output int
}

func newLayout(header []string) (layout, error) {
	l := layout{pdop: -1, output: -1}
	for i := range l.axes {
		l.axes[i] = -1
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		for a, axis := range axisColumns {
			if strings.EqualFold(name, axis) {
				l.axes[a] = i
			}
		}
		switch {
		case strings.EqualFold(name, "pdop"):
			l.pdop = i
		case strings.EqualFold(name, OutputColumn):
			l.output = i
		}
	}
	for a, idx := range l.axes {
		if idx < 0 {
			return l, fmt.Errorf("missing required column %s: %w", axisColumns[a], apperrors.ErrEmptyInput)
		}
	}
	return l, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// keep reports whether a row passes the pdop filter. Rows with an unreadable
// pdop are dropped along with those above MaxPDOP.
func (l layout) keep(row []string) bool {
	if l.pdop < 0 {
		return true
	}
	pdop, err := strconv.ParseFloat(strings.TrimSpace(cell(row, l.pdop)), 64)
	return err == nil && pdop <= MaxPDOP
}

// Process reads a raw sensor log and computes the index of every row.
// Columns other than the index pass through unchanged. A log without the
// X, Y and Z columns, with no samples in one of them, or with no row left
// to report is rejected with apperrors.ErrEmptyInput.
func Process(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row: %w", apperrors.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	l, err := newLayout(header)
	if err != nil {
		return nil, err
	}

	result := &Result{Header: append([]string(nil), header...)}
	if l.output < 0 {
		l.output = len(result.Header)
		result.Header = append(result.Header, OutputColumn)
	}

	type window struct {
		row  []string
		axes [3][]float64
	}
	var windows []window
	var sampled [3]int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Failed++
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if !l.keep(row) {
			result.Filtered++
			continue
		}

		w := window{row: row}
		for a, idx := range l.axes {
			w.axes[a] = ParseSamples(cell(row, idx))
			sampled[a] += len(w.axes[a])
		}
		windows = append(windows, w)
	}

	if len(windows) == 0 && result.Filtered > 0 {
		return nil, fmt.Errorf("all %d rows filtered out by pdop > %v: %w", result.Filtered, MaxPDOP, apperrors.ErrEmptyInput)
	}
	for a, n := range sampled {
		if n == 0 {
			return nil, fmt.Errorf("no valid data in column %s: %w", axisColumns[a], apperrors.ErrEmptyInput)
		}
	}

	for _, w := range windows {
		index, err := Index(w.axes[0], w.axes[1], w.axes[2])
		if err != nil {
			result.Failed++
			continue
		}

		out := make([]string, len(result.Header))
		copy(out, w.row)
		out[l.output] = strconv.FormatFloat(index, 'f', 6, 64)
		result.Rows = append(result.Rows, out)
		result.Computed++
	}

	if result.Computed == 0 {
		return nil, fmt.Errorf("no row produced an index: %w", apperrors.ErrEmptyInput)
	}
	return result, nil
}

// WriteCSV writes the processed log with its header
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		return err
	}
	return cw.Error()
}
