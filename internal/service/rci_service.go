package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/metrics"
	"github.com/jengzang/rci-backend-go/internal/models"
	"github.com/jengzang/rci-backend-go/internal/rci"
)

// RCIService turns raw sensor logs into processed RCI logs
type RCIService struct {
	readings *ReadingService
}

// NewRCIService creates a new RCI service. Processed logs can be stored
// through readings.
func NewRCIService(readings *ReadingService) *RCIService {
	return &RCIService{readings: readings}
}

// Calculate computes the index of every row of a raw sensor log
func (s *RCIService) Calculate(ctx context.Context, fileName string, r io.Reader) (*rci.Result, error) {
	result, err := rci.Process(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metrics.CalculatedRowsTotal.WithLabelValues("computed").Add(float64(result.Computed))
	metrics.CalculatedRowsTotal.WithLabelValues("filtered").Add(float64(result.Filtered))
	metrics.CalculatedRowsTotal.WithLabelValues("failed").Add(float64(result.Failed))
	log.Printf("[RCIService] %s: %d rows computed, %d filtered by pdop, %d without samples",
		fileName, result.Computed, result.Filtered, result.Failed)
	return result, nil
}

// CalculateAndStore computes a raw log and stores the processed rows as
// readings. The log needs coordinates for its rows to be stored.
func (s *RCIService) CalculateAndStore(ctx context.Context, fileName string, r io.Reader) (*models.UploadResult, error) {
	result, err := s.Calculate(ctx, fileName, r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := result.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("failed to render processed log: %w", err)
	}
	return s.readings.Upload(ctx, ProcessedFileName(fileName), &buf)
}

// ProcessedFileName names the processed form of a raw log
func ProcessedFileName(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".csv")
	if base == "" {
		base = "data"
	}
	return "processed_" + base + ".csv"
}
