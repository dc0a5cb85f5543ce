package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/metrics"
	"github.com/jengzang/rci-backend-go/internal/models"
	"github.com/jengzang/rci-backend-go/internal/repository"
	"github.com/jengzang/rci-backend-go/internal/source"
)

// ReadingService manages the local reading store. It also serves as the
// store-backed reading provider for the map.
type ReadingService struct {
	repo *repository.ReadingRepository
}

// NewReadingService creates a new reading service
func NewReadingService(repo *repository.ReadingRepository) *ReadingService {
	return &ReadingService{repo: repo}
}

// Upload parses a processed RCI CSV and stores its valid readings
func (s *ReadingService) Upload(ctx context.Context, fileName string, r io.Reader) (*models.UploadResult, error) {
	parsed, err := source.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	if len(parsed.Readings) == 0 {
		return nil, fmt.Errorf("%s contains no valid readings (%d malformed rows): %w", fileName, parsed.Skipped, apperrors.ErrEmptyInput)
	}

	result := &models.UploadResult{
		UploadID: uuid.NewString(),
		FileName: fileName,
		Stored:   len(parsed.Readings),
		Skipped:  parsed.Skipped,
	}
	if err := s.repo.InsertUpload(ctx, *result, parsed.Readings); err != nil {
		return nil, fmt.Errorf("failed to store readings: %w", err)
	}

	total, err := s.repo.CountReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count readings: %w", err)
	}
	result.Total = total

	metrics.ReadingsStoredTotal.Add(float64(result.Stored))
	metrics.MalformedRecordsTotal.Add(float64(result.Skipped))
	log.Printf("[ReadingService] Stored %d readings from %s as upload %s (%d skipped)",
		result.Stored, fileName, result.UploadID, result.Skipped)
	return result, nil
}

// GetReadings returns every stored reading
func (s *ReadingService) GetReadings(ctx context.Context) ([]models.Reading, error) {
	readings, err := s.repo.GetReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get readings: %w", err)
	}
	return readings, nil
}

// Readings implements source.Provider over the local store
func (s *ReadingService) Readings(ctx context.Context) (*source.ParseResult, error) {
	readings, err := s.GetReadings(ctx)
	if err != nil {
		return nil, err
	}
	return &source.ParseResult{Readings: readings}, nil
}

// Clear removes every stored reading
func (s *ReadingService) Clear(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear readings: %w", err)
	}
	log.Printf("[ReadingService] Cleared %d readings", removed)
	return removed, nil
}
