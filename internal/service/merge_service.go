package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strings"

	"github.com/jengzang/rci-backend-go/internal/merge"
	"github.com/jengzang/rci-backend-go/internal/metrics"
)

// MergeService prepares and runs CSV merges
type MergeService struct {
	spoolDir string
	limits   merge.Limits
}

// NewMergeService creates a new merge service
func NewMergeService(spoolDir string, limits merge.Limits) *MergeService {
	return &MergeService{spoolDir: spoolDir, limits: limits}
}

// Limits returns the configured upload caps
func (s *MergeService) Limits() merge.Limits {
	return s.limits
}

// Prepare checks the uploaded parts, spools them and validates their headers.
// Nothing has been written to the client when it returns, so every failure
// can still be reported as a plain error response. The returned merger owns
// the spooled files.
func (s *MergeService) Prepare(ctx context.Context, files []*multipart.FileHeader) (*merge.Merger, error) {
	if err := merge.CheckUploads(files, s.limits); err != nil {
		metrics.MergeRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	inputs, err := merge.Spool(s.spoolDir, files)
	if err != nil {
		metrics.MergeRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	merger := merge.New(inputs)
	if err := merger.Validate(ctx); err != nil {
		metrics.MergeRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	return merger, nil
}

// Stream writes the merged CSV to w
func (s *MergeService) Stream(ctx context.Context, merger *merge.Merger, w io.Writer) (merge.Stats, error) {
	stats, err := merger.Merge(ctx, w)
	if err != nil {
		metrics.MergeRequestsTotal.WithLabelValues("aborted").Inc()
		return stats, fmt.Errorf("merge aborted: %w", err)
	}

	metrics.MergeRequestsTotal.WithLabelValues("ok").Inc()
	metrics.MergedFilesTotal.Add(float64(stats.Files))
	metrics.MergedRowsTotal.Add(float64(stats.Rows))
	log.Printf("[MergeService] Merged %d files, %d rows, %d bytes, %d columns",
		stats.Files, stats.Rows, stats.Bytes, len(strings.Split(stats.Header, ",")))
	return stats, nil
}
