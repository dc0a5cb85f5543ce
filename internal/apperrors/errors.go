// Package apperrors defines the error kinds shared by the ingestion and
// aggregation pipeline. Callers wrap them with fmt.Errorf("...: %w") and
// handlers classify them with errors.Is.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnsupportedFileType is returned when a non-tabular file is submitted
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrHeaderMismatch is returned when merged files disagree on the header line
	ErrHeaderMismatch = errors.New("header mismatch")
	// ErrEmptyInput is returned when no files or no usable rows were provided
	ErrEmptyInput = errors.New("empty input")
	// ErrFileTooLarge is returned when an uploaded file exceeds the per-file cap
	ErrFileTooLarge = errors.New("file too large")
	// ErrUpstreamFetch is returned when the reading provider is unreachable or
	// answers with a non-success status
	ErrUpstreamFetch = errors.New("upstream fetch failure")
	// ErrInvalidParameter is returned for out-of-range query parameters
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrMalformedRecord marks a row missing a required numeric field.
	// Such rows are skipped, never fatal.
	ErrMalformedRecord = errors.New("malformed record")
)

// HTTPStatus maps an error to the status code reported to clients
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrHeaderMismatch),
		errors.Is(err, ErrEmptyInput),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, ErrMalformedRecord):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
