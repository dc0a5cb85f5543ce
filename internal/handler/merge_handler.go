package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/service"
	"github.com/jengzang/rci-backend-go/pkg/response"
)

// multipartOverhead covers boundaries and part headers on top of file content
const multipartOverhead = 1 << 20

// MergeHandler handles CSV merge requests
type MergeHandler struct {
	service *service.MergeService
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(service *service.MergeService) *MergeHandler {
	return &MergeHandler{service: service}
}

// mergeMessage is the client-facing message for a rejected merge
func mergeMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrHeaderMismatch):
		return "All CSV files must have the same header structure."
	case errors.Is(err, apperrors.ErrUnsupportedFileType):
		return "Only CSV files are allowed."
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return "Files exceed the upload size limit."
	case errors.Is(err, apperrors.ErrEmptyInput):
		return "No files provided."
	default:
		return "Failed to merge files."
	}
}

// Merge handles POST /api/v1/merge
func (h *MergeHandler) Merge(c *gin.Context) {
	limits := h.service.Limits()
	if limits.MaxTotalSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxTotalSize+multipartOverhead)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusBadRequest, mergeMessage(apperrors.ErrFileTooLarge))
			return
		}
		response.Error(c, http.StatusBadRequest, "Expected a multipart form with files.")
		return
	}
	defer form.RemoveAll()

	merger, err := h.service.Prepare(c.Request.Context(), form.File["files"])
	if err != nil {
		log.Printf("[MergeHandler] Rejected merge: %v", err)
		_ = c.Error(err)
		response.Error(c, apperrors.HTTPStatus(err), mergeMessage(err))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="merged.csv"`)
	c.Status(http.StatusOK)

	if _, err := h.service.Stream(c.Request.Context(), merger, c.Writer); err != nil {
		log.Printf("[MergeHandler] %v", err)
		_ = c.Error(err)
		// Headers are gone; dropping the connection is the only way to tell
		// the client the attachment is incomplete.
		panic(http.ErrAbortHandler)
	}
}
