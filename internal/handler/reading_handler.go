package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/merge"
	"github.com/jengzang/rci-backend-go/internal/service"
	"github.com/jengzang/rci-backend-go/pkg/response"
)

// ReadingHandler handles HTTP requests for the reading store
type ReadingHandler struct {
	service     *service.ReadingService
	maxFileSize int64
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(service *service.ReadingService, maxFileSize int64) *ReadingHandler {
	return &ReadingHandler{service: service, maxFileSize: maxFileSize}
}

// Upload handles POST /api/v1/readings/upload
func (h *ReadingHandler) Upload(c *gin.Context) {
	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Expected a multipart form with a file field.")
		return
	}
	if err := merge.CheckUploads([]*multipart.FileHeader{fh}, merge.Limits{MaxFileSize: h.maxFileSize}); err != nil {
		response.FromError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	result, err := h.service.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// List handles GET /api/v1/readings. The body is the bare reading array the
// map-data feed serves, so the store can stand in for that feed.
func (h *ReadingHandler) List(c *gin.Context) {
	readings, err := h.service.GetReadings(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// Clear handles DELETE /api/v1/readings
func (h *ReadingHandler) Clear(c *gin.Context) {
	removed, err := h.service.Clear(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}
