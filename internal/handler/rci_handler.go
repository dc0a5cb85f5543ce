package handler

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/merge"
	"github.com/jengzang/rci-backend-go/internal/service"
	"github.com/jengzang/rci-backend-go/pkg/response"
)

// RCIHandler handles RCI calculation requests
type RCIHandler struct {
	service     *service.RCIService
	maxFileSize int64
}

// NewRCIHandler creates a new RCI handler
func NewRCIHandler(service *service.RCIService, maxFileSize int64) *RCIHandler {
	return &RCIHandler{service: service, maxFileSize: maxFileSize}
}

// Calculate handles POST /api/v1/readings/calculate. The processed log is
// returned as a CSV attachment, or stored when store=true.
func (h *RCIHandler) Calculate(c *gin.Context) {
	store, err := strconv.ParseBool(c.DefaultQuery("store", "false"))
	if err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
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

	if store {
		result, err := h.service.CalculateAndStore(c.Request.Context(), fh.Filename, f)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	result, err := h.service.Calculate(c.Request.Context(), fh.Filename, f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ProcessedFileName(fh.Filename)))
	c.Status(http.StatusOK)
	if err := result.WriteCSV(c.Writer); err != nil {
		log.Printf("[RCIHandler] %v", err)
		_ = c.Error(err)
		panic(http.ErrAbortHandler)
	}
}
