package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
	"github.com/jengzang/rci-backend-go/internal/models"
	"github.com/jengzang/rci-backend-go/internal/service"
	"github.com/jengzang/rci-backend-go/pkg/response"
)

// MapHandler handles HTTP requests for the aggregated RCI map
type MapHandler struct {
	service *service.MapService
}

// NewMapHandler creates a new map handler
func NewMapHandler(service *service.MapService) *MapHandler {
	return &MapHandler{service: service}
}

// GetGrid handles GET /api/v1/map/grid
func (h *MapHandler) GetGrid(c *gin.Context) {
	var filter models.MapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	view, err := h.service.GetMapView(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, func() interface{} {
			normalized, nerr := service.NormalizeMapFilter(filter)
			if nerr != nil {
				return nil
			}
			return service.EmptyMapView(normalized)
		})
		return
	}

	response.Success(c, view)
}

// GetPoints handles GET /api/v1/map/points
func (h *MapHandler) GetPoints(c *gin.Context) {
	view, err := h.service.GetPointView(c.Request.Context())
	if err != nil {
		h.fail(c, err, func() interface{} { return service.BuildPointView(nil) })
		return
	}

	response.Success(c, view)
}

// fail reports err. A provider failure still carries an empty view so the
// map renders with no cells instead of breaking.
func (h *MapHandler) fail(c *gin.Context, err error, empty func() interface{}) {
	_ = c.Error(err)
	code := apperrors.HTTPStatus(err)
	switch code {
	case http.StatusBadGateway:
		log.Printf("[MapHandler] Reading provider failed: %v", err)
		response.ErrorWithData(c, code, "Failed to fetch map data.", empty())
	case http.StatusInternalServerError:
		log.Printf("[MapHandler] %v", err)
		response.InternalError(c, "Failed to load map data.")
	default:
		response.Error(c, code, err.Error())
	}
}
