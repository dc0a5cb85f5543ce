package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithData sends an error response that still carries a payload
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// FromError sends err with the status its error kind maps to. Internal
// errors are recorded on the context but not echoed to the client.
func FromError(c *gin.Context, err error) {
	_ = c.Error(err)
	code := apperrors.HTTPStatus(err)
	if code == http.StatusInternalServerError {
		InternalError(c, "Internal server error")
		return
	}
	Error(c, code, err.Error())
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}
