package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger middleware logs HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		// Streamed responses report the bytes actually written
		log.Printf("[%s] %s %s %d %dB %v %s",
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
			c.Errors.String(),
		)
	}
}
