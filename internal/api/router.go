package api

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/config"
	"github.com/jengzang/rci-backend-go/internal/handler"
	"github.com/jengzang/rci-backend-go/internal/merge"
	"github.com/jengzang/rci-backend-go/internal/metrics"
	"github.com/jengzang/rci-backend-go/internal/middleware"
	"github.com/jengzang/rci-backend-go/internal/repository"
	"github.com/jengzang/rci-backend-go/internal/service"
	"github.com/jengzang/rci-backend-go/internal/source"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, conn *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), middleware.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "RCI Backend API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	readingService := service.NewReadingService(repository.NewReadingRepository(conn))
	mergeService := service.NewMergeService(cfg.SpoolDir, merge.Limits{
		MaxFileSize:  cfg.MaxFileSize,
		MaxTotalSize: cfg.MaxTotalSize,
	})

	var provider source.Provider = readingService
	if cfg.DataSource == config.SourceHTTP {
		provider = source.NewHTTPProvider(cfg.DataSourceURL, cfg.UpstreamTimeout)
	}
	log.Printf("[Router] Map readings come from %q", cfg.DataSource)

	mergeHandler := handler.NewMergeHandler(mergeService)
	readingHandler := handler.NewReadingHandler(readingService, cfg.MaxFileSize)
	mapHandler := handler.NewMapHandler(service.NewMapService(provider))
	rciHandler := handler.NewRCIHandler(service.NewRCIService(readingService), cfg.MaxFileSize)

	uploadLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// CSV 合并
		api.POST("/merge", uploadLimit, mergeHandler.Merge)

		// 读数存储
		readings := api.Group("/readings")
		{
			readings.POST("/upload", uploadLimit, readingHandler.Upload)
			readings.POST("/calculate", uploadLimit, rciHandler.Calculate)
			readings.GET("", readingHandler.List)
			readings.DELETE("", readingHandler.Clear)
		}

		// 地图聚合
		maps := api.Group("/map")
		{
			maps.GET("/grid", mapHandler.GetGrid)
			maps.GET("/points", mapHandler.GetPoints)
		}
	}

	return r
}
