package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rci-backend-go/internal/api"
	"github.com/jengzang/rci-backend-go/internal/config"
	"github.com/jengzang/rci-backend-go/internal/database"
)

func main() {
	// 加载配置
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	// 初始化路由
	router := api.SetupRouter(cfg, database.GetDB())

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
