package main

import (
	"log"

	"github.com/trailwatch/gpsdrift/internal/api"
	"github.com/trailwatch/gpsdrift/internal/config"
	"github.com/trailwatch/gpsdrift/internal/database"

	// Import analyzer packages to register them
	_ "github.com/trailwatch/gpsdrift/internal/analysis/drift"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	migrator := database.NewMigrationManager(database.GetDB(), "./migrations")
	if err := migrator.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 初始化路由
	router := api.SetupRouter(cfg, database.GetDB())

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
