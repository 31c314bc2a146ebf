package main

import (
	"log"

	"github.com/sitefiler/backend/internal/config"
	"github.com/sitefiler/backend/internal/database"
	"github.com/sitefiler/backend/pkg/logger"
)

func main() {
	logger.Init()

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed getting raw connection: %v", err)
	}
	defer sqlDB.Close()

	logger.Info("schema_migrated", map[string]interface{}{
		"database": cfg.DB.Name,
		"host":     cfg.DB.Host,
	})
}
