// @title Interactive Textbook API
// @version 1.0
// @description Serves interactive e-book pages and records student interaction events.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"textbook_backend/internal/app"
	"textbook_backend/internal/config"
	"textbook_backend/pkg/configwatcher"
	"textbook_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
