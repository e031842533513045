package main

import (
	"log"

	"goimpact/app"
	"goimpact/internal"
	"goimpact/internal/config"
	"goimpact/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level), log.Writer())
	service := app.NewAnalysisService(logger)

	server := ui.NewServer(service, ui.Options{
		GinMode:        appConfig.Server.GinMode,
		CacheTTL:       appConfig.Cache.TTL,
		MaxUploadBytes: appConfig.Server.MaxUploadBytes,
		Logger:         logger,
	})

	logger.Info("starting goimpact server",
		"port", appConfig.Server.Port,
		"gin_mode", appConfig.Server.GinMode,
		"cache_ttl", appConfig.Cache.TTL.String())

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
