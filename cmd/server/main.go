// @title Tradefair API
// @version 1.0
// @description Trade-fair conference scheduling: speakers, rooms, time slots, conferences, registrations and dashboards.
// @BasePath /
// @securityDefinitions.apikey APIKey
// @in header
// @name apikey
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"log"

	"tradefair/config"
	"tradefair/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogFile)

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
