package main

import (
	"niseko/config"
	"niseko/di"
	"niseko/helper"
	"niseko/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Niseko Guest Sessions API
// @version 1.0
// @description Guest check-in, session and staff task API for The 1898 Niseko.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
