package main

import (
	"github.com/rs/zerolog/log"

	"todo/internal/config"
	"todo/internal/logger"
	"todo/internal/server"
)

// @title           Task API
// @version         1.0
// @description     CRUD API for to-do tasks.

// @BasePath  /tasks

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Only checked when AUTH_ENABLED=true. Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}

	s, err := server.Init(cfg, appLog)
	if err != nil {
		appLog.Fatal().Err(err).Msg("server initialization failed")
	}

	s.Run()
}
