package main

import (
	"fmt"

	log "github.com/charmbracelet/log"

	"github.com/dkurilov/bankcards/infra/initializer"
	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/webapi"
)

// @title Bank Cards API
// @version 1.0.0
// @description Card management and transfer API
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app := webapi.SetupApp(cfg, deps.Services)

	deps.Logger.Info("starting server", "env", cfg.Env, "address", cfg.Addr())
	return app.Listen(cfg.Addr())
}
