// Package initializer wires configuration, logging, the database, the
// encrypted-attribute codec and the application services together for the
// server and CLI entrypoints.
package initializer

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/dkurilov/bankcards/infra"
	infrarepo "github.com/dkurilov/bankcards/infra/repository"
	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/pkg/crypto"
	repo "github.com/dkurilov/bankcards/pkg/repository"
	authsvc "github.com/dkurilov/bankcards/pkg/service/auth"
	cardsvc "github.com/dkurilov/bankcards/pkg/service/card"
	transfersvc "github.com/dkurilov/bankcards/pkg/service/transfer"
	usersvc "github.com/dkurilov/bankcards/pkg/service/user"
	"github.com/dkurilov/bankcards/webapi"
)

// Deps holds the initialized application dependencies.
type Deps struct {
	Logger   *slog.Logger
	DB       *gorm.DB
	Codec    *crypto.Codec
	Uow      repo.UnitOfWork
	Services webapi.Services
}

// InitializeDependencies builds everything the entrypoints need, running
// schema migration on the way.
func InitializeDependencies(cfg *config.App) (*Deps, error) {
	logger := setupLogger(cfg.Log)

	codec, err := crypto.NewCodec(cfg.Crypto.KeyB64, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attribute codec: %w", err)
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		return nil, err
	}
	if err := infra.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	uow := infrarepo.NewUoW(db, codec)

	return &Deps{
		Logger: logger,
		DB:     db,
		Codec:  codec,
		Uow:    uow,
		Services: webapi.Services{
			Auth:     authsvc.New(uow, cfg.Jwt, logger),
			User:     usersvc.New(uow, logger),
			Card:     cardsvc.New(uow, logger),
			Transfer: transfersvc.New(uow, logger),
		},
	}, nil
}
