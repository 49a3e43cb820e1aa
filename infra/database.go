// Package infra wires the persistence layer: the Postgres connection and the
// GORM-backed repositories under infra/repository.
package infra

import (
	"errors"
	"time"

	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/infra/repository/card"
	"github.com/dkurilov/bankcards/infra/repository/transfer"
	"github.com/dkurilov/bankcards/infra/repository/user"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the Postgres connection described by cnf. SQL logging
// is verbose only in the development environment.
func NewDBConnection(cnf config.DB, appEnv string) (*gorm.DB, error) {
	if cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	connection, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// Migrate creates or updates the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&card.Card{}, &transfer.Transfer{}, &user.User{})
}
