package repository

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/pkg/crypto"
	repo "github.com/dkurilov/bankcards/pkg/repository"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	codec, err := crypto.NewCodec(config.DevCryptoKeyB64, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return NewUoW(db, codec), mock
}

func TestUoW_Repositories(t *testing.T) {
	uow, _ := newMockUoW(t)

	cards, err := uow.CardRepository()
	assert.NoError(t, err)
	assert.NotNil(t, cards)

	transfers, err := uow.TransferRepository()
	assert.NoError(t, err)
	assert.NotNil(t, transfers)

	users, err := uow.UserRepository()
	assert.NoError(t, err)
	assert.NotNil(t, users)
}

func TestUoW_DoCommits(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	var inner repo.UnitOfWork
	err := uow.Do(context.Background(), func(u repo.UnitOfWork) error {
		inner = u
		return nil
	})
	assert.NoError(t, err)
	assert.NotNil(t, inner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBackAndKeepsError(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("boom")
	err := uow.Do(context.Background(), func(u repo.UnitOfWork) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
