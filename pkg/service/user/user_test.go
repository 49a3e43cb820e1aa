package user_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/service/user"
	"github.com/dkurilov/bankcards/pkg/testutils"
	"github.com/dkurilov/bankcards/pkg/utils"
)

func newService() (*testutils.MemoryUoW, *user.Service) {
	uow := testutils.NewMemoryUoW()
	return uow, user.New(uow, slog.New(slog.DiscardHandler))
}

func TestCreate(t *testing.T) {
	uow, svc := newService()

	created, err := svc.Create(context.Background(), "bob", "bob@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.Empty(t, created.HashedPassword)

	stored, err := uow.UserRepository()
	require.NoError(t, err)
	fromRepo, err := stored.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", fromRepo.HashedPassword)
	assert.True(t, utils.CheckPasswordHash("s3cretpass", fromRepo.HashedPassword))

	_, err = svc.Create(context.Background(), "bob", "other@example.com", "s3cretpass")
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = svc.Create(context.Background(), "carol", "not-an-email", "s3cretpass")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestCreateAdmin(t *testing.T) {
	_, svc := newService()

	admin, err := svc.CreateAdmin(context.Background(), "root", "root@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestGet_Scoping(t *testing.T) {
	uow, svc := newService()
	id := uow.SeedUser(domain.User{
		ID:       uuid.New(),
		Username: "bob",
		Email:    "bob@example.com",
		Role:     domain.RoleUser,
	})

	self := domain.Actor{ID: id, Role: domain.RoleUser}
	u, err := svc.Get(context.Background(), self, id)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.Empty(t, u.HashedPassword)

	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}
	_, err = svc.Get(context.Background(), stranger, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	_, err = svc.Get(context.Background(), admin, id)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
