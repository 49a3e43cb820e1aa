// Package user provides user account management.
package user

import (
	"context"
	"log/slog"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/repository"
	"github.com/dkurilov/bankcards/pkg/utils"
	"github.com/google/uuid"
)

// Service manages user accounts.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create registers a new user with the USER role. The password is stored as a
// bcrypt hash only.
func (s *Service) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.create(ctx, username, email, password, domain.RoleUser)
}

// CreateAdmin registers a new user with the ADMIN role. Reachable only from
// the bootstrap CLI, never from the HTTP surface.
func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.create(ctx, username, email, password, domain.RoleAdmin)
}

func (s *Service) create(
	ctx context.Context,
	username, email, password string,
	role domain.Role,
) (*domain.User, error) {
	if !utils.IsEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		Role:           role,
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		return users.Create(ctx, u)
	})
	if err != nil {
		s.logger.Error("user creation failed", "username", username, "error", err)
		return nil, err
	}
	s.logger.Info("user created", "userID", u.ID, "role", role)
	u.HashedPassword = ""
	return u, nil
}

// Get returns a user profile. Non-admin actors may only read themselves.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.User, error) {
	if !actor.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	var u *domain.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.HashedPassword = ""
	return u, nil
}
