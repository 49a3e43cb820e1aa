package user

import (
	"context"
	"errors"

	"github.com/dkurilov/bankcards/pkg/domain"
	repo "github.com/dkurilov/bankcards/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a user repository bound to the given session.
func New(db *gorm.DB) repo.UserRepository {
	return &repository{db: db}
}

// Create implements repository.UserRepository.
func (r *repository) Create(ctx context.Context, u *domain.User) error {
	m := mapDomainToModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return err
	}
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return nil
}

// Get implements repository.UserRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername implements repository.UserRepository.
func (r *repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail implements repository.UserRepository.
func (r *repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *repository) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, append([]any{query}, args...)...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

func mapDomainToModel(u *domain.User) User {
	return User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
	}
}

func mapModelToDomain(m *User) *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		Role:           domain.Role(m.Role),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
