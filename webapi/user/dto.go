package user

import (
	"time"

	"github.com/dkurilov/bankcards/pkg/domain"
)

// NewUserInput is the request body for user registration.
type NewUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserRead is the user representation returned to clients. It never carries
// the password hash.
type UserRead struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserRead(u *domain.User) UserRead {
	return UserRead{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
