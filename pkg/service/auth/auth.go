// Package auth authenticates users and issues JWT access tokens carrying the
// actor identity used by the access-scoping layer.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/repository"
	"github.com/dkurilov/bankcards/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dummyHash is compared against when the identity does not resolve to a user,
// so lookups and password failures take the same time.
const dummyHash = "$2a$14$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service authenticates users and mints tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth Service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login resolves identity as an email when it parses as one, otherwise as a
// username, and verifies the password. Unknown identity and wrong password
// both return domain.ErrUserUnauthorized.
func (s *Service) Login(ctx context.Context, identity, password string) (*domain.User, error) {
	log := s.logger.With("identity", identity)

	var u *domain.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if utils.IsEmail(identity) {
			u, err = users.GetByEmail(ctx, identity)
		} else {
			u, err = users.GetByUsername(ctx, identity)
		}
		if err != nil {
			// Burn a hash comparison anyway so a missing user is not
			// distinguishable by response time.
			_ = utils.CheckPasswordHash(password, dummyHash)
			return domain.ErrUserUnauthorized
		}
		if !utils.CheckPasswordHash(password, u.HashedPassword) {
			return domain.ErrUserUnauthorized
		}
		return nil
	})
	if err != nil {
		log.Warn("login failed", "error", err)
		return nil, err
	}
	log.Info("login successful", "userID", u.ID)
	return u, nil
}

// GenerateToken signs an HS256 token for the user with the configured expiry.
func (s *Service) GenerateToken(u *domain.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = u.ID.String()
	claims["role"] = string(u.Role)
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()

	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("token signing failed", "userID", u.ID, "error", err)
		return "", err
	}
	return signed, nil
}

// ActorFromToken extracts the actor identity from a verified token. Malformed
// claims return domain.ErrUserUnauthorized.
func ActorFromToken(token *jwt.Token) (domain.Actor, error) {
	if token == nil {
		return domain.Actor{}, domain.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, domain.ErrUserUnauthorized
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return domain.Actor{}, domain.ErrUserUnauthorized
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Actor{}, domain.ErrUserUnauthorized
	}

	role := domain.RoleUser
	if raw, ok := claims["role"].(string); ok && domain.Role(raw) == domain.RoleAdmin {
		role = domain.RoleAdmin
	}
	return domain.Actor{ID: id, Role: role}, nil
}
