// Package repository defines the persistence contracts consumed by the
// service layer. Implementations live under infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/money"
	"github.com/google/uuid"
)

// CardRepository is the persistence boundary for cards. Writes pass secret
// fields through the encrypted-attribute codec; reads decrypt lazily, so
// methods that do not return secrets never pay for cryptography.
type CardRepository interface {
	// Create persists a new card, encrypting PAN, CVV and PIN. A duplicate
	// card number yields domain.ErrPANExists.
	Create(ctx context.Context, card *domain.Card) error

	// Get loads a card without secret fields. Missing rows yield
	// domain.ErrCardNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetOwned loads a card without secrets only if it belongs to ownerID.
	// Rows owned by someone else surface as domain.ErrCardNotFound, exactly
	// like missing rows.
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Card, error)

	// GetForUpdate loads a card without secrets and takes a row lock for the
	// remainder of the surrounding transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetWithSecrets loads a card and decrypts PAN, CVV and PIN.
	GetWithSecrets(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByOwner returns all cards of one user, without secrets.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error)

	// List returns all cards, without secrets. Admin-only call sites.
	List(ctx context.Context) ([]*domain.Card, error)

	// UpdateBalance overwrites the balance of one card.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error

	// UpdateStatus overwrites the status of one card.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error

	// UpdateExpiry overwrites the expiration date of one card.
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiry time.Time) error

	// Delete removes a card. Ledger rows referencing it are left untouched.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransferRepository is the append-only ledger. There is deliberately no
// update or delete, and no query surface beyond insertion; read-side
// reporting is an external concern.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
}

// UserRepository persists users for authentication and ownership checks.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UnitOfWork provides the transaction boundary and repository access in one
// abstraction, so every repository obtained inside Do shares the same DB
// session and the enclosed writes commit or roll back together.
type UnitOfWork interface {
	// Do executes fn within a transaction. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// CardRepository returns a card repository bound to the current session.
	CardRepository() (CardRepository, error)

	// TransferRepository returns a ledger repository bound to the current session.
	TransferRepository() (TransferRepository, error)

	// UserRepository returns a user repository bound to the current session.
	UserRepository() (UserRepository, error)
}
