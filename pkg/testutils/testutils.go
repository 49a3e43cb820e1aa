// Package testutils provides an in-memory unit of work and repository fakes
// for service-level tests, plus small helpers for exercising the HTTP app
// in-process. The fakes keep the real contracts: transactional rollback,
// not-found parity for foreign cards, duplicate-PAN rejection and
// secret-stripping on plain reads.
package testutils

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/money"
	"github.com/dkurilov/bankcards/pkg/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MemoryUoW implements repository.UnitOfWork over in-process maps. Do takes a
// global lock and snapshots all state, restoring it when fn fails, so tests
// observe the same all-or-nothing behavior as the database-backed UoW.
type MemoryUoW struct {
	mu        sync.Mutex
	cards     map[uuid.UUID]domain.Card
	transfers []domain.Transfer
	users     map[uuid.UUID]domain.User

	// FailCardUpdates makes every balance write fail, for persistence-error tests.
	FailCardUpdates bool
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{
		cards: make(map[uuid.UUID]domain.Card),
		users: make(map[uuid.UUID]domain.User),
	}
}

// Do implements repository.UnitOfWork.
func (u *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	cardsBackup := make(map[uuid.UUID]domain.Card, len(u.cards))
	for k, v := range u.cards {
		cardsBackup[k] = v
	}
	transfersBackup := append([]domain.Transfer(nil), u.transfers...)
	usersBackup := make(map[uuid.UUID]domain.User, len(u.users))
	for k, v := range u.users {
		usersBackup[k] = v
	}

	if err := fn(u); err != nil {
		u.cards = cardsBackup
		u.transfers = transfersBackup
		u.users = usersBackup
		return err
	}
	return nil
}

// CardRepository implements repository.UnitOfWork.
func (u *MemoryUoW) CardRepository() (repository.CardRepository, error) {
	return &memoryCardRepo{uow: u}, nil
}

// TransferRepository implements repository.UnitOfWork.
func (u *MemoryUoW) TransferRepository() (repository.TransferRepository, error) {
	return &memoryTransferRepo{uow: u}, nil
}

// UserRepository implements repository.UnitOfWork.
func (u *MemoryUoW) UserRepository() (repository.UserRepository, error) {
	return &memoryUserRepo{uow: u}, nil
}

// SeedCard stores a card directly, bypassing validation. Returns its id.
func (u *MemoryUoW) SeedCard(c domain.Card) uuid.UUID {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	u.cards[c.ID] = c
	return c.ID
}

// SeedUser stores a user directly.
func (u *MemoryUoW) SeedUser(usr domain.User) uuid.UUID {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	u.users[usr.ID] = usr
	return usr.ID
}

// CardBalance returns the stored balance of a card.
func (u *MemoryUoW) CardBalance(id uuid.UUID) money.Amount {
	return u.cards[id].Balance
}

// CardStatus returns the stored status of a card.
func (u *MemoryUoW) CardStatus(id uuid.UUID) domain.CardStatus {
	return u.cards[id].Status
}

// StoredCard returns a copy of the raw stored card (secrets included).
func (u *MemoryUoW) StoredCard(id uuid.UUID) (domain.Card, bool) {
	c, ok := u.cards[id]
	return c, ok
}

// Transfers returns a copy of the ledger contents.
func (u *MemoryUoW) Transfers() []domain.Transfer {
	return append([]domain.Transfer(nil), u.transfers...)
}

type memoryCardRepo struct {
	uow *MemoryUoW
}

func (r *memoryCardRepo) Create(ctx context.Context, c *domain.Card) error {
	if err := domain.ValidateSecrets(c.PAN, c.CVV, c.PIN); err != nil {
		return err
	}
	for _, existing := range r.uow.cards {
		if existing.PAN == c.PAN {
			return domain.ErrPANExists
		}
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.uow.cards[c.ID] = *c
	return nil
}

func (r *memoryCardRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	c, ok := r.uow.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	return stripSecrets(c), nil
}

func (r *memoryCardRepo) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Card, error) {
	c, ok := r.uow.cards[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrCardNotFound
	}
	return stripSecrets(c), nil
}

func (r *memoryCardRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return r.Get(ctx, id)
}

func (r *memoryCardRepo) GetWithSecrets(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	c, ok := r.uow.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	out := c
	return &out, nil
}

func (r *memoryCardRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range r.uow.cards {
		if c.OwnerID == ownerID {
			out = append(out, stripSecrets(c))
		}
	}
	return out, nil
}

func (r *memoryCardRepo) List(ctx context.Context) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range r.uow.cards {
		out = append(out, stripSecrets(c))
	}
	return out, nil
}

func (r *memoryCardRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	if r.uow.FailCardUpdates {
		return errFakePersistence
	}
	c, ok := r.uow.cards[id]
	if !ok {
		return domain.ErrCardNotFound
	}
	c.Balance = balance
	c.UpdatedAt = time.Now()
	r.uow.cards[id] = c
	return nil
}

func (r *memoryCardRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error {
	c, ok := r.uow.cards[id]
	if !ok {
		return domain.ErrCardNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.uow.cards[id] = c
	return nil
}

func (r *memoryCardRepo) UpdateExpiry(ctx context.Context, id uuid.UUID, expiry time.Time) error {
	c, ok := r.uow.cards[id]
	if !ok {
		return domain.ErrCardNotFound
	}
	c.Expiry = expiry
	c.UpdatedAt = time.Now()
	r.uow.cards[id] = c
	return nil
}

func (r *memoryCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.uow.cards[id]; !ok {
		return domain.ErrCardNotFound
	}
	delete(r.uow.cards, id)
	return nil
}

type memoryTransferRepo struct {
	uow *MemoryUoW
}

func (r *memoryTransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	t.CreatedAt = time.Now()
	r.uow.transfers = append(r.uow.transfers, *t)
	return nil
}

type memoryUserRepo struct {
	uow *MemoryUoW
}

func (r *memoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range r.uow.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.uow.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.uow.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.uow.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.uow.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func stripSecrets(c domain.Card) *domain.Card {
	c.PAN, c.CVV, c.PIN = "", "", ""
	return &c
}

var errFakePersistence = fakePersistenceError{}

type fakePersistenceError struct{}

func (fakePersistenceError) Error() string { return "simulated persistence failure" }

// MakeRequestWithApp sends an in-process request to a fiber app and returns
// the response. An empty token skips the Authorization header.
func MakeRequestWithApp(app *fiber.App, method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	if resp.Body != nil {
		b, _ := io.ReadAll(resp.Body)
		_, _ = rec.Body.Write(b)
		_ = resp.Body.Close()
	}
	return rec
}
