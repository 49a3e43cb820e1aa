package card

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkurilov/bankcards/pkg/crypto"
	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/money"
	repo "github.com/dkurilov/bankcards/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db    *gorm.DB
	codec *crypto.Codec
}

// New creates a card repository bound to the given session. The codec is
// applied transparently: callers only ever observe plaintext secrets.
func New(db *gorm.DB, codec *crypto.Codec) repo.CardRepository {
	return &repository{db: db, codec: codec}
}

// Create implements repository.CardRepository. Secret fields are validated
// before encryption; a duplicate PAN surfaces as domain.ErrPANExists via the
// unique index on the lookup token.
func (r *repository) Create(ctx context.Context, c *domain.Card) error {
	if err := domain.ValidateSecrets(c.PAN, c.CVV, c.PIN); err != nil {
		return err
	}
	m, err := r.mapDomainToModel(c)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrPANExists
		}
		return err
	}
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

// Get implements repository.CardRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return r.first(ctx, r.db, "id = ?", id)
}

// GetOwned implements repository.CardRepository. A card owned by someone else
// is indistinguishable from a missing one.
func (r *repository) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Card, error) {
	return r.first(ctx, r.db, "id = ? AND owner_id = ?", id, ownerID)
}

// GetForUpdate implements repository.CardRepository. The row lock is held
// until the surrounding transaction ends; callers must acquire locks for
// multiple cards in ascending id order.
func (r *repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return r.first(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

// GetWithSecrets implements repository.CardRepository.
func (r *repository) GetWithSecrets(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var m Card
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return r.mapModelToDomainWithSecrets(&m)
}

// ListByOwner implements repository.CardRepository.
func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	var ms []Card
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	return mapModels(ms), nil
}

// List implements repository.CardRepository.
func (r *repository) List(ctx context.Context) ([]*domain.Card, error) {
	var ms []Card
	if err := r.db.WithContext(ctx).Order("created_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	return mapModels(ms), nil
}

// UpdateBalance implements repository.CardRepository.
func (r *repository) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	return r.updates(ctx, id, map[string]any{"balance": balance.Cents()})
}

// UpdateStatus implements repository.CardRepository.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error {
	return r.updates(ctx, id, map[string]any{"status": string(status)})
}

// UpdateExpiry implements repository.CardRepository.
func (r *repository) UpdateExpiry(ctx context.Context, id uuid.UUID, expiry time.Time) error {
	return r.updates(ctx, id, map[string]any{"expiry": expiry})
}

// Delete implements repository.CardRepository.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Card{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

func (r *repository) first(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Card, error) {
	var m Card
	if err := db.WithContext(ctx).First(&m, append([]any{query}, args...)...).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return mapModelToDomain(&m), nil
}

func (r *repository) updates(ctx context.Context, id uuid.UUID, values map[string]any) error {
	res := r.db.WithContext(ctx).Model(&Card{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrCardNotFound
	}
	return err
}

// mapDomainToModel encrypts the secret attributes for storage.
func (r *repository) mapDomainToModel(c *domain.Card) (Card, error) {
	panCT, err := r.codec.Encrypt(c.PAN)
	if err != nil {
		return Card{}, fmt.Errorf("encrypt pan: %w", err)
	}
	cvvCT, err := r.codec.Encrypt(c.CVV)
	if err != nil {
		return Card{}, fmt.Errorf("encrypt cvv: %w", err)
	}
	pinCT, err := r.codec.Encrypt(c.PIN)
	if err != nil {
		return Card{}, fmt.Errorf("encrypt pin: %w", err)
	}
	return Card{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		PanEncrypted: panCT,
		PanLookup:    r.codec.LookupToken(c.PAN),
		Last4:        c.Last4,
		Expiry:       c.Expiry,
		CvvEncrypted: cvvCT,
		PinEncrypted: pinCT,
		Status:       string(c.Status),
		Balance:      c.Balance.Cents(),
	}, nil
}

// mapModelToDomain hydrates the non-secret projection. Status and balance
// reads, which drive transfers, never touch the codec.
func mapModelToDomain(m *Card) *domain.Card {
	return &domain.Card{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Last4:     m.Last4,
		Expiry:    m.Expiry,
		Status:    domain.CardStatus(m.Status),
		Balance:   money.FromCents(m.Balance),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *repository) mapModelToDomainWithSecrets(m *Card) (*domain.Card, error) {
	c := mapModelToDomain(m)
	var err error
	if c.PAN, err = r.codec.Decrypt(m.PanEncrypted); err != nil {
		return nil, fmt.Errorf("decrypt pan: %w", err)
	}
	if c.CVV, err = r.codec.Decrypt(m.CvvEncrypted); err != nil {
		return nil, fmt.Errorf("decrypt cvv: %w", err)
	}
	if c.PIN, err = r.codec.Decrypt(m.PinEncrypted); err != nil {
		return nil, fmt.Errorf("decrypt pin: %w", err)
	}
	return c, nil
}

func mapModels(ms []Card) []*domain.Card {
	out := make([]*domain.Card, 0, len(ms))
	for i := range ms {
		out = append(out, mapModelToDomain(&ms[i]))
	}
	return out
}
