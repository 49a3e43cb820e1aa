package transfer

import (
	"context"

	"github.com/dkurilov/bankcards/pkg/domain"
	repo "github.com/dkurilov/bankcards/pkg/repository"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates the append-only ledger repository. Rows are inserted and never
// touched again.
func New(db *gorm.DB) repo.TransferRepository {
	return &repository{db: db}
}

// Create implements repository.TransferRepository.
func (r *repository) Create(ctx context.Context, t *domain.Transfer) error {
	m := Transfer{
		ID:            t.ID,
		UserID:        t.UserID,
		FromCardID:    t.FromCardID,
		ToCardID:      t.ToCardID,
		Amount:        t.Amount.Cents(),
		Status:        string(t.Status),
		FailureReason: t.FailureReason,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.CreatedAt = m.CreatedAt
	return nil
}
