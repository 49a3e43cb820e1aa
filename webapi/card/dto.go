package card

import (
	"time"

	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/mask"
)

// CreateCardInput is the request body for issuing a card. OwnerID may only be
// set by admins; everyone else gets a card on their own account.
type CreateCardInput struct {
	OwnerID string `json:"owner_id,omitempty" validate:"omitempty,uuid"`
	Number  string `json:"number" validate:"required,len=16,numeric"`
	CVV     string `json:"cvv" validate:"required,min=3,max=4,numeric"`
	PIN     string `json:"pin" validate:"required,len=4,numeric"`
	Expiry  string `json:"expiry" validate:"required"`
}

// UpdateCardInput carries the admin-only mutations. At least one field must
// be present.
type UpdateCardInput struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE BLOCK_REQUESTED BLOCKED"`
	Expiry string `json:"expiry,omitempty"`
}

// TransferInput is the request body for moving funds between two cards.
type TransferInput struct {
	FromCardID string `json:"from_card_id" validate:"required,uuid"`
	ToCardID   string `json:"to_card_id" validate:"required,uuid"`
	Amount     string `json:"amount" validate:"required"`
}

// CardRead is the card representation returned to clients. The number is
// always masked.
type CardRead struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	MaskedNumber string    `json:"masked_number"`
	Expiry       string    `json:"expiry"`
	Status       string    `json:"status"`
	Balance      string    `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransferRead is the ledger entry representation returned to clients.
type TransferRead struct {
	ID         string    `json:"id"`
	FromCardID string    `json:"from_card_id"`
	ToCardID   string    `json:"to_card_id"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCardRead(c *domain.Card) CardRead {
	return CardRead{
		ID:           c.ID.String(),
		OwnerID:      c.OwnerID.String(),
		MaskedNumber: mask.FromLast4(c.Last4),
		Expiry:       domain.FormatExpiry(c.Expiry),
		Status:       string(c.Status),
		Balance:      c.Balance.String(),
		CreatedAt:    c.CreatedAt,
	}
}

func toCardReads(cards []*domain.Card) []CardRead {
	out := make([]CardRead, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardRead(c))
	}
	return out
}

func toTransferRead(t *domain.Transfer) TransferRead {
	return TransferRead{
		ID:         t.ID.String(),
		FromCardID: t.FromCardID.String(),
		ToCardID:   t.ToCardID.String(),
		Amount:     t.Amount.String(),
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
	}
}
