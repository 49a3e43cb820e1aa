package domain

import (
	"time"

	"github.com/dkurilov/bankcards/pkg/money"
	"github.com/google/uuid"
)

// TransferStatus marks the terminal state of an executed transfer attempt.
type TransferStatus string

const (
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusFailed    TransferStatus = "FAILED"
)

// Transfer is one immutable ledger entry for a money movement that reached
// execution. Attempts rejected during validation never produce a Transfer.
// Card ids are stored by value, not by foreign key, so history survives card
// deletion.
type Transfer struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FromCardID    uuid.UUID
	ToCardID      uuid.UUID
	Amount        money.Amount
	Status        TransferStatus
	FailureReason *string
	CreatedAt     time.Time
}

// NewCompletedTransfer builds the ledger entry for a successful execution.
func NewCompletedTransfer(userID, fromCardID, toCardID uuid.UUID, amount money.Amount) *Transfer {
	return &Transfer{
		ID:         uuid.New(),
		UserID:     userID,
		FromCardID: fromCardID,
		ToCardID:   toCardID,
		Amount:     amount,
		Status:     TransferStatusCompleted,
	}
}
