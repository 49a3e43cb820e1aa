package transfer

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is one ledger row. Card ids are plain values, not foreign keys, so
// history survives card deletion.
type Transfer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	FromCardID    uuid.UUID `gorm:"type:uuid;not null"`
	ToCardID      uuid.UUID `gorm:"type:uuid;not null"`
	Amount        int64     `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	FailureReason *string
	CreatedAt     time.Time
}

// TableName specifies the table name for the Transfer model.
func (Transfer) TableName() string {
	return "transfers"
}
