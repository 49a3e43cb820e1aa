package card

import (
	"time"

	"github.com/google/uuid"
)

// Card is the card row as stored. Secret attributes only ever hold codec
// output here; pan_lookup is the deterministic HMAC token that carries the
// uniqueness constraint, since randomized ciphertext cannot.
type Card struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	PanEncrypted string    `gorm:"column:pan_encrypted;not null"`
	PanLookup    string    `gorm:"column:pan_lookup;uniqueIndex;not null"`
	Last4        string    `gorm:"type:varchar(4);index;not null"`
	Expiry       time.Time `gorm:"not null"`
	CvvEncrypted string    `gorm:"column:cvv_encrypted;not null"`
	PinEncrypted string    `gorm:"column:pin_encrypted;not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	Balance      int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Card model.
func (Card) TableName() string {
	return "cards"
}
