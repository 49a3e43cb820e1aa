package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the user row as stored. Passwords are bcrypt hashes.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username       string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Role           string    `gorm:"type:varchar(16);not null;default:'USER'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
