// Package domain holds the core entities of the card service: cards, transfers,
// users and the errors their invariants produce. Entities carry plaintext
// secrets only in memory; the persistence layer is responsible for encrypting
// them at rest.
package domain

import (
	"regexp"
	"time"

	"github.com/dkurilov/bankcards/pkg/money"
	"github.com/google/uuid"
)

// CardStatus governs transfer eligibility.
type CardStatus string

const (
	CardStatusActive         CardStatus = "ACTIVE"
	CardStatusBlockRequested CardStatus = "BLOCK_REQUESTED"
	CardStatusBlocked        CardStatus = "BLOCKED"
)

// ParseCardStatus validates a raw status string.
func ParseCardStatus(s string) (CardStatus, error) {
	switch CardStatus(s) {
	case CardStatusActive, CardStatusBlockRequested, CardStatusBlocked:
		return CardStatus(s), nil
	}
	return "", ErrInvalidStatus
}

var (
	panShape = regexp.MustCompile(`^\d{16}$`)
	pinShape = regexp.MustCompile(`^\d{4}$`)
	cvvShape = regexp.MustCompile(`^\d{3,4}$`)
)

// Card is one bank card. PAN, CVV and PIN are plaintext here; reads that do
// not need them (status and balance checks during a transfer) leave them empty.
type Card struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	PAN       string
	Last4     string
	Expiry    time.Time
	CVV       string
	PIN       string
	Status    CardStatus
	Balance   money.Amount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCard builds a card for the given owner, validating the secret fields.
// Balance defaults to zero and status to ACTIVE.
func NewCard(ownerID uuid.UUID, pan, cvv, pin string, expiry time.Time) (*Card, error) {
	if err := ValidateSecrets(pan, cvv, pin); err != nil {
		return nil, err
	}
	return &Card{
		ID:      uuid.New(),
		OwnerID: ownerID,
		PAN:     pan,
		Last4:   pan[len(pan)-4:],
		Expiry:  expiry,
		CVV:     cvv,
		PIN:     pin,
		Status:  CardStatusActive,
		Balance: 0,
	}, nil
}

// ValidateSecrets enforces the write-boundary invariants on the secret fields:
// 16-digit PAN, 3-4 digit CVV, exactly 4-digit PIN.
func ValidateSecrets(pan, cvv, pin string) error {
	if !panShape.MatchString(pan) {
		return ErrInvalidPAN
	}
	if !cvvShape.MatchString(cvv) {
		return ErrInvalidCVV
	}
	return ValidatePIN(pin)
}

// ValidatePIN re-checks the PIN format. Used on any update that changes it.
func ValidatePIN(pin string) error {
	if !pinShape.MatchString(pin) {
		return ErrInvalidPIN
	}
	return nil
}

// expiryLayout is the wire format for card expiration dates.
const expiryLayout = "01/06"

// ParseExpiry parses an "MM/yy" string into the first day of that month.
func ParseExpiry(s string) (time.Time, error) {
	t, err := time.Parse(expiryLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidExpiry
	}
	return t, nil
}

// FormatExpiry renders an expiration date as "MM/yy".
func FormatExpiry(t time.Time) string {
	return t.Format(expiryLayout)
}
