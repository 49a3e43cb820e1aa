package domain

import "errors"

var (
	// ErrCardNotFound is returned when a card does not exist or is not visible
	// to the caller. Ownership failures deliberately surface as not-found so a
	// caller cannot probe for the existence of cards they do not own.
	ErrCardNotFound = errors.New("card not found")

	// ErrSameCard is returned when a transfer names the same card on both sides.
	ErrSameCard = errors.New("cannot transfer to the same card")

	// ErrInvalidAmount is returned when a transfer amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrCardNotActive is returned when a card involved in a transfer is not ACTIVE.
	ErrCardNotActive = errors.New("card is not active")

	// ErrInsufficientFunds is returned when the source card balance does not
	// cover the transfer amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidPIN is returned when a PIN is not exactly four decimal digits.
	ErrInvalidPIN = errors.New("pin must be exactly 4 digits")

	// ErrInvalidPAN is returned when a card number is not a 16-digit number.
	ErrInvalidPAN = errors.New("card number must be 16 digits")

	// ErrInvalidCVV is returned when a CVV is not three or four decimal digits.
	ErrInvalidCVV = errors.New("cvv must be 3 or 4 digits")

	// ErrPANExists is returned when creating a card whose number is already registered.
	ErrPANExists = errors.New("card number already registered")

	// ErrInvalidExpiry is returned when an expiration date cannot be parsed as MM/yy.
	ErrInvalidExpiry = errors.New("expiration date must be in MM/yy format")

	// ErrInvalidStatus is returned when a card status value is not recognized.
	ErrInvalidStatus = errors.New("unknown card status")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidEmail is returned when an email address fails to parse.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrUserUnauthorized is returned when credentials are wrong or missing.
	ErrUserUnauthorized = errors.New("user unauthorized")

	// ErrForbidden is returned when the caller's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
)
