// Package mask derives display-safe representations of card numbers.
package mask

// Sentinel is returned for values too short to reveal anything from.
const Sentinel = "****"

const prefix = "**** **** **** "

// PAN masks a card number so that only the last four characters remain
// visible, e.g. "**** **** **** 5678". Inputs shorter than four characters
// (including the empty string) return the all-asterisk sentinel. Pure
// function; never fails.
func PAN(pan string) string {
	if len(pan) < 4 {
		return Sentinel
	}
	return prefix + pan[len(pan)-4:]
}

// FromLast4 builds the same masked form from an already-derived last4 value,
// so list endpoints can render cards without decrypting the stored PAN.
func FromLast4(last4 string) string {
	if len(last4) != 4 {
		return Sentinel
	}
	return prefix + last4
}
