// Package crypto implements the encrypted-attribute codec for card secrets.
//
// Values are sealed with AES-GCM under a process-wide key: every call draws a
// fresh 12-byte nonce, and the stored form is base64(nonce || ciphertext+tag).
// Rows written before encryption was introduced are recognized by shape
// (16 consecutive digits for a PAN, 3-4 digits for a CVV or PIN) and returned
// as-is with a warning. The codec never derives or rotates keys; key material
// is loaded once at startup.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
)

// NonceSize is the GCM nonce length prefixed to every ciphertext.
const NonceSize = 12

// ErrDecryptionFailed is returned when authenticated decryption fails on a
// value that does not look like legacy plaintext. Callers must treat it as a
// data-integrity error, never substitute a default.
var ErrDecryptionFailed = errors.New("decryption failed")

// legacyShape matches values plausibly written before encryption was adopted:
// a bare 16-digit PAN or a 3-4 digit CVV/PIN. It is a documented heuristic,
// not a security boundary.
var legacyShape = regexp.MustCompile(`^(\d{16}|\d{3,4})$`)

// lookupContext separates the HMAC lookup key from the encryption key.
const lookupContext = "pan-lookup-v1"

// Codec encrypts and decrypts single string attributes. It is safe for
// concurrent use; the key is immutable after construction.
type Codec struct {
	aead      cipher.AEAD
	lookupKey []byte
	logger    *slog.Logger
}

// NewCodec builds a Codec from a base64-encoded AES key (16, 24 or 32 bytes).
func NewCodec(keyB64 string, logger *slog.Logger) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	// The lookup key is derived, not reused, so tokens cannot interact with
	// the AEAD key schedule.
	sum := sha256.Sum256(append(append([]byte{}, key...), lookupContext...))

	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{aead: aead, lookupKey: sum[:], logger: logger}, nil
}

// Encrypt seals the plaintext under a fresh random nonce and returns
// base64(nonce || ciphertext+tag). Failures here indicate a broken
// environment and are always fatal to the operation.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. If authenticated decryption fails and the stored
// value matches the legacy plaintext shape, the raw value is returned
// unchanged and a warning is logged; otherwise ErrDecryptionFailed is
// returned.
func (c *Codec) Decrypt(blob string) (string, error) {
	packed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return c.legacyFallback(blob, err)
	}
	if len(packed) < NonceSize+c.aead.Overhead() {
		return c.legacyFallback(blob, errors.New("ciphertext too short"))
	}
	nonce, ct := packed[:NonceSize], packed[NonceSize:]
	pt, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return c.legacyFallback(blob, err)
	}
	return string(pt), nil
}

func (c *Codec) legacyFallback(blob string, cause error) (string, error) {
	if legacyShape.MatchString(blob) {
		c.logger.Warn("stored value is not decryptable, treating as legacy plaintext",
			"len", len(blob))
		return blob, nil
	}
	return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, cause)
}

// LookupToken returns a deterministic keyed hash of the plaintext, used for
// the unique index on card numbers. Randomized encryption makes ciphertext
// useless for uniqueness checks, so the token is stored alongside it. It is
// never used for display and never returned to callers of the API.
func (c *Codec) LookupToken(plaintext string) string {
	mac := hmac.New(sha256.New, c.lookupKey)
	mac.Write([]byte(plaintext))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
