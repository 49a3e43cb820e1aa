package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testKey(t), slog.Default())
	require.NoError(t, err)
	return c
}

func TestNewCodec_BadKey(t *testing.T) {
	_, err := NewCodec("not base64!!!", slog.Default())
	assert.Error(t, err)

	// wrong length after decode
	_, err = NewCodec(base64.StdEncoding.EncodeToString([]byte("short")), slog.Default())
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	for _, pt := range []string{"4000123412345678", "123", "4321", "", "некоторый текст"} {
		blob, err := c.Encrypt(pt)
		require.NoError(t, err)
		assert.NotEqual(t, pt, blob)

		got, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	c := newTestCodec(t)
	a, err := c.Encrypt("4000123412345678")
	require.NoError(t, err)
	b, err := c.Encrypt("4000123412345678")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "same plaintext must never produce the same blob")
}

func TestDecrypt_Corrupted(t *testing.T) {
	c := newTestCodec(t)
	blob, err := c.Encrypt("4000123412345678")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = c.Decrypt(tampered)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_WrongKey(t *testing.T) {
	a := newTestCodec(t)
	b := newTestCodec(t)

	blob, err := a.Encrypt("4000123412345678")
	require.NoError(t, err)

	_, err = b.Decrypt(blob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_LegacyPlaintext(t *testing.T) {
	c := newTestCodec(t)
	for _, legacy := range []string{"4000123412345678", "123", "4321"} {
		got, err := c.Decrypt(legacy)
		require.NoError(t, err)
		assert.Equal(t, legacy, got)
	}
}

func TestDecrypt_GarbageIsFatal(t *testing.T) {
	c := newTestCodec(t)
	for _, blob := range []string{"garbage", "12", "12345", strings.Repeat("9", 17), "!!!"} {
		_, err := c.Decrypt(blob)
		assert.ErrorIs(t, err, ErrDecryptionFailed, "blob %q", blob)
	}
}

func TestLookupToken(t *testing.T) {
	c := newTestCodec(t)
	a := c.LookupToken("4000123412345678")
	b := c.LookupToken("4000123412345678")
	other := c.LookupToken("4000123412345679")

	assert.Equal(t, a, b, "token must be deterministic")
	assert.NotEqual(t, a, other)
	assert.NotContains(t, a, "4000")

	// distinct keys produce distinct tokens
	c2 := newTestCodec(t)
	assert.NotEqual(t, a, c2.LookupToken("4000123412345678"))
}
