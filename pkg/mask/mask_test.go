package mask

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPAN(t *testing.T) {
	assert.Equal(t, "**** **** **** 5678", PAN("4000123412345678"))
	assert.Equal(t, "**** **** **** 1234", PAN("1234"))
}

func TestPAN_ShortInputs(t *testing.T) {
	for _, in := range []string{"", "1", "12", "123"} {
		assert.Equal(t, Sentinel, PAN(in), "input %q", in)
	}
}

func TestPAN_RevealsOnlyLast4(t *testing.T) {
	pan := "4000123412345678"
	masked := PAN(pan)
	assert.True(t, strings.HasSuffix(masked, pan[len(pan)-4:]))
	assert.NotContains(t, masked, pan[:12])
}

func TestFromLast4(t *testing.T) {
	assert.Equal(t, "**** **** **** 5678", FromLast4("5678"))
	assert.Equal(t, Sentinel, FromLast4(""))
	assert.Equal(t, Sentinel, FromLast4("56789"))
}
