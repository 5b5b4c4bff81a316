package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsSaltedPerCall(t *testing.T) {
	t.Parallel()

	h := NewHasher(4)
	first, err := h.Hash("Secret123!")
	require.NoError(t, err)
	second, err := h.Hash("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("Secret123!", first))
	assert.True(t, h.Verify("Secret123!", second))
}

func TestVerifyWrongPassword(t *testing.T) {
	t.Parallel()

	h := NewHasher(4)
	hash, err := h.Hash("Secret123!")
	require.NoError(t, err)

	assert.False(t, h.Verify("secret123!", hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(4)
	assert.False(t, h.Verify("Secret123!", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("Secret123!", ""))
}

func TestValidatePolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		password   string
		violations int
	}{
		{"valid", "Secret123", 0},
		{"too short", "Ab1", 1},
		{"no uppercase", "secret123", 1},
		{"no lowercase", "SECRET123", 1},
		{"no digit", "Secretxyz", 1},
		{"empty", "", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Validate(tc.password)
			assert.Len(t, errs, tc.violations)
		})
	}
}
