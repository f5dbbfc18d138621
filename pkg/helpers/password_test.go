package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CompareHashAndPassword(hash, "secret1"))
	assert.False(t, CompareHashAndPassword(hash, "secret2"))
}

func TestCompareHashAndPasswordRejectsPlaintext(t *testing.T) {
	// a stored plaintext value must never verify as its own hash
	assert.False(t, CompareHashAndPassword("secret1", "secret1"))
}
