package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("my-password")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "my-password", hash)

	// Same input must not produce the same hash (random salt)
	hash2, err := HashPassword("my-password")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword(hash, "correct-password"))
	assert.Error(t, VerifyPassword(hash, "wrong-password"))
	assert.Error(t, VerifyPassword(hash, ""))
}
