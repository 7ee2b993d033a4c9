package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)

	ok, err := VerifyPassword(hash, "pw1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong")
	require.NoError(t, err, "a plain mismatch is not an error")
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-bcrypt-hash", "pw1")
	assert.False(t, ok)
	assert.Error(t, err, "malformed stored hash is a modeled outcome, not a panic")
}
