package auth_test

import (
	"testing"

	auth "github.com/membrarium/go-member-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordAndCompare(t *testing.T) {
	hash, err := auth.HashPassword("sup3r-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "sup3r-secret", hash)

	err = auth.ComparePasswordAndHash("sup3r-secret", hash)
	assert.NoError(t, err)

	err = auth.ComparePasswordAndHash("wrong-password", hash)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestRandomPasswordHashNeverMatchesAnything(t *testing.T) {
	hash := auth.RandomPasswordHash()
	require.NotEmpty(t, hash)

	err := auth.ComparePasswordAndHash("", hash)
	assert.Error(t, err)

	err = auth.ComparePasswordAndHash("password", hash)
	assert.Error(t, err)
}
