package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	v := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := v.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	ok, err := v.Verify(hash, "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = v.Verify("not-a-hash", "s3cret!")
	assert.Error(t, err)
}

func TestNewBcryptVerifierCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptVerifier(bcrypt.MinCost).cost)
}
