package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckSecretKey(t *testing.T) {
	hash, err := HashSecretKey("reindeer")
	require.NoError(t, err)
	assert.NotEqual(t, "reindeer", hash)

	ok, err := CheckSecretKey(&hash, "reindeer")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckSecretKey(&hash, "rudolph")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckSecretKey_NoHash(t *testing.T) {
	ok, err := CheckSecretKey(nil, "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	empty := ""
	ok, err = CheckSecretKey(&empty, "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckSecretKey_CorruptHash(t *testing.T) {
	bad := "not-a-bcrypt-hash"
	_, err := CheckSecretKey(&bad, "x")
	assert.Error(t, err)
}
