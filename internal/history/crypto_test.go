package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	key1, err := DeriveKey("hunter2")
	require.NoError(t, err)
	assert.Len(t, key1, 32)

	key2, err := DeriveKey("hunter2")
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	other, err := DeriveKey("different")
	require.NoError(t, err)
	assert.NotEqual(t, key1, other)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveKey("secret")
	require.NoError(t, err)

	plaintext := []byte(`[{"id":"1","behavior":"Napping"}]`)
	sealed, err := encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "Napping")

	opened, err := decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestDecryptWithWrongKey(t *testing.T) {
	key, err := DeriveKey("secret")
	require.NoError(t, err)
	wrongKey, err := DeriveKey("not-secret")
	require.NoError(t, err)

	sealed, err := encrypt([]byte("data"), key)
	require.NoError(t, err)

	_, err = decrypt(sealed, wrongKey)
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	key, err := DeriveKey("secret")
	require.NoError(t, err)

	_, err = decrypt("not base64 !!!", key)
	assert.Error(t, err)

	_, err = decrypt("AAAA", key) // too short for a nonce
	assert.Error(t, err)
}
