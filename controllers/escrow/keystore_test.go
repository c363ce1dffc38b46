package escrowControllers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystoreRoundTrip(t *testing.T) {
	keys, err := NewKeystoreWithKey(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)

	secret := []byte("holder private key material")
	sealed, err := keys.Seal(secret)
	require.NoError(t, err)
	assert.NotEqual(t, secret, sealed)

	opened, err := keys.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, secret, opened)
}

func TestKeystoreRejectsTamperedCiphertext(t *testing.T) {
	keys, err := NewKeystoreWithKey(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)

	sealed, err := keys.Seal([]byte("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = keys.Open(sealed)
	assert.Error(t, err)
}

func TestKeystoreRejectsWrongKey(t *testing.T) {
	keysA, err := NewKeystoreWithKey(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	keysB, err := NewKeystoreWithKey(bytes.Repeat([]byte{2}, 32))
	require.NoError(t, err)

	sealed, err := keysA.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = keysB.Open(sealed)
	assert.Error(t, err)

	_, err = keysB.Open([]byte("short"))
	assert.Error(t, err)
}

func TestKeystoreRejectsBadKeySize(t *testing.T) {
	_, err := NewKeystoreWithKey([]byte("too short"))
	assert.Error(t, err)
}
