package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	passphrase := []byte("insecure-test-passphrase")
	plaintext := []byte("-----BEGIN CERTIFICATE-----\nMIIB...\n-----END CERTIFICATE-----\n")

	blob, err := Encrypt(passphrase, plaintext)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	out, err := Decrypt(passphrase, blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	t.Parallel()
	passphrase := []byte("insecure-test-passphrase")

	a, err := Encrypt(passphrase, []byte("same input"))
	require.NoError(t, err)
	b, err := Encrypt(passphrase, []byte("same input"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	t.Parallel()
	blob, err := Encrypt([]byte("right"), []byte("secret"))
	require.NoError(t, err)

	_, err = Decrypt([]byte("wrong"), blob)
	assert.Error(t, err)
}

func TestDecrypt_MalformedBlob(t *testing.T) {
	t.Parallel()
	_, err := Decrypt([]byte("key"), "not base64 !!!")
	assert.Error(t, err)

	_, err = Decrypt([]byte("key"), "c2hvcnQ=") // valid base64, shorter than a nonce
	assert.Error(t, err)
}
