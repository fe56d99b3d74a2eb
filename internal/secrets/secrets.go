// Package secrets seals and unseals amphora server certificate material.
//
// Blobs are NaCl secretboxes with a random 24-byte nonce prepended,
// base64-encoded for storage. The symmetric key is derived from an
// operator-supplied passphrase with HKDF-SHA256 so that passphrases of
// any length yield a uniform 32-byte key.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// keyInfo binds derived keys to this usage; changing it invalidates all
// stored blobs.
var keyInfo = []byte("amphora-server-cert")

func deriveKey(passphrase []byte) (*[32]byte, error) {
	var key [32]byte
	kdf := hkdf.New(sha256.New, passphrase, nil, keyInfo)
	if _, err := io.ReadFull(kdf, key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return &key, nil
}

// Encrypt seals plaintext under the passphrase-derived key and returns a
// storable blob.
func Encrypt(passphrase, plaintext []byte) (string, error) {
	key, err := deriveKey(passphrase)
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt unseals a blob produced by Encrypt. It fails when the blob is
// malformed or was sealed under a different passphrase.
func Decrypt(passphrase []byte, blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("malformed certificate blob: %w", err)
	}
	if len(raw) < nonceSize {
		return nil, fmt.Errorf("malformed certificate blob: too short")
	}

	key, err := deriveKey(passphrase)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt certificate blob: wrong key or corrupt data")
	}
	return plaintext, nil
}
