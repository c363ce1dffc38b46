package escrowControllers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
)

// Keystore seals custodial escrow keys with AES-GCM before they touch the
// database. Losing the holder key permanently strands the escrowed funds,
// so the key is persisted at creation time, never after.
type Keystore struct {
	aead cipher.AEAD
}

// NewKeystore reads a 32-byte hex key from ESCROW_KEY.
func NewKeystore() (*Keystore, error) {
	raw := os.Getenv("ESCROW_KEY")
	if raw == "" {
		return nil, errors.New("ESCROW_KEY is not set")
	}
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, errors.New("ESCROW_KEY must be 32 bytes of hex")
	}
	return NewKeystoreWithKey(key)
}

func NewKeystoreWithKey(key []byte) (*Keystore, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Keystore{aead: aead}, nil
}

// Seal returns nonce||ciphertext.
func (k *Keystore) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, k.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return k.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (k *Keystore) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < k.aead.NonceSize() {
		return nil, errors.New("sealed key too short")
	}
	nonce, ciphertext := sealed[:k.aead.NonceSize()], sealed[k.aead.NonceSize():]
	return k.aead.Open(nil, nonce, ciphertext, nil)
}
