// Package service provides the primitive layer of field encryption: AEAD ciphers, session key
// generation, single-value encrypt/decrypt and one-way hashing.
package service

import (
	"github.com/allisson/formseal/internal/fieldcrypt/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// Implementations generate a fresh random nonce inside every Encrypt call; callers can never
// supply one.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg domain.Algorithm) (AEAD, error)

	// Supports reports whether alg can be instantiated.
	Supports(alg domain.Algorithm) bool
}

// HashService provides deterministic one-way digests.
type HashService interface {
	// Hash returns the lowercase hex digest of input.
	Hash(input string) string
}
