package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
)

// CipherService implements the primitive operations consumed by the form encryption use case:
// capability probe, key generation and single-value encrypt and decrypt.
//
// Algorithm, key size, nonce size and input limits all come from the domain.Policy passed at
// construction; none of them is repeated here.
type CipherService struct {
	manager AEADManager
	policy  domain.Policy
	random  io.Reader
}

// NewCipherService creates a CipherService reading key material from crypto/rand.
func NewCipherService(manager AEADManager, policy domain.Policy) *CipherService {
	return &CipherService{
		manager: manager,
		policy:  policy,
		random:  rand.Reader,
	}
}

// Policy returns the policy the service enforces.
func (s *CipherService) Policy() domain.Policy {
	return s.policy
}

// IsSupported reports whether the configured algorithm can be instantiated and a random source
// is available. It has no side effects.
func (s *CipherService) IsSupported() bool {
	return s.manager != nil && s.random != nil && s.manager.Supports(s.policy.Algorithm)
}

// GenerateKey creates a fresh extractable session key for the configured algorithm.
func (s *CipherService) GenerateKey() (*Key, error) {
	if !s.IsSupported() {
		return nil, domain.ErrEncryptionUnavailable
	}

	material := make([]byte, domain.KeySize)
	if _, err := io.ReadFull(s.random, material); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyGenerationFailed, err)
	}

	key, err := s.newKey(material)
	if err != nil {
		domain.Zero(material)
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyGenerationFailed, err)
	}
	return key, nil
}

// ImportKey rebuilds a key from material previously returned by Key.Export. The input slice is
// copied and may be zeroed by the caller afterwards.
func (s *CipherService) ImportKey(raw []byte) (*Key, error) {
	if len(raw) != domain.KeySize {
		return nil, domain.ErrInvalidKeySize
	}
	if !s.IsSupported() {
		return nil, domain.ErrEncryptionUnavailable
	}

	material := make([]byte, len(raw))
	copy(material, raw)

	key, err := s.newKey(material)
	if err != nil {
		domain.Zero(material)
		return nil, err
	}
	return key, nil
}

func (s *CipherService) newKey(material []byte) (*Key, error) {
	aead, err := s.manager.CreateCipher(material, s.policy.Algorithm)
	if err != nil {
		return nil, err
	}
	if aead.NonceSize() != domain.NonceSize {
		return nil, fmt.Errorf("cipher nonce size %d does not match %d", aead.NonceSize(), domain.NonceSize)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key id: %w", err)
	}

	return &Key{
		id:        id,
		algorithm: s.policy.Algorithm,
		material:  material,
		aead:      aead,
	}, nil
}

// Encrypt seals plaintext under key with a fresh random IV and returns both base64 encoded.
//
// Plaintexts longer than Limits.MaxInputLength UTF-16 code units are rejected
// with domain.ErrInputTooLong before the cipher is touched.
func (s *CipherService) Encrypt(plaintext string, key *Key) (domain.Sealed, error) {
	if key == nil {
		return domain.Sealed{}, domain.ErrKeyRequired
	}

	if n := utf16Len(plaintext); n > s.policy.Limits.MaxInputLength {
		return domain.Sealed{}, fmt.Errorf(
			"%w: %d > %d", domain.ErrInputTooLong, n, s.policy.Limits.MaxInputLength,
		)
	}

	ciphertext, nonce, err := key.aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return domain.Sealed{}, fmt.Errorf("failed to encrypt: %w", err)
	}
	if len(nonce) != domain.NonceSize {
		return domain.Sealed{}, fmt.Errorf("unexpected nonce size %d", len(nonce))
	}

	return domain.Sealed{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// Decrypt opens a value produced by Encrypt. Any failure (malformed base64, IV of the wrong
// length, tampered ciphertext or IV, different key) yields domain.ErrDecryptionFailed.
func (s *CipherService) Decrypt(ciphertext, iv string, key *Key) (string, error) {
	if key == nil {
		return "", domain.ErrKeyRequired
	}

	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext encoding", domain.ErrDecryptionFailed)
	}
	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return "", fmt.Errorf("%w: invalid iv encoding", domain.ErrDecryptionFailed)
	}
	if len(nonce) != domain.NonceSize {
		return "", fmt.Errorf("%w: invalid iv size", domain.ErrDecryptionFailed)
	}

	plaintext, err := key.aead.Decrypt(ct, nonce, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	defer domain.Zero(plaintext)

	return string(plaintext), nil
}

// utf16Len returns the length of s in UTF-16 code units, so characters outside
// the basic multilingual plane count twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
