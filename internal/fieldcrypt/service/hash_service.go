package service

import (
	"crypto/sha256"
	"encoding/hex"
)

type sha256HashService struct{}

// NewSHA256HashService creates a new SHA-256 hash service.
func NewSHA256HashService() HashService {
	return &sha256HashService{}
}

// Hash computes the SHA-256 digest of the UTF-8 input and returns it as lowercase hex.
func (s *sha256HashService) Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
