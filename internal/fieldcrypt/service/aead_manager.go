package service

import (
	"github.com/allisson/formseal/internal/fieldcrypt/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if key is not KeySize bytes or ErrUnsupportedAlgorithm if the
// algorithm is unknown.
func (am *AEADManagerService) CreateCipher(key []byte, alg domain.Algorithm) (AEAD, error) {
	if len(key) != domain.KeySize {
		return nil, domain.ErrInvalidKeySize
	}

	switch alg {
	case domain.AESGCM:
		return NewAESGCM(key)
	case domain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, domain.ErrUnsupportedAlgorithm
	}
}

// Supports reports whether alg is one of the algorithms CreateCipher can build.
func (am *AEADManagerService) Supports(alg domain.Algorithm) bool {
	switch alg {
	case domain.AESGCM, domain.ChaCha20:
		return true
	default:
		return false
	}
}
