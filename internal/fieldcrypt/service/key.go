package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
)

// Key is an in-memory symmetric session key bound to one AEAD algorithm.
//
// A Key is read-only once created and may be shared by any number of sequential or concurrent
// encrypt and decrypt calls. It is never persisted; it lives as long as the session holding it.
type Key struct {
	id        uuid.UUID
	algorithm domain.Algorithm
	material  []byte
	aead      AEAD
}

// ID returns a random identifier for the key, safe to log.
func (k *Key) ID() uuid.UUID {
	return k.id
}

// Algorithm returns the algorithm the key is bound to.
func (k *Key) Algorithm() domain.Algorithm {
	return k.algorithm
}

// Export returns a copy of the raw key material. Callers should Zero it after use.
func (k *Key) Export() []byte {
	out := make([]byte, len(k.material))
	copy(out, k.material)
	return out
}

// String identifies the key without revealing its material.
func (k *Key) String() string {
	return fmt.Sprintf("Key(%s, %s)", k.id, k.algorithm)
}
