// Package usecase implements the structural layer of field encryption: the recursive walk that
// seals sensitive leaves of a form data tree, and the per-session key lifecycle around it.
package usecase

import (
	"context"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
)

// FieldCipher encrypts and decrypts a single leaf value.
type FieldCipher interface {
	Encrypt(plaintext string, key *service.Key) (domain.Sealed, error)
	Decrypt(ciphertext, iv string, key *service.Key) (string, error)
}

// KeyProvider probes for cryptographic support and creates session keys.
type KeyProvider interface {
	IsSupported() bool
	GenerateKey() (*service.Key, error)
}

// FormCryptoUseCase transforms whole form data trees.
//
// Both operations return a new tree and never mutate the input. Failures on individual leaves
// are logged and contained; an error is returned only for a missing key or tree.
type FormCryptoUseCase interface {
	// EncryptFormData replaces every sensitive, non-blank string leaf with an Envelope, up to
	// Limits.MaxSensitiveFields leaves per call.
	EncryptFormData(ctx context.Context, tree domain.Value, key *service.Key) (domain.Value, error)

	// DecryptFormData replaces every Envelope with its plaintext String. Envelopes that do not
	// open under key are kept as they are.
	DecryptFormData(ctx context.Context, tree domain.Value, key *service.Key) (domain.Value, error)
}

// SessionStatus reports the state of a Session's encryption capability.
type SessionStatus struct {
	Supported bool
	HasKey    bool
	KeyID     string
	Algorithm domain.Algorithm
}

// SessionUseCase owns one lazily created session key and applies FormCryptoUseCase with it.
type SessionUseCase interface {
	// Status initializes the session if needed and reports its state.
	Status(ctx context.Context) SessionStatus

	// EncryptData encrypts tree with the session key. When encryption is unavailable the
	// input tree is returned with encrypted set to false.
	EncryptData(ctx context.Context, tree domain.Value) (result domain.Value, encrypted bool)

	// DecryptData decrypts tree with the session key, returning it unchanged when the session
	// has no key.
	DecryptData(ctx context.Context, tree domain.Value) domain.Value
}
