// Package usecase implements application submission on top of the field encryption session.
package usecase

import (
	"context"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/submission/domain"
)

// Gateway delivers a serialized application payload downstream.
type Gateway interface {
	Deliver(ctx context.Context, payload []byte) (*domain.Delivery, error)
}

// SubmissionUseCase defines the application submission operations.
type SubmissionUseCase interface {
	// Submit encrypts the sensitive fields of form with the session key and delivers the
	// result. An unavailable encryption capability does not block submission.
	Submit(ctx context.Context, form fieldcryptDomain.Value) (*domain.Receipt, error)

	// Verify decrypts a previously submitted payload with the session key. Envelopes sealed
	// under another key are returned untouched.
	Verify(ctx context.Context, payload fieldcryptDomain.Value) (fieldcryptDomain.Value, error)

	// Status reports the encryption capability and policy in effect.
	Status(ctx context.Context) domain.EncryptionStatus
}
