// Package domain defines the entities of the application submission flow.
package domain

import (
	"time"

	"github.com/google/uuid"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
)

// Receipt acknowledges a submitted application.
//
// Encrypted reports whether the payload went through the field encryption walk; when false the
// form was delivered as entered because encryption was unavailable for the session.
type Receipt struct {
	ID              uuid.UUID
	Success         bool
	Message         string
	Encrypted       bool
	EncryptedFields int
	PayloadBytes    int
	SubmittedAt     time.Time
}

// Delivery is what a Gateway reports after accepting a payload.
type Delivery struct {
	Success bool
	Message string
}

// EncryptionStatus describes the encryption capability the submission flow runs with.
type EncryptionStatus struct {
	Supported          bool
	HasKey             bool
	KeyID              string
	Algorithm          fieldcryptDomain.Algorithm
	SensitiveFields    []string
	MaxSensitiveFields int
	MaxInputLength     int
}
