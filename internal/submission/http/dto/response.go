package dto

import (
	"time"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/submission/domain"
)

// ReceiptResponse represents a submission receipt in API responses.
type ReceiptResponse struct {
	ID              string    `json:"id"`
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	Encrypted       bool      `json:"encrypted"`
	EncryptedFields int       `json:"encrypted_fields"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// MapReceiptToResponse converts a domain receipt to an API response.
func MapReceiptToResponse(receipt *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:              receipt.ID.String(),
		Success:         receipt.Success,
		Message:         receipt.Message,
		Encrypted:       receipt.Encrypted,
		EncryptedFields: receipt.EncryptedFields,
		SubmittedAt:     receipt.SubmittedAt,
	}
}

// VerifyResponse returns the decrypted form. Fields that could not be decrypted keep their
// envelope shape.
type VerifyResponse struct {
	Form            fieldcryptDomain.Value `json:"form"`
	RemainingSealed int                    `json:"remaining_sealed"`
}

// EncryptionStatusResponse describes the encryption capability of the server.
type EncryptionStatusResponse struct {
	Supported          bool     `json:"supported"`
	HasKey             bool     `json:"has_key"`
	KeyID              string   `json:"key_id,omitempty"`
	Algorithm          string   `json:"algorithm,omitempty"`
	SensitiveFields    []string `json:"sensitive_fields"`
	MaxSensitiveFields int      `json:"max_sensitive_fields"`
	MaxInputLength     int      `json:"max_input_length"`
}

// MapEncryptionStatusToResponse converts a domain encryption status to an API response.
func MapEncryptionStatusToResponse(status domain.EncryptionStatus) EncryptionStatusResponse {
	fields := status.SensitiveFields
	if fields == nil {
		fields = []string{}
	}
	return EncryptionStatusResponse{
		Supported:          status.Supported,
		HasKey:             status.HasKey,
		KeyID:              status.KeyID,
		Algorithm:          string(status.Algorithm),
		SensitiveFields:    fields,
		MaxSensitiveFields: status.MaxSensitiveFields,
		MaxInputLength:     status.MaxInputLength,
	}
}
