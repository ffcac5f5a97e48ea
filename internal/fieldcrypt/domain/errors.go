// Package domain defines the field encryption policy, the form data value model and the
// encrypted envelope exchanged with the submission endpoint.
package domain

import (
	"github.com/allisson/formseal/internal/errors"
)

// Field encryption error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the HTTP layer
// can map them to status codes without knowing about cryptography.
var (
	// ErrInputTooLong indicates a plaintext exceeds Limits.MaxInputLength. It is raised before
	// any cipher work is done.
	ErrInputTooLong = errors.Wrap(errors.ErrInvalidInput, "input too long")

	// ErrUnsupportedAlgorithm indicates the requested algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates key material is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// The cause (wrong key, tampered ciphertext, wrong IV, malformed base64) is deliberately
	// not distinguished.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyGenerationFailed indicates the platform could not produce key material.
	ErrKeyGenerationFailed = errors.Wrap(errors.ErrUnavailable, "key generation failed")

	// ErrEncryptionUnavailable indicates the cryptographic capability is absent.
	ErrEncryptionUnavailable = errors.Wrap(errors.ErrUnavailable, "encryption not supported")

	// ErrKeyRequired indicates an operation was called without an encryption key.
	ErrKeyRequired = errors.Wrap(errors.ErrInvalidInput, "encryption key is required")

	// ErrInvalidPolicy indicates an encryption policy failed validation.
	ErrInvalidPolicy = errors.Wrap(errors.ErrInvalidInput, "invalid encryption policy")

	// ErrInvalidFormData indicates a form data tree could not be decoded.
	ErrInvalidFormData = errors.Wrap(errors.ErrInvalidInput, "invalid form data")
)
