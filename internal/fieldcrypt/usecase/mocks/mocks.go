// Package mocks provides mock implementations of the fieldcrypt use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
	"github.com/allisson/formseal/internal/fieldcrypt/usecase"
)

// MockFieldCipher is a mock implementation of FieldCipher for testing.
type MockFieldCipher struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of FieldCipher.
func (m *MockFieldCipher) Encrypt(plaintext string, key *service.Key) (domain.Sealed, error) {
	args := m.Called(plaintext, key)
	return args.Get(0).(domain.Sealed), args.Error(1)
}

// Decrypt mocks the Decrypt method of FieldCipher.
func (m *MockFieldCipher) Decrypt(ciphertext, iv string, key *service.Key) (string, error) {
	args := m.Called(ciphertext, iv, key)
	return args.String(0), args.Error(1)
}

// MockKeyProvider is a mock implementation of KeyProvider for testing.
type MockKeyProvider struct {
	mock.Mock
}

// IsSupported mocks the IsSupported method of KeyProvider.
func (m *MockKeyProvider) IsSupported() bool {
	return m.Called().Bool(0)
}

// GenerateKey mocks the GenerateKey method of KeyProvider.
func (m *MockKeyProvider) GenerateKey() (*service.Key, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Key), args.Error(1)
}

// MockFormCryptoUseCase is a mock implementation of FormCryptoUseCase for testing.
type MockFormCryptoUseCase struct {
	mock.Mock
}

// EncryptFormData mocks the EncryptFormData method of FormCryptoUseCase.
func (m *MockFormCryptoUseCase) EncryptFormData(
	ctx context.Context,
	tree domain.Value,
	key *service.Key,
) (domain.Value, error) {
	args := m.Called(ctx, tree, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Value), args.Error(1)
}

// DecryptFormData mocks the DecryptFormData method of FormCryptoUseCase.
func (m *MockFormCryptoUseCase) DecryptFormData(
	ctx context.Context,
	tree domain.Value,
	key *service.Key,
) (domain.Value, error) {
	args := m.Called(ctx, tree, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Value), args.Error(1)
}

// MockSessionUseCase is a mock implementation of SessionUseCase for testing.
type MockSessionUseCase struct {
	mock.Mock
}

// Status mocks the Status method of SessionUseCase.
func (m *MockSessionUseCase) Status(ctx context.Context) usecase.SessionStatus {
	return m.Called(ctx).Get(0).(usecase.SessionStatus)
}

// EncryptData mocks the EncryptData method of SessionUseCase.
func (m *MockSessionUseCase) EncryptData(ctx context.Context, tree domain.Value) (domain.Value, bool) {
	args := m.Called(ctx, tree)
	return args.Get(0).(domain.Value), args.Bool(1)
}

// DecryptData mocks the DecryptData method of SessionUseCase.
func (m *MockSessionUseCase) DecryptData(ctx context.Context, tree domain.Value) domain.Value {
	return m.Called(ctx, tree).Get(0).(domain.Value)
}
