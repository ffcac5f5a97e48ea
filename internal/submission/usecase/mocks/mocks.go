// Package mocks provides mock implementations of the submission use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/submission/domain"
)

// MockGateway is a mock implementation of Gateway for testing.
type MockGateway struct {
	mock.Mock
}

// Deliver mocks the Deliver method of Gateway.
func (m *MockGateway) Deliver(ctx context.Context, payload []byte) (*domain.Delivery, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}

// MockSubmissionUseCase is a mock implementation of SubmissionUseCase for testing.
type MockSubmissionUseCase struct {
	mock.Mock
}

// Submit mocks the Submit method of SubmissionUseCase.
func (m *MockSubmissionUseCase) Submit(ctx context.Context, form fieldcryptDomain.Value) (*domain.Receipt, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

// Verify mocks the Verify method of SubmissionUseCase.
func (m *MockSubmissionUseCase) Verify(
	ctx context.Context,
	payload fieldcryptDomain.Value,
) (fieldcryptDomain.Value, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(fieldcryptDomain.Value), args.Error(1)
}

// Status mocks the Status method of SubmissionUseCase.
func (m *MockSubmissionUseCase) Status(ctx context.Context) domain.EncryptionStatus {
	return m.Called(ctx).Get(0).(domain.EncryptionStatus)
}
