package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/submission/domain"
	"github.com/allisson/formseal/internal/submission/usecase"
	usecaseMocks "github.com/allisson/formseal/internal/submission/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordSealedFields(ctx context.Context, operation string, count int) {
	m.Called(ctx, operation, count)
}

func TestSubmissionUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	form := fieldcryptDomain.NewObject().Set("name", fieldcryptDomain.String("John"))

	t.Run("Submit_Success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSubmissionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSubmissionUseCaseWithMetrics(mockNext, mockMetrics)

		receipt := &domain.Receipt{ID: uuid.Must(uuid.NewV7()), Success: true}
		mockNext.On("Submit", ctx, form).Return(receipt, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "submission", "submit", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "submission", "submit", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		out, err := uc.Submit(ctx, form)

		assert.NoError(t, err)
		assert.Equal(t, receipt, out)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Verify_Error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSubmissionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSubmissionUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Verify", ctx, form).Return(nil, domain.ErrFormNotObject).Once()
		mockMetrics.On("RecordOperation", ctx, "submission", "verify", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "submission", "verify", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		out, err := uc.Verify(ctx, form)

		assert.Nil(t, out)
		assert.ErrorIs(t, err, domain.ErrFormNotObject)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Status_NotInstrumented", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSubmissionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSubmissionUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Status", ctx).Return(domain.EncryptionStatus{Supported: true}).Once()

		assert.True(t, uc.Status(ctx).Supported)
		mockMetrics.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
