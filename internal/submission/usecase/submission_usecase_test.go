package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
	fieldcryptUseCase "github.com/allisson/formseal/internal/fieldcrypt/usecase"
	fieldcryptMocks "github.com/allisson/formseal/internal/fieldcrypt/usecase/mocks"
	"github.com/allisson/formseal/internal/submission/domain"
	"github.com/allisson/formseal/internal/submission/usecase"
	usecaseMocks "github.com/allisson/formseal/internal/submission/usecase/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(policy fieldcryptDomain.Policy) fieldcryptUseCase.SessionUseCase {
	cipher := service.NewCipherService(service.NewAEADManager(), policy)
	forms := fieldcryptUseCase.NewFormCryptoUseCase(cipher, policy, discardLogger())
	return fieldcryptUseCase.NewSessionUseCase(cipher, forms, discardLogger())
}

func mustParse(t *testing.T, data string) fieldcryptDomain.Value {
	t.Helper()
	v, err := fieldcryptDomain.Parse([]byte(data))
	require.NoError(t, err)
	return v
}

const form = `{
	"personalInfo": {"name": "John Doe", "dob": "1990-01-01"},
	"familyInfo": {"monthlyIncome": "5000", "maritalStatus": "single"}
}`

func TestSubmissionUseCase_Submit(t *testing.T) {
	ctx := context.Background()
	policy := fieldcryptDomain.DefaultPolicy()

	t.Run("Success_EncryptsBeforeDelivery", func(t *testing.T) {
		gateway := &usecaseMocks.MockGateway{}
		uc := usecase.NewSubmissionUseCase(newSession(policy), gateway, policy, discardLogger())

		var delivered []byte
		gateway.On("Deliver", ctx, mock.AnythingOfType("[]uint8")).
			Run(func(args mock.Arguments) { delivered = args.Get(1).([]byte) }).
			Return(&domain.Delivery{Success: true, Message: "ok"}, nil).
			Once()

		receipt, err := uc.Submit(ctx, mustParse(t, form))
		require.NoError(t, err)

		assert.True(t, receipt.Success)
		assert.True(t, receipt.Encrypted)
		assert.Equal(t, 2, receipt.EncryptedFields)
		assert.Equal(t, "ok", receipt.Message)
		assert.Equal(t, len(delivered), receipt.PayloadBytes)
		assert.NotEqual(t, uuid.Nil, receipt.ID)
		assert.WithinDuration(t, time.Now().UTC(), receipt.SubmittedAt, time.Minute)

		assert.NotContains(t, string(delivered), "John Doe")
		assert.NotContains(t, string(delivered), `"monthlyIncome":"5000"`)
		assert.Contains(t, string(delivered), `"dob":"1990-01-01"`)
		assert.Contains(t, string(delivered), `"isEncrypted":true`)
		gateway.AssertExpectations(t)
	})

	t.Run("Success_CountsOnlyNewlySealedFields", func(t *testing.T) {
		gateway := &usecaseMocks.MockGateway{}
		uc := usecase.NewSubmissionUseCase(newSession(policy), gateway, policy, discardLogger())

		gateway.On("Deliver", ctx, mock.Anything).Return(&domain.Delivery{Success: true}, nil).Once()

		receipt, err := uc.Submit(ctx, mustParse(t, `{
			"name": "John Doe",
			"email": {"encrypted": "b2xk", "iv": "aXY=", "isEncrypted": true}
		}`))
		require.NoError(t, err)
		assert.Equal(t, 1, receipt.EncryptedFields)
	})

	t.Run("Success_UnencryptedWhenUnavailable", func(t *testing.T) {
		keys := &fieldcryptMocks.MockKeyProvider{}
		keys.On("IsSupported").Return(false).Once()
		session := fieldcryptUseCase.NewSessionUseCase(keys, &fieldcryptMocks.MockFormCryptoUseCase{}, discardLogger())

		gateway := &usecaseMocks.MockGateway{}
		uc := usecase.NewSubmissionUseCase(session, gateway, policy, discardLogger())

		gateway.On("Deliver", ctx, mock.Anything).Return(&domain.Delivery{Success: true}, nil).Once()

		receipt, err := uc.Submit(ctx, mustParse(t, form))
		require.NoError(t, err)
		assert.False(t, receipt.Encrypted)
		assert.Equal(t, 0, receipt.EncryptedFields)
	})

	t.Run("Error_GatewayFailure", func(t *testing.T) {
		gateway := &usecaseMocks.MockGateway{}
		uc := usecase.NewSubmissionUseCase(newSession(policy), gateway, policy, discardLogger())

		gateway.On("Deliver", ctx, mock.Anything).Return(nil, context.DeadlineExceeded).Once()

		receipt, err := uc.Submit(ctx, mustParse(t, form))
		assert.Nil(t, receipt)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Error_GatewayRejects", func(t *testing.T) {
		gateway := &usecaseMocks.MockGateway{}
		uc := usecase.NewSubmissionUseCase(newSession(policy), gateway, policy, discardLogger())

		gateway.On("Deliver", ctx, mock.Anything).
			Return(&domain.Delivery{Success: false, Message: "maintenance"}, nil).
			Once()

		_, err := uc.Submit(ctx, mustParse(t, form))
		assert.ErrorIs(t, err, domain.ErrDeliveryRejected)
	})

	t.Run("Error_InvalidForm", func(t *testing.T) {
		gateway := &usecaseMocks.MockGateway{}
		uc := usecase.NewSubmissionUseCase(newSession(policy), gateway, policy, discardLogger())

		_, err := uc.Submit(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrFormRequired)

		_, err = uc.Submit(ctx, fieldcryptDomain.Array{})
		assert.ErrorIs(t, err, domain.ErrFormNotObject)

		gateway.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	})
}

func TestSubmissionUseCase_Verify(t *testing.T) {
	ctx := context.Background()
	policy := fieldcryptDomain.DefaultPolicy()
	gateway := &usecaseMocks.MockGateway{}
	uc := usecase.NewSubmissionUseCase(newSession(policy), gateway, policy, discardLogger())

	var delivered []byte
	gateway.On("Deliver", ctx, mock.Anything).
		Run(func(args mock.Arguments) { delivered = args.Get(1).([]byte) }).
		Return(&domain.Delivery{Success: true}, nil).
		Once()

	_, err := uc.Submit(ctx, mustParse(t, form))
	require.NoError(t, err)

	decrypted, err := uc.Verify(ctx, mustParse(t, string(delivered)))
	require.NoError(t, err)

	out, err := json.Marshal(decrypted)
	require.NoError(t, err)
	assert.JSONEq(t, form, string(out))

	_, err = uc.Verify(ctx, fieldcryptDomain.String("x"))
	assert.ErrorIs(t, err, domain.ErrFormNotObject)
}

func TestSubmissionUseCase_Status(t *testing.T) {
	ctx := context.Background()
	policy := fieldcryptDomain.DefaultPolicy()
	uc := usecase.NewSubmissionUseCase(newSession(policy), &usecaseMocks.MockGateway{}, policy, discardLogger())

	status := uc.Status(ctx)

	assert.True(t, status.Supported)
	assert.True(t, status.HasKey)
	assert.NotEmpty(t, status.KeyID)
	assert.Equal(t, fieldcryptDomain.AESGCM, status.Algorithm)
	assert.Equal(t, fieldcryptDomain.DefaultSensitiveFields, status.SensitiveFields)
	assert.Equal(t, 20, status.MaxSensitiveFields)
	assert.Equal(t, 10000, status.MaxInputLength)
}

func TestSimulatedGateway_Deliver(t *testing.T) {
	t.Run("Success_AfterDelay", func(t *testing.T) {
		gateway := usecase.NewSimulatedGateway(10*time.Millisecond, discardLogger())

		start := time.Now()
		delivery, err := gateway.Deliver(context.Background(), []byte(`{}`))
		require.NoError(t, err)

		assert.True(t, delivery.Success)
		assert.Equal(t, "Form submitted successfully!", delivery.Message)
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("Error_ContextCancelled", func(t *testing.T) {
		gateway := usecase.NewSimulatedGateway(time.Hour, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		delivery, err := gateway.Deliver(ctx, []byte(`{}`))
		assert.Nil(t, delivery)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
