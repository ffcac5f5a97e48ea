package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	fieldcryptUseCase "github.com/allisson/formseal/internal/fieldcrypt/usecase"
	"github.com/allisson/formseal/internal/submission/domain"
)

type submissionUseCase struct {
	session fieldcryptUseCase.SessionUseCase
	gateway Gateway
	policy  fieldcryptDomain.Policy
	logger  *slog.Logger
	now     func() time.Time
}

// NewSubmissionUseCase creates a SubmissionUseCase.
func NewSubmissionUseCase(
	session fieldcryptUseCase.SessionUseCase,
	gateway Gateway,
	policy fieldcryptDomain.Policy,
	logger *slog.Logger,
) SubmissionUseCase {
	return &submissionUseCase{
		session: session,
		gateway: gateway,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *submissionUseCase) Submit(ctx context.Context, form fieldcryptDomain.Value) (*domain.Receipt, error) {
	if err := checkRoot(form); err != nil {
		return nil, err
	}

	payload, encrypted := s.session.EncryptData(ctx, form)
	sealed := fieldcryptDomain.CountSealed(form, payload)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize application: %w", err)
	}

	delivery, err := s.gateway.Deliver(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver application: %w", err)
	}
	if !delivery.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryRejected, delivery.Message)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt id: %w", err)
	}

	receipt := &domain.Receipt{
		ID:              id,
		Success:         true,
		Message:         delivery.Message,
		Encrypted:       encrypted,
		EncryptedFields: sealed,
		PayloadBytes:    len(body),
		SubmittedAt:     s.now().UTC(),
	}

	s.logger.InfoContext(ctx, "application submitted",
		slog.String("receipt_id", receipt.ID.String()),
		slog.Bool("encrypted", receipt.Encrypted),
		slog.Int("encrypted_fields", receipt.EncryptedFields))

	return receipt, nil
}

func (s *submissionUseCase) Verify(
	ctx context.Context,
	payload fieldcryptDomain.Value,
) (fieldcryptDomain.Value, error) {
	if err := checkRoot(payload); err != nil {
		return nil, err
	}
	return s.session.DecryptData(ctx, payload), nil
}

func (s *submissionUseCase) Status(ctx context.Context) domain.EncryptionStatus {
	session := s.session.Status(ctx)
	return domain.EncryptionStatus{
		Supported:          session.Supported,
		HasKey:             session.HasKey,
		KeyID:              session.KeyID,
		Algorithm:          session.Algorithm,
		SensitiveFields:    s.policy.Registry.Names(),
		MaxSensitiveFields: s.policy.Limits.MaxSensitiveFields,
		MaxInputLength:     s.policy.Limits.MaxInputLength,
	}
}

func checkRoot(v fieldcryptDomain.Value) error {
	if v == nil {
		return domain.ErrFormRequired
	}
	if v.Kind() != fieldcryptDomain.KindObject {
		return domain.ErrFormNotObject
	}
	return nil
}
