package usecase

import (
	"context"
	"time"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/metrics"
	"github.com/allisson/formseal/internal/submission/domain"
)

// submissionUseCaseWithMetrics decorates SubmissionUseCase with metrics instrumentation.
type submissionUseCaseWithMetrics struct {
	next    SubmissionUseCase
	metrics metrics.BusinessMetrics
}

// NewSubmissionUseCaseWithMetrics wraps a SubmissionUseCase with metrics recording.
func NewSubmissionUseCaseWithMetrics(useCase SubmissionUseCase, m metrics.BusinessMetrics) SubmissionUseCase {
	return &submissionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Submit records metrics for application submissions.
func (s *submissionUseCaseWithMetrics) Submit(
	ctx context.Context,
	form fieldcryptDomain.Value,
) (*domain.Receipt, error) {
	start := time.Now()
	receipt, err := s.next.Submit(ctx, form)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "submission", "submit", status)
	s.metrics.RecordDuration(ctx, "submission", "submit", time.Since(start), status)

	return receipt, err
}

// Verify records metrics for payload verification.
func (s *submissionUseCaseWithMetrics) Verify(
	ctx context.Context,
	payload fieldcryptDomain.Value,
) (fieldcryptDomain.Value, error) {
	start := time.Now()
	out, err := s.next.Verify(ctx, payload)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "submission", "verify", status)
	s.metrics.RecordDuration(ctx, "submission", "verify", time.Since(start), status)

	return out, err
}

// Status is not instrumented.
func (s *submissionUseCaseWithMetrics) Status(ctx context.Context) domain.EncryptionStatus {
	return s.next.Status(ctx)
}
