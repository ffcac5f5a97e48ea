package usecase

import (
	"context"
	"time"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
	"github.com/allisson/formseal/internal/metrics"
)

// formCryptoUseCaseWithMetrics decorates FormCryptoUseCase with metrics instrumentation.
type formCryptoUseCaseWithMetrics struct {
	next    FormCryptoUseCase
	metrics metrics.BusinessMetrics
}

// NewFormCryptoUseCaseWithMetrics wraps a FormCryptoUseCase with metrics recording.
func NewFormCryptoUseCaseWithMetrics(useCase FormCryptoUseCase, m metrics.BusinessMetrics) FormCryptoUseCase {
	return &formCryptoUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// EncryptFormData records metrics for tree encryption operations.
func (f *formCryptoUseCaseWithMetrics) EncryptFormData(
	ctx context.Context,
	tree domain.Value,
	key *service.Key,
) (domain.Value, error) {
	start := time.Now()
	out, err := f.next.EncryptFormData(ctx, tree, key)
	f.record(ctx, "form_encrypt", start, err)
	if err == nil {
		f.metrics.RecordSealedFields(ctx, "form_encrypt", domain.CountSealed(tree, out))
	}
	return out, err
}

// DecryptFormData records metrics for tree decryption operations.
func (f *formCryptoUseCaseWithMetrics) DecryptFormData(
	ctx context.Context,
	tree domain.Value,
	key *service.Key,
) (domain.Value, error) {
	start := time.Now()
	out, err := f.next.DecryptFormData(ctx, tree, key)
	f.record(ctx, "form_decrypt", start, err)
	return out, err
}

func (f *formCryptoUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "fieldcrypt", operation, status)
	f.metrics.RecordDuration(ctx, "fieldcrypt", operation, time.Since(start), status)
}
