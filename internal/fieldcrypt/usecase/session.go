package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
)

type sessionUseCase struct {
	keys   KeyProvider
	forms  FormCryptoUseCase
	logger *slog.Logger

	once      sync.Once
	supported bool
	key       *service.Key
}

// NewSessionUseCase creates a SessionUseCase. The capability probe and key generation run once,
// on first use; a failure leaves the session without a key for its whole lifetime.
func NewSessionUseCase(keys KeyProvider, forms FormCryptoUseCase, logger *slog.Logger) SessionUseCase {
	return &sessionUseCase{
		keys:   keys,
		forms:  forms,
		logger: logger,
	}
}

func (s *sessionUseCase) init(ctx context.Context) {
	s.once.Do(func() {
		s.supported = s.keys.IsSupported()
		if !s.supported {
			s.logger.WarnContext(ctx, "encryption is not supported")
			return
		}

		key, err := s.keys.GenerateKey()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to initialize encryption", slog.Any("error", err))
			return
		}
		s.key = key

		s.logger.InfoContext(ctx, "session key generated",
			slog.String("key_id", key.ID().String()),
			slog.String("algorithm", string(key.Algorithm())))
	})
}

func (s *sessionUseCase) Status(ctx context.Context) SessionStatus {
	s.init(ctx)

	status := SessionStatus{Supported: s.supported, HasKey: s.key != nil}
	if s.key != nil {
		status.KeyID = s.key.ID().String()
		status.Algorithm = s.key.Algorithm()
	}
	return status
}

func (s *sessionUseCase) EncryptData(ctx context.Context, tree domain.Value) (domain.Value, bool) {
	s.init(ctx)

	if !s.supported || s.key == nil {
		s.logger.WarnContext(ctx, "encryption not available, submitting unencrypted data")
		return tree, false
	}

	out, err := s.forms.EncryptFormData(ctx, tree, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encrypt form data", slog.Any("error", err))
		return tree, false
	}
	return out, true
}

func (s *sessionUseCase) DecryptData(ctx context.Context, tree domain.Value) domain.Value {
	s.init(ctx)

	if !s.supported || s.key == nil {
		return tree
	}

	out, err := s.forms.DecryptFormData(ctx, tree, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to decrypt form data", slog.Any("error", err))
		return tree
	}
	return out
}
