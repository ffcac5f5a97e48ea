package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
)

type formCryptoUseCase struct {
	cipher   FieldCipher
	registry *domain.Registry
	limits   domain.Limits
	logger   *slog.Logger
}

// NewFormCryptoUseCase creates a FormCryptoUseCase matching leaves against policy.Registry and
// bounding each call by policy.Limits.
func NewFormCryptoUseCase(cipher FieldCipher, policy domain.Policy, logger *slog.Logger) FormCryptoUseCase {
	return &formCryptoUseCase{
		cipher:   cipher,
		registry: policy.Registry,
		limits:   policy.Limits,
		logger:   logger,
	}
}

// EncryptFormData walks tree depth-first, one leaf at a time, so the per-call counter needs no
// synchronization.
func (f *formCryptoUseCase) EncryptFormData(
	ctx context.Context,
	tree domain.Value,
	key *service.Key,
) (domain.Value, error) {
	if key == nil {
		return nil, domain.ErrKeyRequired
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: tree is required", domain.ErrInvalidFormData)
	}

	w := &encryptWalker{ctx: ctx, uc: f, key: key}
	return w.walk("", "", tree), nil
}

// DecryptFormData opens every Envelope regardless of the key it sits under.
func (f *formCryptoUseCase) DecryptFormData(
	ctx context.Context,
	tree domain.Value,
	key *service.Key,
) (domain.Value, error) {
	if key == nil {
		return nil, domain.ErrKeyRequired
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: tree is required", domain.ErrInvalidFormData)
	}

	w := &decryptWalker{ctx: ctx, uc: f, key: key}
	return w.walk("", tree), nil
}

type encryptWalker struct {
	ctx   context.Context
	uc    *formCryptoUseCase
	key   *service.Key
	count int
}

// walk returns a transformed copy of v. name is the key of the nearest enclosing object entry,
// which array elements inherit.
func (w *encryptWalker) walk(path, name string, v domain.Value) domain.Value {
	switch t := v.(type) {
	case *domain.Object:
		if t == nil {
			return v
		}
		out := domain.NewObject()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out.Set(k, w.walk(joinPath(path, k), k, child))
		}
		return out
	case domain.Array:
		out := make(domain.Array, len(t))
		for i, el := range t {
			out[i] = w.walk(fmt.Sprintf("%s[%d]", path, i), name, el)
		}
		return out
	case domain.String:
		return w.leaf(path, name, t)
	default:
		return v
	}
}

func (w *encryptWalker) leaf(path, name string, s domain.String) domain.Value {
	if !w.uc.registry.IsSensitive(name) || strings.TrimSpace(string(s)) == "" {
		return s
	}

	if w.count >= w.uc.limits.MaxSensitiveFields {
		w.uc.logger.WarnContext(w.ctx, "sensitive field left unencrypted, limit reached",
			slog.String("field", path),
			slog.Int("max_sensitive_fields", w.uc.limits.MaxSensitiveFields))
		return s
	}

	sealed, err := w.uc.cipher.Encrypt(string(s), w.key)
	if err != nil {
		w.uc.logger.ErrorContext(w.ctx, "failed to encrypt field",
			slog.String("field", path),
			slog.Any("error", err))
		return s
	}

	w.count++
	return sealed.Envelope()
}

type decryptWalker struct {
	ctx context.Context
	uc  *formCryptoUseCase
	key *service.Key
}

func (w *decryptWalker) walk(path string, v domain.Value) domain.Value {
	switch t := v.(type) {
	case domain.Envelope:
		plaintext, err := w.uc.cipher.Decrypt(t.Encrypted, t.IV, w.key)
		if err != nil {
			w.uc.logger.ErrorContext(w.ctx, "failed to decrypt field",
				slog.String("field", path),
				slog.Any("error", err))
			return t
		}
		return domain.String(plaintext)
	case *domain.Object:
		if t == nil {
			return v
		}
		out := domain.NewObject()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out.Set(k, w.walk(joinPath(path, k), child))
		}
		return out
	case domain.Array:
		out := make(domain.Array, len(t))
		for i, el := range t {
			out[i] = w.walk(fmt.Sprintf("%s[%d]", path, i), el)
		}
		return out
	default:
		return v
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
