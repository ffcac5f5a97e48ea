package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	apperrors "github.com/allisson/formseal/internal/errors"
	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
	fieldcryptUseCase "github.com/allisson/formseal/internal/fieldcrypt/usecase"
)

// KeyImporter rebuilds a key from exported material.
type KeyImporter interface {
	ImportKey(raw []byte) (*service.Key, error)
}

// KeySource locates the key used by encrypt-form and decrypt-form. Encoded is the base64 output of
// generate-key; KMSKeyURI is set when that output was wrapped by a KMS keeper. Algorithm, when set,
// must match the algorithm the importer binds the key to.
type KeySource struct {
	Encoded    string
	KMSKeyURI  string
	KMSService service.KMSService
	Algorithm  string
}

// RunEncryptForm reads a JSON form, encrypts its sensitive fields and writes the result.
func RunEncryptForm(
	ctx context.Context,
	keys KeyImporter,
	forms fieldcryptUseCase.FormCryptoUseCase,
	streams IOTuple,
	source KeySource,
) error {
	key, form, err := loadKeyAndForm(ctx, keys, streams.Reader, source)
	if err != nil {
		return err
	}

	out, err := forms.EncryptFormData(ctx, form, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt form: %w", err)
	}
	return writeJSON(streams.Writer, out)
}

// RunDecryptForm reads a JSON form, decrypts every envelope the key can open and writes the result.
// Envelopes the key cannot open are written unchanged and reported as an error, so a wrong key or
// algorithm does not pass silently.
func RunDecryptForm(
	ctx context.Context,
	keys KeyImporter,
	forms fieldcryptUseCase.FormCryptoUseCase,
	streams IOTuple,
	source KeySource,
) error {
	key, form, err := loadKeyAndForm(ctx, keys, streams.Reader, source)
	if err != nil {
		return err
	}

	out, err := forms.DecryptFormData(ctx, form, key)
	if err != nil {
		return fmt.Errorf("failed to decrypt form: %w", err)
	}
	if err := writeJSON(streams.Writer, out); err != nil {
		return err
	}

	if sealed := domain.CountEnvelopes(out); sealed > 0 {
		return apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"%d encrypted field(s) could not be decrypted with this key and algorithm", sealed,
		)
	}
	return nil
}

func loadKeyAndForm(
	ctx context.Context,
	keys KeyImporter,
	r io.Reader,
	source KeySource,
) (*service.Key, domain.Value, error) {
	raw, err := base64.StdEncoding.DecodeString(source.Encoded)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "key is not valid base64")
	}

	if source.KMSKeyURI != "" {
		wrapped := raw
		raw, err = unwrapKey(ctx, source.KMSService, source.KMSKeyURI, wrapped)
		if err != nil {
			return nil, nil, err
		}
	}
	defer domain.Zero(raw)

	key, err := keys.ImportKey(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to import key: %w", err)
	}

	if source.Algorithm != "" {
		alg, err := domain.ParseAlgorithm(source.Algorithm)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to import key: %w", err)
		}
		if alg != key.Algorithm() {
			return nil, nil, apperrors.Wrapf(
				apperrors.ErrInvalidInput, "key is bound to %s but %s was requested", key.Algorithm(), alg,
			)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read form: %w", err)
	}

	form, err := domain.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return key, form, nil
}
