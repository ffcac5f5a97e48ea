package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/fieldcrypt/service"
)

// KeyGenerator creates fresh field encryption keys.
type KeyGenerator interface {
	GenerateKey() (*service.Key, error)
}

// RunGenerateKey generates a key and prints its base64 material for use with encrypt-form and
// decrypt-form. When kmsKeyURI is set the material is wrapped by the KMS keeper before encoding.
// The exported material is zeroed after use.
func RunGenerateKey(
	ctx context.Context,
	keys KeyGenerator,
	kmsService service.KMSService,
	writer io.Writer,
	format string,
	kmsKeyURI string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	key, err := keys.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	material := key.Export()
	defer domain.Zero(material)

	output := material
	if kmsKeyURI != "" {
		output, err = wrapKey(ctx, kmsService, kmsKeyURI, material)
		if err != nil {
			return err
		}
	}
	encoded := base64.StdEncoding.EncodeToString(output)

	if format == "json" {
		result := map[string]string{
			"key_id":    key.ID().String(),
			"algorithm": string(key.Algorithm()),
			"key":       encoded,
		}
		if kmsKeyURI != "" {
			result["kms_key_uri"] = kmsKeyURI
		}
		return writeJSON(writer, result)
	}

	if _, err := fmt.Fprintf(writer, "# Key ID: %s\n# Algorithm: %s\n", key.ID(), key.Algorithm()); err != nil {
		return err
	}
	if kmsKeyURI != "" {
		if _, err := fmt.Fprintf(writer, "FORMSEAL_KMS_KEY_URI=\"%s\"\n", kmsKeyURI); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "FORMSEAL_ALGORITHM=\"%s\"\n", key.Algorithm()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "FORMSEAL_KEY=\"%s\"\n", encoded)
	return err
}

func wrapKey(ctx context.Context, kmsService service.KMSService, keyURI string, material []byte) ([]byte, error) {
	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	wrapped, err := keeper.Encrypt(ctx, material)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap key with KMS: %w", err)
	}
	return wrapped, nil
}

func unwrapKey(ctx context.Context, kmsService service.KMSService, keyURI string, wrapped []byte) ([]byte, error) {
	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	material, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap key with KMS: %w", err)
	}
	return material, nil
}
