package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/formseal/cmd/app/commands"
	"github.com/allisson/formseal/internal/app"
	"github.com/allisson/formseal/internal/config"
)

func formFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "key",
			Aliases:  []string{"k"},
			Required: true,
			Sources:  cli.EnvVars("FORMSEAL_KEY"),
			Usage:    "Base64-encoded key printed by generate-key",
		},
		&cli.StringFlag{
			Name:    "algorithm",
			Aliases: []string{"alg"},
			Sources: cli.EnvVars("FORMSEAL_ALGORITHM"),
			Usage:   "Algorithm the key was generated for (defaults to ENCRYPTION_ALGORITHM)",
		},
		&cli.StringFlag{
			Name:    "kms-key-uri",
			Sources: cli.EnvVars("FORMSEAL_KMS_KEY_URI"),
			Usage:   "KMS key that wrapped the key, when generate-key was run with --kms-key-uri",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "JSON form file (read from stdin when omitted)",
		},
	}
}

// formConfig loads the configuration and binds it to the key's algorithm when one is given.
func formConfig(cmd *cli.Command) *config.Config {
	cfg := config.Load()
	if alg := cmd.String("algorithm"); alg != "" {
		cfg.EncryptionAlgorithm = alg
	}
	return cfg
}

// formCommandIO opens the input file when one is given.
func formCommandIO(path string) (commands.IOTuple, func(), error) {
	tuple := commands.DefaultIO()
	if path == "" {
		return tuple, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return tuple, nil, fmt.Errorf("failed to open form file: %w", err)
	}
	tuple.Reader = f
	return tuple, func() { _ = f.Close() }, nil
}

func keySource(container *app.Container, cmd *cli.Command) commands.KeySource {
	return commands.KeySource{
		Encoded:    cmd.String("key"),
		KMSKeyURI:  cmd.String("kms-key-uri"),
		KMSService: container.KMSService(),
		Algorithm:  cmd.String("algorithm"),
	}
}

func getFormCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-form",
			Usage: "Encrypt the sensitive fields of a JSON form",
			Flags: formFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(formConfig(cmd), app.WithLogWriter(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				cipherService, err := container.CipherService()
				if err != nil {
					return err
				}
				forms, err := container.FormCryptoUseCase()
				if err != nil {
					return err
				}

				tuple, closeInput, err := formCommandIO(cmd.String("file"))
				if err != nil {
					return err
				}
				defer closeInput()

				return commands.RunEncryptForm(ctx, cipherService, forms, tuple, keySource(container, cmd))
			},
		},
		{
			Name:  "decrypt-form",
			Usage: "Decrypt the encrypted fields of a JSON form",
			Flags: formFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(formConfig(cmd), app.WithLogWriter(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				cipherService, err := container.CipherService()
				if err != nil {
					return err
				}
				forms, err := container.FormCryptoUseCase()
				if err != nil {
					return err
				}

				tuple, closeInput, err := formCommandIO(cmd.String("file"))
				if err != nil {
					return err
				}
				defer closeInput()

				return commands.RunDecryptForm(ctx, cipherService, forms, tuple, keySource(container, cmd))
			},
		},
	}
}
