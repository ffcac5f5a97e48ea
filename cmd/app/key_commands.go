package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/formseal/cmd/app/commands"
	"github.com/allisson/formseal/internal/app"
	"github.com/allisson/formseal/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-key",
			Usage: "Generate a field encryption key for offline use",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   "aes-gcm",
					Usage:   "Encryption algorithm to use (aes-gcm or chacha20-poly1305)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Wrap the key with this KMS key (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				cfg.EncryptionAlgorithm = cmd.String("algorithm")
				container := app.NewContainer(cfg, app.WithLogWriter(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				cipherService, err := container.CipherService()
				if err != nil {
					return err
				}

				return commands.RunGenerateKey(
					ctx,
					cipherService,
					container.KMSService(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "hash",
			Usage: "Print the SHA-256 digest of a value",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "input",
					Aliases: []string{"i"},
					Usage:   "Value to hash (read from stdin when omitted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load(), app.WithLogWriter(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunHash(container.HashService(), commands.DefaultIO(), cmd.String("input"))
			},
		},
	}
}
