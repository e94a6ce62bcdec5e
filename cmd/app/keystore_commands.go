package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/omnichat/cmd/app/commands"
)

func getKeystoreCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "keystore-status",
			Usage: "Show whether the keystore is configured and which providers have a stored key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				useCase, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				return commands.RunKeystoreStatus(ctx, useCase, commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
		{
			Name:  "export-keystore",
			Usage: "Write the encrypted keystore transfer document",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "Output file, '-' for stdout",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				logger := container.Logger()
				defer commands.CloseContainer(container, logger)

				useCase, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				output, err := commands.OpenOutput(cmd.String("output"))
				if err != nil {
					return err
				}
				if err := commands.RunExportKeystore(ctx, useCase, logger, output); err != nil {
					_ = output.Close()
					return err
				}
				return output.Close()
			},
		},
		{
			Name:  "import-keystore",
			Usage: "Replace the keystore with a transfer document",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Input file, '-' for stdin",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				logger := container.Logger()
				defer commands.CloseContainer(container, logger)

				useCase, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				input, err := commands.OpenInput(cmd.String("input"))
				if err != nil {
					return err
				}
				defer func() { _ = input.Close() }()

				return commands.RunImportKeystore(ctx, useCase, logger, input, commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "verify-key",
			Usage: "Check a provider API key against the provider's models endpoint",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "provider",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Provider: openai, gemini, groq or claude",
				},
				&cli.StringFlag{
					Name:    "api-key",
					Aliases: []string{"k"},
					Usage:   "API key to check; omit to check the stored key",
				},
				&cli.StringFlag{
					Name:    "passphrase",
					Sources: cli.EnvVars("OMNICHAT_PASSPHRASE"),
					Usage:   "Keystore passphrase, used when --api-key is omitted",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				logger := container.Logger()
				defer commands.CloseContainer(container, logger)

				useCase, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}
				verifier, err := container.Verifier()
				if err != nil {
					return err
				}

				return commands.RunVerifyKey(
					ctx,
					useCase,
					verifier,
					logger,
					commands.DefaultIO().Writer,
					cmd.String("provider"),
					cmd.String("api-key"),
					cmd.String("passphrase"),
					cmd.String("format"),
				)
			},
		},
	}
}
