package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/omnichat/cmd/app/commands"
)

func getSealingCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-sealing-key",
			Usage: "Generate a key for sealing server-side provider keys in cookies",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "local-kms",
					Usage: "Print a localsecrets KMS_KEY_URI instead of SERVER_ENCRYPTION_SECRET (development only)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateSealingKey(commands.DefaultIO().Writer, cmd.Bool("local-kms"))
			},
		},
		{
			Name:  "verify-sealer",
			Usage: "Check that a KMS key can seal and open server-side provider keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Sources: cli.EnvVars("KMS_KEY_URI"),
					Usage:   "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				logger := container.Logger()
				defer commands.CloseContainer(container, logger)

				return commands.RunVerifySealer(
					ctx,
					container.KMSService(),
					logger,
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
