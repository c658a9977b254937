package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/utpbw/order-integration-service/internal/config"
	"github.com/utpbw/order-integration-service/internal/fancy"
)

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Print the effective configuration after file and environment resolution",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file",
			Aliases: []string{"c"},
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Println(fancy.ConfigTree(cfg))
		return nil
	},
}
