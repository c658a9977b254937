package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/utpbw/order-integration-service/internal/config"
	"github.com/utpbw/order-integration-service/internal/server"
)

var serverCmd = &cli.Command{
	Name:  "server",
	Usage: "Start the order integration service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Address for the intake HTTP listener (host:port)",
			Aliases: []string{"l"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (trace, debug, info, warn, error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log output format (text or json)",
			Value: "text",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		setupLogger(cmd.String("log-level"), cmd.String("log-format"))

		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
		}
		if listen := cmd.String("listen"); listen != "" {
			cfg.Intake.ListenAddr = listen
		}

		logger := slog.Default()
		logger.Info("Starting order integration service",
			"version", cmd.Root().Version,
			"intake", cfg.Intake.ListenAddr,
			"inventory", cfg.Inventory.Addr,
			"payment", cfg.Payment.BaseURL,
			"broker", cfg.Broker.Host)

		if err := server.Run(ctx, logger, cfg); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	},
}
