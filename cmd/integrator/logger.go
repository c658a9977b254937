package main

import (
	"log/slog"

	"github.com/utpbw/order-integration-service/internal/logging"
)

// setupLogger configures the default logger from the command-line flags.
func setupLogger(logLevel, logFormat string) {
	handler := logging.SetupHandler(logLevel, logFormat, nil)
	slog.SetDefault(slog.New(handler))
}
