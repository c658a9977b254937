package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	app := &cli.Command{
		Name:    "integrator",
		Version: Version,
		Usage:   "Order integration service: drives accepted orders through inventory, payment, and warehouse systems",
		Commands: []*cli.Command{
			versionCmd,
			configCmd,
			serverCmd,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
