package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/storefront/storefront/cmd/storefrontd/launcher"
	"github.com/storefront/storefront/kit/signals"
)

func main() {
	// exit with SIGINT and SIGTERM
	ctx := signals.WithStandardSignals(context.Background())

	cmd, err := launcher.NewCommand(ctx, viper.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cmd.SilenceUsage = true

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
