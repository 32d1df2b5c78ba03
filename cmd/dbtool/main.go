package main

import (
	"cargo-tracking-service/internal/config"
	"cargo-tracking-service/internal/platform/logger"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Prepare Postgres and Kafka for the cargo tracking service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.AppEnv)
		if err != nil {
			return err
		}
		logger.SetDefault(log)
		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "dbtool:", err)
		os.Exit(1)
	}
}
