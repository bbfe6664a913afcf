package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/config"
)

// Execute builds the command tree and runs it. "serve" is the default when
// no subcommand is given.
func Execute() error {
	var logger *zap.Logger
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "itemsvc",
		Short:         "Item CRUD service with concurrent bulk processing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = zap.NewProduction()
			if err != nil {
				return err
			}
			cfg, err = config.Load()
			return err
		},
	}

	serve := serveCmd(func() (*zap.Logger, *config.Config) { return logger, cfg })
	root.AddCommand(serve, migrateCmd(func() (*zap.Logger, *config.Config) { return logger, cfg }))
	root.RunE = serve.RunE

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if logger == nil {
		return err
	}
	if err != nil {
		logger.Error("command failed", zap.Error(err))
	}
	_ = logger.Sync() //nolint:errcheck
	return err
}
