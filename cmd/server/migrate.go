package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/config"
	"github.com/itemhub/item-service/internal/db"
)

func migrateCmd(deps func() (*zap.Logger, *config.Config)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg := deps()
			version, err := db.Migrate(cfg.MigrationsPath, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			logger.Info("database migrations applied",
				zap.String("source", cfg.MigrationsPath),
				zap.Uint("version", version),
			)
			return nil
		},
	}
}
