package cli

import (
	"context"
	"time"

	"storefront/internal/config"
	"storefront/pkg/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog and order tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := database.NewPool(ctx, database.PoolConfig{
				URL:      cfg.Database.URL,
				MaxConns: 1,
			}, logger)
			if err != nil {
				return err
			}
			defer database.ClosePool(pool, logger)

			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}
			logger.WithField("statements", len(database.SchemaStatements)).Info("Schema up to date")
			return nil
		},
	}
}
