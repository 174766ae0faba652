package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-api/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Aplica o revierte las migraciones embebidas",
		Long:      "down revierte todas las migraciones y borra los datos; usar solo en desarrollo.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadConfig()
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			dsn := cfg.DB.ConnectionString()
			var err error
			switch direction {
			case "up":
				err = postgres.Migrate(dsn, log.Named("migrate"))
			case "down":
				err = postgres.MigrateDown(dsn, log.Named("migrate"))
			}
			if err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			return nil
		},
	}
}
