package cmd

import (
	"fmt"
	"strings"
	"time"

	"leadscout/internal/storage"

	"github.com/spf13/cobra"
)

// dbCmd groups SQL storage subcommands.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "SQL storage utilities",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the signal tables of the configured SQL driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := withTimeout(time.Minute)
		defer cancel()

		switch strings.ToLower(cfg.Storage.Driver) {
		case "postgres":
			s, err := storage.OpenPostgres(ctx, cfg.Storage.PostgresDSN)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Migrate(ctx); err != nil {
				return err
			}
		case "sqlite":
			s, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
			if err != nil {
				return err
			}
			defer s.Close()
		default:
			return fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s schema up to date\n", cfg.Storage.Driver)
		return nil
	},
}

func init() {
	dbCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(dbCmd)
}
