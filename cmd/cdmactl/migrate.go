package main

import (
	"fmt"
	"log/slog"

	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/cdma-ap/cmsnr-directory/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the directory and master staff tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if dryRun {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return printMigrations(cmd, cfg.Database.Driver)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			files, err := migrations.Load(e.cfg.Database.Driver)
			if err != nil {
				return err
			}
			for _, f := range files {
				// MySQL rejects multi-statement Exec unless the DSN opts in.
				stmts := []string{f.SQL}
				if e.cfg.Database.Driver == config.DriverMySQL {
					stmts = migrations.Statements(f.SQL)
				}
				for _, stmt := range stmts {
					if err := e.stores.Exec(ctx, stmt); err != nil {
						return fmt.Errorf("%s: %w", f.Name, err)
					}
				}
				slog.Info("Migration applied", "file", f.Name, "statements", len(stmts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the scripts instead of running them")
	return cmd
}

func printMigrations(cmd *cobra.Command, driver string) error {
	files, err := migrations.Load(driver)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n%s\n", f.Name, f.SQL)
	}
	return nil
}
