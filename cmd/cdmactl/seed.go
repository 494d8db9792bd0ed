package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cdma-ap/cmsnr-directory/internal/pkg/importer"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	file  string
	apply bool
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load directory entries from a CSV or XLSX file",
		Long: "Reads a CSV or XLSX export of the commissioner directory and upserts it on cfms_id.\n" +
			"Without --apply the file is only validated and the would-be inserts and updates are reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV or XLSX file to load (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the database (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(cmd *cobra.Command, opts seedOptions) error {
	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.file, err)
	}
	defer f.Close()

	rows, err := importer.ReadRows(f, filepath.Base(opts.file))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.file, err)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	summary, err := importer.New(e.stores.Entries, e.stores.Tx).Run(cmd.Context(), rows, opts.apply)
	if err != nil {
		return err
	}
	if !opts.apply {
		slog.Info("Dry run; re-run with --apply to write", "run_id", summary.RunID)
	}
	return printJSON(cmd.OutOrStdout(), summary)
}
