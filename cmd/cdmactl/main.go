// Command cdmactl runs the directory's maintenance tasks: schema migration,
// master-data seeding, credential helpers and the birthday run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cdma-ap/cmsnr-directory/internal/bootstrap"
	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cdmactl",
		Short:         "Maintenance tool for the commissioner directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newHashPasswordCmd(),
		newTokenCmd(),
		newBirthdayCmd(),
	)
	return cmd
}

// env loads configuration, installs the logger and opens the database.
type env struct {
	cfg    *config.Config
	stores *bootstrap.Stores
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setLogger(cmd, cfg)

	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, stores: stores}, nil
}

func (e *env) close() {
	e.stores.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
