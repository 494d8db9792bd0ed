package main

import (
	"log/slog"

	"github.com/cdma-ap/cmsnr-directory/internal/bootstrap"
	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/spf13/cobra"
)

// Logs go to stderr so stdout stays machine readable.
func setLogger(cmd *cobra.Command, cfg *config.Config) {
	slog.SetDefault(bootstrap.NewLogger(cmd.ErrOrStderr(), cfg))
}
