package main

import (
	"github.com/cdma-ap/cmsnr-directory/internal/bootstrap"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/spf13/cobra"
)

func newBirthdayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "birthday",
		Short: "Inspect or run today's birthday greetings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "today",
			Short: "List master staff whose birthday is today",
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := openEnv(cmd)
				if err != nil {
					return err
				}
				defer e.close()

				candidates, err := bootstrap.NewServices(e.cfg, e.stores).Birthday.Today(cmd.Context())
				if err != nil {
					return err
				}
				if candidates == nil {
					candidates = []birthday.Candidate{}
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"count":     len(candidates),
					"employees": candidates,
				})
			},
		},
		&cobra.Command{
			Use:   "send",
			Short: "Send today's greetings over WhatsApp",
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := openEnv(cmd)
				if err != nil {
					return err
				}
				defer e.close()

				summary, err := bootstrap.NewServices(e.cfg, e.stores).Birthday.SendToday(cmd.Context(), birthday.TriggerManual)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			},
		},
	)
	return cmd
}
