package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAlertsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts TICKER",
		Short: "Generate the current alerts for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts)
			if err != nil {
				return err
			}
			alerts, err := svc.GenerateAlerts(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("alerts %s: %w", args[0], err)
			}
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no alerts")
				return nil
			}
			return printJSON(cmd, alerts)
		},
	}
}
