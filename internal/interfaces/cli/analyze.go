package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze TICKER",
		Short: "Run the full dashboard analysis for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts)
			if err != nil {
				return err
			}
			dash, err := svc.GetDashboard(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("analyze %s: %w", args[0], err)
			}
			return printJSON(cmd, dash)
		},
	}
}
