package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Detect labels for every photo in the bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		ctx, cancel := context.WithTimeout(cmd.Context(), appConfig.ReportTimeout)
		defer cancel()

		svc, err := newPhotoService()
		if err != nil {
			return err
		}

		report, err := svc.Report(ctx)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
