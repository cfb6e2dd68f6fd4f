package cli

import (
	"PhotoAnalyzer/internal/api/photo"
	"PhotoAnalyzer/internal/config"
	"github.com/spf13/cobra"
)

var threshold float64

var compareCmd = &cobra.Command{
	Use:   "compare <source_key> <target_key>",
	Short: "Compare the faces in two photos from the bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		req := photo.CompareRequest{
			SourceImage: args[0],
			TargetImage: args[1],
			Threshold:   threshold,
		}
		if err := config.NewValidator().Struct(req); err != nil {
			return err
		}

		svc, err := newPhotoService()
		if err != nil {
			return err
		}

		result, err := svc.Compare(cmd.Context(), req)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	compareCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Similarity threshold in percent (default: $SIMILARITY_THRESHOLD or 70)")
	rootCmd.AddCommand(compareCmd)
}
