package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadKey string

var uploadCmd = &cobra.Command{
	Use:   "upload <image_path>",
	Short: "Upload a local photo into the bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		path := args[0]

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		key := uploadKey
		if key == "" {
			key = filepath.Base(path)
		}

		storage, err := newStorage()
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}

		location, err := storage.UploadFile(cmd.Context(), appConfig.Photo.Bucket, key, f, mime.TypeByExtension(filepath.Ext(path)))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), location)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadKey, "key", "k", "", "Object key (default: file name)")
	rootCmd.AddCommand(uploadCmd)
}
