package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	photoService "PhotoAnalyzer/internal/api/photo/service"
	"PhotoAnalyzer/internal/config"
	"PhotoAnalyzer/pkg/log"
	"PhotoAnalyzer/pkg/rekognition"
	"PhotoAnalyzer/pkg/s3"
	"PhotoAnalyzer/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

var (
	bucket string

	logger    *logrus.Logger
	appConfig config.AppConfig

	// newStorage and newVision are replaced in tests.
	newStorage = func() (s3.ItfS3, error) { return s3.New() }
	newVision  = func(l *logrus.Logger) (rekognition.IRekognition, error) { return rekognition.New(l) }
)

var rootCmd = &cobra.Command{
	Use:     "analyzer",
	Short:   "Label and compare photos stored in an S3 bucket with Rekognition",
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = log.NewLogger()
		config.LoadEnv(logger)
		appConfig = config.LoadAppConfig()
		if bucket != "" {
			appConfig.Photo.Bucket = bucket
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket holding the photos (default: $PHOTO_BUCKET or apptesis)")
}

// newPhotoService builds the analyzer without an audit store; the CLI
// never records results.
func newPhotoService() (photoService.IPhotoService, error) {
	storage, err := newStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	vision, err := newVision(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Rekognition client: %w", err)
	}

	return photoService.NewPhotoService(logger, appConfig.Photo, storage, vision, nil, utils.New()), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
