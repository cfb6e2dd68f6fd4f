package photoService

import (
	"context"

	"PhotoAnalyzer/internal/api/photo"
	photoRepository "PhotoAnalyzer/internal/api/photo/repository"
	"PhotoAnalyzer/pkg/rekognition"
	"PhotoAnalyzer/pkg/s3"
	"PhotoAnalyzer/pkg/utils"
	"github.com/sirupsen/logrus"
)

type IPhotoService interface {
	Report(ctx context.Context) ([][]photo.WorkItem, error)
	Compare(ctx context.Context, req photo.CompareRequest) (*photo.PhotoCompareResponse, error)
	History(ctx context.Context, key string) ([]photo.LabelHistoryItem, error)
}

type photoService struct {
	log       *logrus.Logger
	cfg       photo.Config
	s3Client  s3.ItfS3
	vision    rekognition.IRekognition
	photoRepo photoRepository.Repository
	utils     utils.IUtils
}

// NewPhotoService wires the analyzer. photoRepo may be nil, in which case
// results are not recorded and History reports photo.ErrHistoryDisabled.
func NewPhotoService(
	log *logrus.Logger,
	cfg photo.Config,
	s3Client s3.ItfS3,
	vision rekognition.IRekognition,
	photoRepo photoRepository.Repository,
	utils utils.IUtils,
) IPhotoService {
	if cfg.Bucket == "" {
		cfg.Bucket = photo.DefaultBucket
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = photo.DefaultSimilarityThreshold
	}
	if cfg.MaxLabels <= 0 {
		cfg.MaxLabels = rekognition.DefaultMaxLabels
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = photo.DefaultHistoryLimit
	}

	return &photoService{
		log:       log,
		cfg:       cfg,
		s3Client:  s3Client,
		vision:    vision,
		photoRepo: photoRepo,
		utils:     utils,
	}
}
