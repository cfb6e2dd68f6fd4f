package photoService

import (
	"context"
	"strconv"
	"time"

	"PhotoAnalyzer/internal/api/photo"
	"PhotoAnalyzer/internal/entity"
	contextPkg "PhotoAnalyzer/pkg/context"
	"PhotoAnalyzer/pkg/rekognition"
	"github.com/sirupsen/logrus"
)

func (s *photoService) Compare(ctx context.Context, req photo.CompareRequest) (*photo.PhotoCompareResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.cfg.SimilarityThreshold
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"source":     req.SourceImage,
		"target":     req.TargetImage,
		"threshold":  threshold,
	}).Info("start compare")

	source, err := s.s3Client.GetObjectBytes(ctx, s.cfg.Bucket, req.SourceImage)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        req.SourceImage,
			"error":      err.Error(),
		}).Error("Failed to fetch source image")
		return nil, storageError(err)
	}

	target, err := s.s3Client.GetObjectBytes(ctx, s.cfg.Bucket, req.TargetImage)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        req.TargetImage,
			"error":      err.Error(),
		}).Error("Failed to fetch target image")
		return nil, storageError(err)
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"source_bytes": len(source),
		"target_bytes": len(target),
	}).Debug("Fetched images for comparison")

	result, err := s.vision.CompareFaces(ctx, threshold, source, target)
	if err != nil {
		return nil, visionError(err)
	}

	resp := &photo.PhotoCompareResponse{
		CountFacesNotMatch:  strconv.Itoa(result.UnmatchedFaces),
		SourceImageRotation: orientation(result.SourceOrientation),
		TargetImageRotation: orientation(result.TargetOrientation),
	}

	s.recordComparison(ctx, req, threshold, result, resp)

	return resp, nil
}

func orientation(v *string) string {
	if v == nil {
		return photo.OrientationUnknown
	}
	return *v
}

func (s *photoService) recordComparison(
	ctx context.Context,
	req photo.CompareRequest,
	threshold float64,
	result *rekognition.CompareFacesResult,
	resp *photo.PhotoCompareResponse,
) {
	if s.photoRepo == nil {
		return
	}
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.photoRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create repository client, comparison not recorded")
		return
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate ULID, comparison not recorded")
		return
	}

	// errors are logged by the repository
	_ = repo.Comparisons.CreateFaceComparison(ctx, entity.FaceComparison{
		ID:                  id,
		SourceKey:           req.SourceImage,
		TargetKey:           req.TargetImage,
		SimilarityThreshold: threshold,
		MatchedFaces:        len(result.Matches),
		UnmatchedFaces:      result.UnmatchedFaces,
		SourceRotation:      resp.SourceImageRotation,
		TargetRotation:      resp.TargetImageRotation,
		CreatedAt:           now,
	})
}
