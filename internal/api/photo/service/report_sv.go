package photoService

import (
	"context"
	"time"

	"PhotoAnalyzer/internal/api/photo"
	"PhotoAnalyzer/internal/entity"
	contextPkg "PhotoAnalyzer/pkg/context"
	"PhotoAnalyzer/pkg/rekognition"
	"github.com/sirupsen/logrus"
)

// Report labels every object in the configured bucket, one inner list per
// object in listing order.
func (s *photoService) Report(ctx context.Context) ([][]photo.WorkItem, error) {
	requestID := contextPkg.GetRequestID(ctx)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"bucket":     s.cfg.Bucket,
	}).Info("start report")

	keys, err := s.s3Client.ListObjectKeys(ctx, s.cfg.Bucket)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"bucket":     s.cfg.Bucket,
			"error":      err.Error(),
		}).Error("Failed to list bucket objects")
		return nil, storageError(err)
	}

	report := make([][]photo.WorkItem, 0, len(keys))
	for _, key := range keys {
		items, err := s.labelObject(ctx, key)
		if err != nil {
			return nil, err
		}
		report = append(report, items)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"objects":    len(report),
	}).Info("end report")

	return report, nil
}

func (s *photoService) labelObject(ctx context.Context, key string) ([]photo.WorkItem, error) {
	requestID := contextPkg.GetRequestID(ctx)

	image, err := s.s3Client.GetObjectBytes(ctx, s.cfg.Bucket, key)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Error("Failed to fetch object bytes")
		return nil, storageError(err)
	}

	labels, err := s.vision.DetectLabels(ctx, image, s.cfg.MaxLabels)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Error("Failed to detect labels")
		return nil, visionError(err)
	}

	items := make([]photo.WorkItem, 0, len(labels))
	for _, label := range labels {
		items = append(items, photo.WorkItem{
			Key:        key,
			Name:       label.Name,
			Confidence: s.utils.FormatConfidence(label.Confidence),
		})
	}

	s.recordLabels(ctx, key, labels)

	return items, nil
}

func (s *photoService) recordLabels(ctx context.Context, key string, labels []rekognition.Label) {
	if s.photoRepo == nil || len(labels) == 0 {
		return
	}
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.photoRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create repository client, labels not recorded")
		return
	}
	defer repo.Rollback()

	now := time.Now()
	for _, label := range labels {
		id, err := s.utils.NewULIDFromTimestamp(now)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to generate ULID, labels not recorded")
			return
		}

		if err := repo.Labels.CreateLabelDetection(ctx, entity.LabelDetection{
			ID:         id,
			ObjectKey:  key,
			LabelName:  label.Name,
			Confidence: label.Confidence,
			CreatedAt:  now,
		}); err != nil {
			return
		}
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to commit label detections")
	}
}
