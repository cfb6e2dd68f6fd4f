package photoService

import (
	"context"

	"PhotoAnalyzer/internal/api/photo"
	contextPkg "PhotoAnalyzer/pkg/context"
	"github.com/sirupsen/logrus"
)

func (s *photoService) History(ctx context.Context, key string) ([]photo.LabelHistoryItem, error) {
	if s.photoRepo == nil {
		return nil, photo.ErrHistoryDisabled
	}
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.photoRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	detections, err := repo.Labels.GetLabelDetectionsByKey(ctx, key, s.cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}

	items := make([]photo.LabelHistoryItem, 0, len(detections))
	for _, d := range detections {
		items = append(items, photo.LabelHistoryItem{
			ID:         d.ID,
			Key:        d.ObjectKey,
			Name:       d.LabelName,
			Confidence: s.utils.FormatConfidence(d.Confidence),
			DetectedAt: d.CreatedAt,
		})
	}

	return items, nil
}
