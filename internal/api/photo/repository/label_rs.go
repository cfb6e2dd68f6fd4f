package photoRepository

import (
	"context"

	"PhotoAnalyzer/internal/entity"
	contextPkg "PhotoAnalyzer/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *labelsRepository) CreateLabelDetection(ctx context.Context, detection entity.LabelDetection) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateLabelDetection, detection)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateLabelDetection")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"object_key": detection.ObjectKey,
			"error":      err.Error(),
		}).Error("Database error when storing label detection")
		return err
	}

	return nil
}

func (r *labelsRepository) GetLabelDetectionsByKey(ctx context.Context, key string, limit int) ([]entity.LabelDetection, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"object_key": key,
		"limit":      limit,
	}

	query, args, err := sqlx.Named(queryGetLabelDetectionsByKey, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLabelDetectionsByKey named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	detections := []entity.LabelDetection{}
	if err := r.q.SelectContext(ctx, &detections, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"object_key": key,
			"error":      err.Error(),
		}).Error("Database error when listing label detections")
		return nil, err
	}

	return detections, nil
}
