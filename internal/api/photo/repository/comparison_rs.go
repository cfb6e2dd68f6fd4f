package photoRepository

import (
	"context"

	"PhotoAnalyzer/internal/entity"
	contextPkg "PhotoAnalyzer/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *comparisonsRepository) CreateFaceComparison(ctx context.Context, comparison entity.FaceComparison) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateFaceComparison, comparison)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateFaceComparison")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"source_key": comparison.SourceKey,
			"target_key": comparison.TargetKey,
			"error":      err.Error(),
		}).Error("Database error when storing face comparison")
		return err
	}

	return nil
}
