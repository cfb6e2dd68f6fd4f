package photoRepository

import (
	"context"

	"PhotoAnalyzer/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Labels:      &labelsRepository{q: sqlExecutor, log: r.log},
		Comparisons: &comparisonsRepository{q: sqlExecutor, log: r.log},
		Commit:      commitFunc,
		Rollback:    rollbackFunc,
	}, nil
}

type Client struct {
	Labels interface {
		CreateLabelDetection(ctx context.Context, detection entity.LabelDetection) error
		GetLabelDetectionsByKey(ctx context.Context, key string, limit int) ([]entity.LabelDetection, error)
	}

	Comparisons interface {
		CreateFaceComparison(ctx context.Context, comparison entity.FaceComparison) error
	}

	Commit   func() error
	Rollback func() error
}

type labelsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type comparisonsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
