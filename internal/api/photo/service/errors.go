package photoService

import (
	"context"
	"errors"

	"PhotoAnalyzer/internal/api/photo"
	"PhotoAnalyzer/pkg/rekognition"
	"PhotoAnalyzer/pkg/response"
	"PhotoAnalyzer/pkg/s3"
)

// contextError reports whether err ended because the request context did.
// Those pass through unwrapped so the handler answers with a timeout.
func contextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func storageError(err error) error {
	switch {
	case contextError(err):
		return err
	case errors.Is(err, s3.ErrObjectNotFound):
		return response.Wrap(photo.ErrObjectNotFound, err)
	case errors.Is(err, s3.ErrBucketNotFound):
		return response.Wrap(photo.ErrBucketNotFound, err)
	}
	return response.Wrap(photo.ErrStorageUnavailable, err)
}

func visionError(err error) error {
	switch {
	case contextError(err):
		return err
	case errors.Is(err, rekognition.ErrInvalidImage):
		return response.Wrap(photo.ErrInvalidImage, err)
	case errors.Is(err, rekognition.ErrThrottled):
		return response.Wrap(photo.ErrVisionThrottled, err)
	}
	return response.Wrap(photo.ErrVisionUnavailable, err)
}
