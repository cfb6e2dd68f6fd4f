package photo

import (
	"PhotoAnalyzer/pkg/response"
	"net/http"
)

var (
	ErrObjectNotFound     = response.NewError(http.StatusNotFound, "photo not found in bucket")
	ErrBucketNotFound     = response.NewError(http.StatusNotFound, "bucket not found")
	ErrInvalidImage       = response.NewError(http.StatusUnprocessableEntity, "image rejected by vision service")
	ErrStorageUnavailable = response.NewError(http.StatusBadGateway, "object storage request failed")
	ErrVisionUnavailable  = response.NewError(http.StatusBadGateway, "vision service request failed")
	ErrVisionThrottled    = response.NewError(http.StatusServiceUnavailable, "vision service is throttling requests")
	ErrHistoryDisabled    = response.NewError(http.StatusServiceUnavailable, "analysis history is not configured")
)
