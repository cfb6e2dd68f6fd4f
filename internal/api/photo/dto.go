package photo

import "time"

// PhotoCompareResponse is the face comparison payload. Counts and rotations
// are strings on the wire.
type PhotoCompareResponse struct {
	CountFacesNotMatch  string `json:"countFacesNotMatch"`
	SourceImageRotation string `json:"sourceImageRotation"`
	TargetImageRotation string `json:"targetImageRotation"`
}

// WorkItem is one detected label for one bucket object.
type WorkItem struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Confidence string `json:"confidence"`
}

type CompareRequest struct {
	SourceImage string  `validate:"required,max=1024"`
	TargetImage string  `validate:"required,max=1024"`
	Threshold   float64 `validate:"omitempty,gt=0,lte=100"`
}

type LabelHistoryItem struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Confidence string    `json:"confidence"`
	DetectedAt time.Time `json:"detectedAt"`
}

type Config struct {
	Bucket              string
	SimilarityThreshold float64
	MaxLabels           int64
	HistoryLimit        int
}

const (
	DefaultBucket              = "apptesis"
	DefaultSimilarityThreshold = 70
	DefaultHistoryLimit        = 100

	// OrientationUnknown is reported when the vision service leaves the
	// orientation correction out of its answer.
	OrientationUnknown = "null"
)
