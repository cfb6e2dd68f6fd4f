package rekognition

import (
	"context"
	"errors"
	"fmt"

	"PhotoAnalyzer/pkg/awssession"
	contextPkg "PhotoAnalyzer/pkg/context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/sirupsen/logrus"
)

const DefaultMaxLabels int64 = 10

var (
	ErrInvalidImage = errors.New("image rejected by vision service")
	ErrThrottled    = errors.New("vision service throttled the request")
)

type FaceMatch struct {
	Left       float64
	Top        float64
	Similarity float64
	Confidence float64
}

type CompareFacesResult struct {
	Matches           []FaceMatch
	UnmatchedFaces    int
	SourceOrientation *string
	TargetOrientation *string
}

type Label struct {
	Name       string
	Confidence float64
}

type IRekognition interface {
	CompareFaces(ctx context.Context, similarityThreshold float64, source, target []byte) (*CompareFacesResult, error)
	DetectLabels(ctx context.Context, image []byte, maxLabels int64) ([]Label, error)
}

// VisionAPI is the part of *rekognition.Rekognition the adapter calls.
type VisionAPI interface {
	CompareFacesWithContext(ctx aws.Context, input *rekognition.CompareFacesInput, opts ...request.Option) (*rekognition.CompareFacesOutput, error)
	DetectLabelsWithContext(ctx aws.Context, input *rekognition.DetectLabelsInput, opts ...request.Option) (*rekognition.DetectLabelsOutput, error)
}

type rekognitionClient struct {
	client VisionAPI
	log    *logrus.Logger
}

func New(log *logrus.Logger) (IRekognition, error) {
	sess, err := awssession.New()
	if err != nil {
		return nil, err
	}

	return &rekognitionClient{
		client: rekognition.New(sess),
		log:    log,
	}, nil
}

func NewWithClient(client VisionAPI, log *logrus.Logger) IRekognition {
	return &rekognitionClient{
		client: client,
		log:    log,
	}
}

func (r *rekognitionClient) CompareFaces(ctx context.Context, similarityThreshold float64, source, target []byte) (*CompareFacesResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	r.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"threshold":  similarityThreshold,
	}).Debug("start compare faces")

	out, err := r.client.CompareFacesWithContext(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &rekognition.Image{Bytes: source},
		TargetImage:         &rekognition.Image{Bytes: target},
		SimilarityThreshold: aws.Float64(similarityThreshold),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Rekognition compare faces failed")
		return nil, fmt.Errorf("compare faces: %w", translate(err))
	}

	result := &CompareFacesResult{
		Matches:           make([]FaceMatch, 0, len(out.FaceMatches)),
		UnmatchedFaces:    len(out.UnmatchedFaces),
		SourceOrientation: out.SourceImageOrientationCorrection,
		TargetOrientation: out.TargetImageOrientationCorrection,
	}

	for _, match := range out.FaceMatches {
		if match == nil || match.Face == nil {
			continue
		}
		fm := FaceMatch{
			Similarity: aws.Float64Value(match.Similarity),
			Confidence: aws.Float64Value(match.Face.Confidence),
		}
		if box := match.Face.BoundingBox; box != nil {
			fm.Left = aws.Float64Value(box.Left)
			fm.Top = aws.Float64Value(box.Top)
		}
		result.Matches = append(result.Matches, fm)

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"left":       fm.Left,
			"top":        fm.Top,
			"confidence": fm.Confidence,
			"similarity": fm.Similarity,
		}).Debug("Face matched")
	}

	r.log.WithFields(logrus.Fields{
		"request_id":         requestID,
		"matched":            len(result.Matches),
		"unmatched":          result.UnmatchedFaces,
		"source_orientation": aws.StringValue(result.SourceOrientation),
		"target_orientation": aws.StringValue(result.TargetOrientation),
	}).Info("end compare faces")

	return result, nil
}

func (r *rekognitionClient) DetectLabels(ctx context.Context, image []byte, maxLabels int64) ([]Label, error) {
	requestID := contextPkg.GetRequestID(ctx)
	if maxLabels <= 0 {
		maxLabels = DefaultMaxLabels
	}

	out, err := r.client.DetectLabelsWithContext(ctx, &rekognition.DetectLabelsInput{
		Image:     &rekognition.Image{Bytes: image},
		MaxLabels: aws.Int64(maxLabels),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Rekognition detect labels failed")
		return nil, fmt.Errorf("detect labels: %w", translate(err))
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l == nil {
			continue
		}
		labels = append(labels, Label{
			Name:       aws.StringValue(l.Name),
			Confidence: aws.Float64Value(l.Confidence),
		})
	}

	r.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"labels":     len(labels),
	}).Debug("Detected labels for photo")

	return labels, nil
}

func translate(err error) error {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return err
	}

	switch aerr.Code() {
	case request.CanceledErrorCode:
		return canceled(aerr)
	case rekognition.ErrCodeInvalidImageFormatException,
		rekognition.ErrCodeImageTooLargeException,
		rekognition.ErrCodeInvalidParameterException:
		return fmt.Errorf("%w: %s", ErrInvalidImage, aerr.Message())
	case rekognition.ErrCodeProvisionedThroughputExceededException,
		rekognition.ErrCodeThrottlingException:
		return fmt.Errorf("%w: %s", ErrThrottled, aerr.Message())
	}

	return err
}

// canceled unwraps the context error the SDK reports for a done context.
func canceled(aerr awserr.Error) error {
	cause := aerr.OrigErr()
	if !errors.Is(cause, context.DeadlineExceeded) && !errors.Is(cause, context.Canceled) {
		cause = context.Canceled
	}
	return fmt.Errorf("%w: %s", cause, aerr.Message())
}
