package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"PhotoAnalyzer/pkg/awssession"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
)

type ItfS3 interface {
	ListObjectKeys(ctx context.Context, bucket string) ([]string, error)
	GetObjectBytes(ctx context.Context, bucket, key string) ([]byte, error)
	UploadFile(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
}

// ObjectAPI is the part of *s3.S3 the adapter calls.
type ObjectAPI interface {
	ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error)
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

type s3Client struct {
	client   ObjectAPI
	uploader s3manageriface.UploaderAPI
}

func New() (ItfS3, error) {
	sess, err := awssession.New()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func NewWithClient(client ObjectAPI, uploader s3manageriface.UploaderAPI) ItfS3 {
	return &s3Client{
		client:   client,
		uploader: uploader,
	}
}

// ListObjectKeys returns the keys of a single listing call, in the order
// the service returned them.
func (s *s3Client) ListObjectKeys(ctx context.Context, bucket string) ([]string, error) {
	out, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("list objects in %q: %w", bucket, translate(err))
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj == nil || obj.Key == nil {
			continue
		}
		keys = append(keys, *obj.Key)
	}

	return keys, nil
}

func (s *s3Client) GetObjectBytes(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, translate(err))
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if out.ContentLength != nil && *out.ContentLength > 0 {
		buf.Grow(int(*out.ContentLength))
	}
	if _, err := io.Copy(&buf, out.Body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}

	return buf.Bytes(), nil
}

func (s *s3Client) UploadFile(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	uploadOutput, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", key, translate(err))
	}

	return uploadOutput.Location, nil
}

func translate(err error) error {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return err
	}

	switch aerr.Code() {
	case request.CanceledErrorCode:
		return canceled(aerr)
	case s3.ErrCodeNoSuchKey, "NotFound":
		return fmt.Errorf("%w: %s", ErrObjectNotFound, aerr.Message())
	case s3.ErrCodeNoSuchBucket:
		return fmt.Errorf("%w: %s", ErrBucketNotFound, aerr.Message())
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
