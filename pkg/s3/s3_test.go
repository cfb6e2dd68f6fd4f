package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	objects map[string]string
	order   []string
	listErr error
	lastGet *s3.GetObjectInput
}

func (f *fakeObjectAPI) ListObjectsV2WithContext(_ aws.Context, input *s3.ListObjectsV2Input, _ ...request.Option) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListObjectsV2Output{Name: input.Bucket}
	for _, k := range f.order {
		out.Contents = append(out.Contents, &s3.Object{Key: aws.String(k)})
	}
	out.Contents = append(out.Contents, &s3.Object{})
	return out, nil
}

func (f *fakeObjectAPI) GetObjectWithContext(_ aws.Context, input *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.lastGet = input
	body, ok := f.objects[aws.StringValue(input.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

type fakeUploader struct {
	got []byte
	key string
}

func (f *fakeUploader) Upload(input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), input, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, input *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	b, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.got = b
	f.key = aws.StringValue(input.Key)
	return &s3manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + f.key}, nil
}

func TestListObjectKeysKeepsOrderAndSkipsEmpty(t *testing.T) {
	api := &fakeObjectAPI{order: []string{"b.jpg", "a.jpg", "c.png"}}
	client := NewWithClient(api, &fakeUploader{})

	keys, err := client.ListObjectKeys(context.Background(), "apptesis")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.jpg", "a.jpg", "c.png"}, keys)
}

func TestListObjectKeysMissingBucket(t *testing.T) {
	api := &fakeObjectAPI{listErr: awserr.New(s3.ErrCodeNoSuchBucket, "gone", nil)}
	client := NewWithClient(api, &fakeUploader{})

	_, err := client.ListObjectKeys(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestGetObjectBytes(t *testing.T) {
	api := &fakeObjectAPI{objects: map[string]string{"face.jpg": "jpeg-bytes"}}
	client := NewWithClient(api, &fakeUploader{})

	b, err := client.GetObjectBytes(context.Background(), "apptesis", "face.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), b)
	assert.Equal(t, "apptesis", aws.StringValue(api.lastGet.Bucket))
}

func TestGetObjectBytesNotFound(t *testing.T) {
	client := NewWithClient(&fakeObjectAPI{}, &fakeUploader{})

	_, err := client.GetObjectBytes(context.Background(), "apptesis", "nope.jpg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestUploadFile(t *testing.T) {
	up := &fakeUploader{}
	client := NewWithClient(&fakeObjectAPI{}, up)

	loc, err := client.UploadFile(context.Background(), "apptesis", "faces/bob.jpg", strings.NewReader("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/faces/bob.jpg", loc)
	assert.Equal(t, []byte("data"), up.got)
}

func TestListObjectKeysCanceledKeepsContextError(t *testing.T) {
	api := &fakeObjectAPI{listErr: awserr.New(request.CanceledErrorCode, "request context canceled", context.DeadlineExceeded)}
	client := NewWithClient(api, &fakeUploader{})

	_, err := client.ListObjectKeys(context.Background(), "apptesis")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetObjectBytesDeadlineWithSDKClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-east-1"),
		Endpoint:         aws.String(srv.URL),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials("id", "secret", ""),
		MaxRetries:       aws.Int(0),
	})
	require.NoError(t, err)
	client := NewWithClient(s3.New(sess), &fakeUploader{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = client.GetObjectBytes(ctx, "apptesis", "a.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrObjectNotFound))
}
