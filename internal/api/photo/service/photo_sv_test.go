package photoService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"PhotoAnalyzer/internal/api/photo"
	photoRepository "PhotoAnalyzer/internal/api/photo/repository"
	"PhotoAnalyzer/internal/entity"
	"PhotoAnalyzer/pkg/rekognition"
	"PhotoAnalyzer/pkg/response"
	"PhotoAnalyzer/pkg/s3"
	"PhotoAnalyzer/pkg/utils"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	keys    []string
	objects map[string][]byte
	listErr error
	buckets []string
}

func (f *fakeStorage) ListObjectKeys(_ context.Context, bucket string) ([]string, error) {
	f.buckets = append(f.buckets, bucket)
	return f.keys, f.listErr
}

func (f *fakeStorage) GetObjectBytes(_ context.Context, bucket, key string) ([]byte, error) {
	f.buckets = append(f.buckets, bucket)
	b, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("get object %q: %w", key, s3.ErrObjectNotFound)
	}
	return b, nil
}

func (f *fakeStorage) UploadFile(context.Context, string, string, io.Reader, string) (string, error) {
	return "", errors.New("not used")
}

type fakeVision struct {
	labels     map[string][]rekognition.Label
	compare    *rekognition.CompareFacesResult
	err        error
	threshold  float64
	maxLabels  int64
	comparedOn [2]string
}

func (f *fakeVision) CompareFaces(_ context.Context, threshold float64, source, target []byte) (*rekognition.CompareFacesResult, error) {
	f.threshold = threshold
	f.comparedOn = [2]string{string(source), string(target)}
	if f.err != nil {
		return nil, f.err
	}
	return f.compare, nil
}

func (f *fakeVision) DetectLabels(_ context.Context, image []byte, maxLabels int64) ([]rekognition.Label, error) {
	f.maxLabels = maxLabels
	if f.err != nil {
		return nil, f.err
	}
	return f.labels[string(image)], nil
}

type fakeLabels struct {
	stored []entity.LabelDetection
	err    error
}

func (f *fakeLabels) CreateLabelDetection(_ context.Context, d entity.LabelDetection) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, d)
	return nil
}

func (f *fakeLabels) GetLabelDetectionsByKey(_ context.Context, key string, limit int) ([]entity.LabelDetection, error) {
	var out []entity.LabelDetection
	for _, d := range f.stored {
		if d.ObjectKey == key && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeComparisons struct {
	stored []entity.FaceComparison
	err    error
}

func (f *fakeComparisons) CreateFaceComparison(_ context.Context, c entity.FaceComparison) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, c)
	return nil
}

type fakeRepository struct {
	labels      *fakeLabels
	comparisons *fakeComparisons
	commits     int
	rollbacks   int
	clientErr   error
	commitErr   error
}

func (f *fakeRepository) NewClient(bool) (photoRepository.Client, error) {
	if f.clientErr != nil {
		return photoRepository.Client{}, f.clientErr
	}
	return photoRepository.Client{
		Labels:      f.labels,
		Comparisons: f.comparisons,
		Commit: func() error {
			if f.commitErr != nil {
				return f.commitErr
			}
			f.commits++
			return nil
		},
		Rollback: func() error {
			f.rollbacks++
			return nil
		},
	}, nil
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{labels: &fakeLabels{}, comparisons: &fakeComparisons{}}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newService(storage s3.ItfS3, vision rekognition.IRekognition, repo photoRepository.Repository) IPhotoService {
	return NewPhotoService(quietLogger(), photo.Config{}, storage, vision, repo, utils.New())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var respErr *response.Error
	require.True(t, errors.As(err, &respErr), "expected *response.Error, got %T", err)
	return respErr.Code
}

func TestReportLabelsEveryObjectInOrder(t *testing.T) {
	storage := &fakeStorage{
		keys: []string{"b.jpg", "a.jpg"},
		objects: map[string][]byte{
			"a.jpg": []byte("A"),
			"b.jpg": []byte("B"),
		},
	}
	vision := &fakeVision{labels: map[string][]rekognition.Label{
		"A": {{Name: "Dog", Confidence: 97.5}},
		"B": {{Name: "Person", Confidence: 99.87654113769531}, {Name: "Smile", Confidence: 70}},
	}}

	report, err := newService(storage, vision, nil).Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]photo.WorkItem{
		{
			{Key: "b.jpg", Name: "Person", Confidence: "99.87654"},
			{Key: "b.jpg", Name: "Smile", Confidence: "70.0"},
		},
		{
			{Key: "a.jpg", Name: "Dog", Confidence: "97.5"},
		},
	}, report)
	assert.Equal(t, rekognition.DefaultMaxLabels, vision.maxLabels)
	for _, b := range storage.buckets {
		assert.Equal(t, photo.DefaultBucket, b)
	}
}

func TestReportEmptyBucket(t *testing.T) {
	report, err := newService(&fakeStorage{}, &fakeVision{}, nil).Report(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, report)
}

func TestReportObjectWithoutLabelsYieldsEmptyList(t *testing.T) {
	storage := &fakeStorage{keys: []string{"sky.jpg"}, objects: map[string][]byte{"sky.jpg": []byte("S")}}

	report, err := newService(storage, &fakeVision{}, nil).Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.NotNil(t, report[0])
	assert.Empty(t, report[0])
}

func TestReportVisionFailureIsBadGateway(t *testing.T) {
	storage := &fakeStorage{keys: []string{"a.jpg"}, objects: map[string][]byte{"a.jpg": []byte("A")}}
	vision := &fakeVision{err: errors.New("connection refused")}

	_, err := newService(storage, vision, nil).Report(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, statusOf(t, err))
	assert.ErrorIs(t, err, photo.ErrVisionUnavailable)
}

func TestReportRecordsLabels(t *testing.T) {
	storage := &fakeStorage{keys: []string{"a.jpg"}, objects: map[string][]byte{"a.jpg": []byte("A")}}
	vision := &fakeVision{labels: map[string][]rekognition.Label{
		"A": {{Name: "Dog", Confidence: 97.5}, {Name: "Pet", Confidence: 90}},
	}}
	repo := newFakeRepository()

	_, err := newService(storage, vision, repo).Report(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.labels.stored, 2)
	assert.Equal(t, "a.jpg", repo.labels.stored[0].ObjectKey)
	assert.Equal(t, "Pet", repo.labels.stored[1].LabelName)
	assert.NotEqual(t, repo.labels.stored[0].ID, repo.labels.stored[1].ID)
	assert.Equal(t, 1, repo.commits)
}

func TestCompareMapsResponse(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{"src.jpg": []byte("S"), "tgt.jpg": []byte("T")}}
	vision := &fakeVision{compare: &rekognition.CompareFacesResult{
		Matches:           []rekognition.FaceMatch{{Left: 0.1, Top: 0.2, Similarity: 99, Confidence: 99.9}},
		UnmatchedFaces:    3,
		SourceOrientation: aws.String("ROTATE_0"),
	}}
	repo := newFakeRepository()

	resp, err := newService(storage, vision, repo).Compare(context.Background(), photo.CompareRequest{
		SourceImage: "src.jpg",
		TargetImage: "tgt.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, &photo.PhotoCompareResponse{
		CountFacesNotMatch:  "3",
		SourceImageRotation: "ROTATE_0",
		TargetImageRotation: photo.OrientationUnknown,
	}, resp)
	assert.Equal(t, float64(photo.DefaultSimilarityThreshold), vision.threshold)
	assert.Equal(t, [2]string{"S", "T"}, vision.comparedOn)

	require.Len(t, repo.comparisons.stored, 1)
	assert.Equal(t, 1, repo.comparisons.stored[0].MatchedFaces)
	assert.Equal(t, 3, repo.comparisons.stored[0].UnmatchedFaces)
}

func TestCompareUsesRequestedThreshold(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{"a": []byte("A"), "b": []byte("B")}}
	vision := &fakeVision{compare: &rekognition.CompareFacesResult{}}

	resp, err := newService(storage, vision, nil).Compare(context.Background(), photo.CompareRequest{
		SourceImage: "a",
		TargetImage: "b",
		Threshold:   90,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, vision.threshold)
	assert.Equal(t, "0", resp.CountFacesNotMatch)
}

func TestCompareMissingObjectIsNotFound(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{"a": []byte("A")}}
	vision := &fakeVision{compare: &rekognition.CompareFacesResult{}}

	_, err := newService(storage, vision, nil).Compare(context.Background(), photo.CompareRequest{
		SourceImage: "a",
		TargetImage: "missing",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.ErrorIs(t, err, s3.ErrObjectNotFound)
}

func TestCompareInvalidImage(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{"a": []byte("A"), "b": []byte("B")}}
	vision := &fakeVision{err: fmt.Errorf("compare faces: %w", rekognition.ErrInvalidImage)}

	_, err := newService(storage, vision, nil).Compare(context.Background(), photo.CompareRequest{
		SourceImage: "a",
		TargetImage: "b",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestHistoryWithoutStore(t *testing.T) {
	_, err := newService(&fakeStorage{}, &fakeVision{}, nil).History(context.Background(), "a.jpg")
	assert.ErrorIs(t, err, photo.ErrHistoryDisabled)
}

func TestHistoryReturnsStoredLabels(t *testing.T) {
	repo := newFakeRepository()
	repo.labels.stored = []entity.LabelDetection{
		{ID: "1", ObjectKey: "a.jpg", LabelName: "Dog", Confidence: 97.5},
		{ID: "2", ObjectKey: "b.jpg", LabelName: "Cat", Confidence: 88},
	}

	items, err := newService(&fakeStorage{}, &fakeVision{}, repo).History(context.Background(), "a.jpg")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, photo.LabelHistoryItem{ID: "1", Key: "a.jpg", Name: "Dog", Confidence: "97.5"}, items[0])
}

func TestReportStorageDeadlineIsNotWrapped(t *testing.T) {
	storage := &fakeStorage{
		keys:    []string{"a.jpg"},
		listErr: fmt.Errorf("list objects in %q: %w: request context canceled", "apptesis", context.DeadlineExceeded),
	}

	_, err := newService(storage, &fakeVision{}, nil).Report(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var respErr *response.Error
	assert.False(t, errors.As(err, &respErr))
}

func TestCompareVisionDeadlineIsNotWrapped(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{"a.jpg": []byte("A"), "b.jpg": []byte("B")}}
	vision := &fakeVision{err: fmt.Errorf("compare faces: %w: request context canceled", context.DeadlineExceeded)}

	_, err := newService(storage, vision, nil).Compare(context.Background(), photo.CompareRequest{SourceImage: "a.jpg", TargetImage: "b.jpg"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReportSucceedsWhenAuditFails(t *testing.T) {
	storage := &fakeStorage{keys: []string{"a.jpg"}, objects: map[string][]byte{"a.jpg": []byte("A")}}
	vision := &fakeVision{labels: map[string][]rekognition.Label{"A": {{Name: "Dog", Confidence: 97.5}}}}
	want := [][]photo.WorkItem{{{Key: "a.jpg", Name: "Dog", Confidence: "97.5"}}}

	tests := []struct {
		name string
		repo *fakeRepository
	}{
		{name: "client", repo: &fakeRepository{labels: &fakeLabels{}, comparisons: &fakeComparisons{}, clientErr: errors.New("pool exhausted")}},
		{name: "insert", repo: &fakeRepository{labels: &fakeLabels{err: errors.New("relation does not exist")}, comparisons: &fakeComparisons{}}},
		{name: "commit", repo: &fakeRepository{labels: &fakeLabels{}, comparisons: &fakeComparisons{}, commitErr: errors.New("connection reset")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newService(storage, vision, tt.repo).Report(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, report)
			assert.Zero(t, tt.repo.commits)
		})
	}
}

func TestReportAuditInsertFailureRollsBack(t *testing.T) {
	storage := &fakeStorage{keys: []string{"a.jpg"}, objects: map[string][]byte{"a.jpg": []byte("A")}}
	vision := &fakeVision{labels: map[string][]rekognition.Label{"A": {{Name: "Dog", Confidence: 97.5}}}}
	repo := &fakeRepository{labels: &fakeLabels{err: errors.New("relation does not exist")}, comparisons: &fakeComparisons{}}

	_, err := newService(storage, vision, repo).Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.rollbacks)
	assert.Empty(t, repo.labels.stored)
}

func TestCompareSucceedsWhenAuditFails(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{"a.jpg": []byte("A"), "b.jpg": []byte("B")}}
	vision := &fakeVision{compare: &rekognition.CompareFacesResult{UnmatchedFaces: 1, TargetOrientation: aws.String("ROTATE_90")}}
	want := &photo.PhotoCompareResponse{
		CountFacesNotMatch:  "1",
		SourceImageRotation: photo.OrientationUnknown,
		TargetImageRotation: "ROTATE_90",
	}

	for _, repo := range []*fakeRepository{
		{labels: &fakeLabels{}, comparisons: &fakeComparisons{}, clientErr: errors.New("pool exhausted")},
		{labels: &fakeLabels{}, comparisons: &fakeComparisons{err: errors.New("duplicate key")}},
	} {
		resp, err := newService(storage, vision, repo).Compare(context.Background(), photo.CompareRequest{SourceImage: "a.jpg", TargetImage: "b.jpg"})
		require.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.Empty(t, repo.comparisons.stored)
	}
}
