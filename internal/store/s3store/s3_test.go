package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/store"
	"github.com/gmllt/talentboard/internal/store/storetest"
)

// fakeS3 keeps objects in memory and answers like S3 for missing keys.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	puts    int
	getErr  error
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: map[string][]byte{}}
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "bucket not found"}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "key not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store {
		return New(newFakeS3("hr"), Config{Bucket: "hr"}, nil)
	})
}

func TestS3Store_PersistsAcrossInstances(t *testing.T) {
	api := newFakeS3("hr")
	ctx := context.Background()

	first := New(api, Config{Bucket: "hr", Key: "boards/hr.json"}, nil)
	require.NoError(t, first.CreateProcess(ctx, &hr.SelectionProcess{ID: "p1", Description: "Go", Category: hr.CategoryDevelopment}))
	assert.Contains(t, api.objects, "boards/hr.json")

	second := New(api, Config{Bucket: "hr", Key: "boards/hr.json"}, nil)
	p, err := second.GetProcess(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, hr.CategoryDevelopment, p.Category)
}

func TestS3Store_FailedWriteDoesNotSave(t *testing.T) {
	api := newFakeS3("hr")
	s := New(api, Config{Bucket: "hr"}, nil)

	_, err := s.UpdateApplicationStep(context.Background(), "missing", hr.StepHunting)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, api.puts)
}

func TestS3Store_LoadError(t *testing.T) {
	api := newFakeS3("hr")
	api.getErr = errors.New("connection reset")
	s := New(api, Config{Bucket: "hr"}, nil)

	_, err := s.ListProcesses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading document from S3")
}

func TestEnsureBucket(t *testing.T) {
	api := newFakeS3("hr")
	assert.NoError(t, New(api, Config{Bucket: "hr"}, nil).EnsureBucket(context.Background()))

	err := New(api, Config{Bucket: "other"}, nil).EnsureBucket(context.Background())
	require.Error(t, err)
	assert.Equal(t, "bucket other does not exist", err.Error())
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.EqualError(t, err, "S3 endpoint is required")
}
