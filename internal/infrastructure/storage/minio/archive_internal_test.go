package minio

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
)

// fakeObjectAPI is an in-memory objectAPI for unit tests.
type fakeObjectAPI struct {
	buckets map[string]bool
	objects map[string][]byte

	putErr error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{
		buckets: map[string]bool{},
		objects: map[string][]byte{},
	}
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, bucket, object string, reader io.Reader,
	_ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+object] = raw
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(raw))}, nil
}

func (f *fakeObjectAPI) GetObject(_ context.Context, bucket, object string,
	_ minio.GetObjectOptions) (io.ReadCloser, error) {
	raw, ok := f.objects[bucket+"/"+object]
	if !ok {
		// The real client defers missing-key errors until the first read.
		return &erroringReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}, nil
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type erroringReader struct{ err error }

func (r *erroringReader) Read([]byte) (int, error) { return 0, r.err }
func (r *erroringReader) Close() error             { return nil }

func newTestArchive(api objectAPI) *Archive {
	return &Archive{client: api, bucket: "potvault-raw", log: logging.NewNopLogger()}
}

func TestArchive_EnsureBucketCreatesOnce(t *testing.T) {
	t.Parallel()

	api := newFakeObjectAPI()
	a := newTestArchive(api)

	require.NoError(t, a.ensureBucket(context.Background()))
	assert.True(t, api.buckets["potvault-raw"])

	// A second call finds the bucket and does nothing.
	require.NoError(t, a.ensureBucket(context.Background()))
}

func TestArchive_PutGetRoundTrip(t *testing.T) {
	t.Parallel()

	api := newFakeObjectAPI()
	a := newTestArchive(api)
	ctx := context.Background()

	raw := []byte("PAW_PBE Si 05Jan2001\ncontents\n")
	require.NoError(t, a.Put(ctx, "raw/aa11", raw))

	got, err := a.Get(ctx, "raw/aa11")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestArchive_GetMissingKey(t *testing.T) {
	t.Parallel()

	a := newTestArchive(newFakeObjectAPI())

	_, err := a.Get(context.Background(), "raw/absent")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestArchive_PutFailure(t *testing.T) {
	t.Parallel()

	api := newFakeObjectAPI()
	api.putErr = minio.ErrorResponse{Code: "AccessDenied"}
	a := newTestArchive(api)

	err := a.Put(context.Background(), "raw/aa11", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStorageError))
}
