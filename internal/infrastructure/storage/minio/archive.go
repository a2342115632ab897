// Package minio implements the raw-content archive on MinIO / S3-compatible
// object storage.  Every ingested potential file is stored byte-for-byte
// under a content-addressed key so assembled POTCAR files reproduce the
// originals exactly.
package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/potvault/internal/config"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
)

// objectAPI is the subset of the MinIO client the archive uses; it exists so
// tests can substitute a fake.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader,
		objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string,
		opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// minioAPI adapts *minio.Client to objectAPI.
type minioAPI struct {
	c *minio.Client
}

func (m minioAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return m.c.BucketExists(ctx, bucket)
}

func (m minioAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.c.MakeBucket(ctx, bucket, opts)
}

func (m minioAPI) PutObject(ctx context.Context, bucket, object string, reader io.Reader,
	size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.c.PutObject(ctx, bucket, object, reader, size, opts)
}

func (m minioAPI) GetObject(ctx context.Context, bucket, object string,
	opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return m.c.GetObject(ctx, bucket, object, opts)
}

// Archive is the MinIO-backed potential.ContentStore.
type Archive struct {
	client objectAPI
	bucket string
	log    logging.Logger
}

// NewArchive connects to the object store and ensures the archive bucket
// exists.
func NewArchive(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError,
			"failed to create object storage client")
	}

	a := &Archive{client: minioAPI{c: client}, bucket: cfg.Bucket, log: log.Named("archive")}
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := a.ensureBucket(setupCtx); err != nil {
		return nil, err
	}

	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return a, nil
}

// ensureBucket creates the archive bucket when it does not exist yet.
func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError,
			"failed to check archive bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.CodeStorageError,
			"failed to create archive bucket")
	}
	a.log.Info("created archive bucket", logging.String("bucket", a.bucket))
	return nil
}

// Put stores raw under key.  Keys are content-addressed, so a repeated Put
// always writes identical bytes and is safe.
func (a *Archive) Put(ctx context.Context, key string, raw []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError,
			"failed to store object '"+key+"'")
	}
	return nil
}

// Get retrieves the raw bytes stored under key.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError,
			"failed to open object '"+key+"'")
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, errors.New(errors.CodeNotFound,
				"object not found").WithDetail("key=" + key)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError,
			"failed to read object '"+key+"'")
	}
	return raw, nil
}
