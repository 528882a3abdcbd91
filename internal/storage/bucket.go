package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"thumbgen/internal/batch"
	"thumbgen/internal/manifest"
	"thumbgen/internal/mediatypes"
)

// BucketConfig holds connection parameters for a BucketSink.
type BucketConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	Region      string
	Prefix      string
	UseSSL      bool
	ArchiveName string
}

// objectPutter is the subset of *minio.Client the sink needs.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// BucketSink uploads outcomes to <prefix>/<batchID>/ in an S3-compatible
// bucket.
type BucketSink struct {
	client      objectPutter
	bucket      string
	prefix      string
	archiveName string
}

// NewBucketSink connects to the configured endpoint. If the bucket does not
// exist, it will be created.
func NewBucketSink(ctx context.Context, cfg BucketConfig) (*BucketSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return newBucketSink(client, cfg.Bucket, cfg.Prefix, cfg.ArchiveName), nil
}

func newBucketSink(client objectPutter, bucket, prefix, archiveName string) *BucketSink {
	return &BucketSink{client: client, bucket: bucket, prefix: prefix, archiveName: archiveName}
}

// Name implements Sink.
func (s *BucketSink) Name() string { return "bucket" }

// ObjectKey returns the key an outcome file is stored under.
func (s *BucketSink) ObjectKey(batchID, name string) string {
	return path.Join(s.prefix, batchID, name)
}

// Save implements Sink. It returns the s3:// URL of the archive.
func (s *BucketSink) Save(ctx context.Context, outcome *batch.Outcome) (string, error) {
	archiveKey := s.ObjectKey(outcome.BatchID, s.archiveName)
	if err := s.put(ctx, archiveKey, outcome.Archive); err != nil {
		return "", err
	}

	manifestKey := s.ObjectKey(outcome.BatchID, manifest.FileName)
	if err := s.put(ctx, manifestKey, []byte(outcome.Manifest)); err != nil {
		return "", err
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, archiveKey), nil
}

func (s *BucketSink) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mediatypes.GetMimeType(strings.ToLower(path.Ext(key))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
