package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// S3Storage is the MinIO-backed object store for listing images. Uploads are
// idempotent per key; re-uploading a key overwrites the object.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucketName)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: %w", bucketName, err)
		}
	}

	logger.Info("object storage ready",
		zap.String("endpoint", endpoint),
		zap.String("bucket", bucketName),
		zap.Bool("use_ssl", useSSL))
	return &S3Storage{client: client, bucket: bucketName, logger: logger}, nil
}

// Upload puts one object and reports byte progress through the callback as
// the payload is consumed. Returns the public URL of the stored object.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string, progress domain.ProgressFunc) (string, error) {
	size := int64(len(data))
	reader := &progressReader{r: bytes.NewReader(data), total: size, fn: progress}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("object upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	s.logger.Debug("object uploaded",
		zap.String("key", key),
		zap.Int64("size_bytes", size),
		zap.String("url", url))
	return url, nil
}

// progressReader invokes the progress callback as bytes are read off the
// payload during the PUT.
type progressReader struct {
	r     *bytes.Reader
	total int64
	read  int64
	fn    domain.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.fn != nil {
			p.fn(p.read, p.total)
		}
	}
	return n, err
}
