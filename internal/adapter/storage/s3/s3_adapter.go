package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
)

// ImageStorage uploads listing images to a MinIO bucket and hands back
// their public retrieval URLs.
type ImageStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewImageStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*ImageStorage, error) {
	log.Info("Initializing MinIO image storage", "endpoint", endpoint, "bucket", bucketName, "use_ssl", useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("ImageStorage: failed to create MinIO client", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	// Create the bucket if it doesn't exist yet.
	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists == nil && exists {
			log.Info("ImageStorage: bucket already exists", "bucket", bucketName)
		} else {
			log.Error("ImageStorage: failed to make or verify bucket", "bucket", bucketName, "make_bucket_error", err, "check_exists_error", errBucketExists)
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	return &ImageStorage{
		client: client,
		bucket: bucketName,
		logger: log,
	}, nil
}

// Upload puts one object under the given key and returns its public URL.
// Progress observations flow through the counting reader; they have no
// effect on the outcome.
func (s *ImageStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, progress domain.ProgressFunc) (string, error) {
	s.logger.Info("ImageStorage.Upload: uploading object",
		"bucket", s.bucket,
		"object_key", key,
		"size_bytes", size)

	body := newProgressReader(r, size, progress)

	uploadInfo, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("ImageStorage.Upload: PutObject failed", "bucket", s.bucket, "key", key, "error", err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Info("ImageStorage.Upload: object uploaded",
		"bucket", uploadInfo.Bucket,
		"key", uploadInfo.Key,
		"etag", uploadInfo.ETag,
		"size_uploaded", uploadInfo.Size)

	// Public URL shape for MinIO: http(s)://<endpoint>/<bucket>/<key>.
	// EndpointURL carries the scheme the client was created with.
	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	return fileURL, nil
}
