package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vibecraft-ai/vibecraft/internal/config"
)

const defaultRegion = "us-east-1"

// S3 stores archives in an S3-compatible bucket.
type S3 struct {
	client *minio.Client
	bucket string
	region string

	initOnce sync.Once
	initErr  error
}

// NewS3 creates an S3 backend from the archive configuration. The
// bucket is created on first use if it does not exist.
func NewS3(cfg config.S3) (*S3, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive: s3 endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive: s3 bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive: s3 credentials are required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: creating s3 client: %w", err)
	}
	return &S3{client: client, bucket: cfg.Bucket, region: region}, nil
}

func (s *S3) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = fmt.Errorf("archive: checking bucket %s: %w", s.bucket, err)
			return
		}
		if exists {
			return
		}
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
		if err != nil {
			s.initErr = fmt.Errorf("archive: creating bucket %s: %w", s.bucket, err)
		}
	})
	return s.initErr
}

// Put uploads the archive under key.
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/zstd"})
	if err != nil {
		return fmt.Errorf("archive: uploading %s: %w", key, err)
	}
	return nil
}

// Get downloads the archive stored under key.
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("archive: fetching %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("archive: reading %s: %w", key, err)
	}
	return data, nil
}
