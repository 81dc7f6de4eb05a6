package storage

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Store connects to bucket and checks it is reachable
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "unable to load aws config")
	}
	client := s3.NewFromConfig(cfg)
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return nil, errors.Wrapf(err, "unable to access bucket %s", bucket)
	}
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

// New returns an S3 backed store, or the stub store when no bucket is
// configured or the bucket cannot be reached.
func New(ctx context.Context, bucket, region string, stubbed bool, logger zerolog.Logger) ObjectStore {
	if stubbed {
		logger.Info().Msg("object storage running in stub mode, set S3_BUCKET_NAME to use a real bucket")
		return NewStubStore()
	}
	store, err := NewS3Store(ctx, bucket, region)
	if err != nil {
		logger.Warn().Err(err).Str("bucket", bucket).Msg("falling back to stub object storage")
		return NewStubStore()
	}
	logger.Info().Str("bucket", bucket).Str("region", region).Msg("object storage connected")
	return store
}

func (s *S3Store) Status() string {
	return StatusActive
}

func (s *S3Store) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", errors.Wrapf(err, "unable to presign %s", key)
	}
	return req.URL, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return keys, errors.Wrapf(err, "unable to list objects with prefix %q", prefix)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	return errors.Wrapf(err, "unable to upload %s", key)
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "unable to delete %s", key)
}
