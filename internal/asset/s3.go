package asset

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Manager implements Manager on an AWS S3 bucket.
type s3Manager struct {
	client    *s3.Client
	bucket    string
	prefix    string
	urlPrefix string
	logger    zerolog.Logger
}

// NewS3Manager creates an S3-backed asset manager. References it returns
// are full object URLs; Delete accepts either a URL or a bare key.
func NewS3Manager(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Manager, error) {
	logger = logger.With().Str("component", "s3-asset-manager").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 asset manager initialised")

	return &s3Manager{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		urlPrefix: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region),
		logger:    logger,
	}, nil
}

// Store uploads the asset and returns its object URL.
func (m *s3Manager) Store(ctx context.Context, upload Upload) (string, error) {
	key := m.prefix + objectName(upload.Filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	if _, err := m.client.PutObject(ctx, input); err != nil {
		m.logger.Error().
			Err(err).
			Str("bucket", m.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", m.bucket, key, err)
	}

	ref := m.urlPrefix + key
	m.logger.Debug().Str("ref", ref).Msg("asset stored")

	return ref, nil
}

// Delete removes the object the reference points at.
func (m *s3Manager) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, m.urlPrefix)
	if key == "" {
		return fmt.Errorf("invalid asset reference: %s", ref)
	}

	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("bucket", m.bucket).
			Str("key", key).
			Msg("failed to delete object from S3")
		return fmt.Errorf("failed to delete object from S3 (bucket=%s, key=%s): %w", m.bucket, key, err)
	}

	m.logger.Debug().Str("key", key).Msg("asset deleted")
	return nil
}
