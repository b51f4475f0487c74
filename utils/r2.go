// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds the Cloudflare R2 credentials and bucket.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// objectPutter is the part of *s3.Client the store needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Store uploads objects to an R2 bucket and returns their public URL.
type R2Store struct {
	client     objectPutter
	bucket     string
	cdnBaseURL string
}

func NewR2Store(ctx context.Context, cfg R2Config) (*R2Store, error) {
	if cfg.AccountID == "" || cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, errors.New("r2: account, bucket and credentials are required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return newR2Store(client, cfg.Bucket, cfg.CDNBaseURL, endpoint), nil
}

func newR2Store(client objectPutter, bucket, cdnBaseURL, endpoint string) *R2Store {
	// Without a CDN the object is addressed on the bucket endpoint.
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint + "/" + bucket
	}
	return &R2Store{
		client:     client,
		bucket:     bucket,
		cdnBaseURL: strings.TrimRight(cdnBaseURL, "/"),
	}
}

// PutObject uploads body under key and returns the public URL.
func (s *R2Store) PutObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.cdnBaseURL, key), nil
}
