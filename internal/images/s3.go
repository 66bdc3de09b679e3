package images

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lucsky/cuid"
)

// S3Config locates the bucket images are uploaded to.
type S3Config struct {
	Bucket string
	Region string
	// Prefix is prepended to every object key.
	Prefix string
	// PublicBaseURL, when set, makes locators plain URLs
	// (PublicBaseURL/key) instead of s3://bucket/key.
	PublicBaseURL string
}

// PutObjectAPI is the slice of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements Uploader on an S3 bucket.
type S3Uploader struct {
	client PutObjectAPI
	cfg    S3Config
	newKey func() string
}

// NewS3Uploader loads the default AWS configuration for cfg.Region.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 uploader: bucket not set")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3UploaderWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewS3UploaderWithClient builds an uploader over an existing client.
func NewS3UploaderWithClient(client PutObjectAPI, cfg S3Config) *S3Uploader {
	return &S3Uploader{client: client, cfg: cfg, newKey: cuid.New}
}

// Upload stores data under a fresh key and returns its locator.
func (u *S3Uploader) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	key := u.cfg.Prefix + u.newKey() + extensionFor(contentType)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload image to S3: %w", err)
	}

	if u.cfg.PublicBaseURL != "" {
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key, nil
	}
	return "s3://" + u.cfg.Bucket + "/" + key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
