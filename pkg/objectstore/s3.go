// Package objectstore uploads payment screenshots to S3 and hands back the
// CloudFront URL they will be served from.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	defaultExtension = "jpg"
	unknownScope     = "unknown"
)

// ErrNotConfigured is returned by Upload when the bucket, region or CDN domain
// is missing.
var ErrNotConfigured = errors.New("object storage is not configured")

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, contentType, scopeID string) (string, error)
}

// ObjectPutter is the part of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	CDNDomain       string
}

func (c Config) complete() bool {
	return c.Bucket != "" && c.Region != "" && c.CDNDomain != ""
}

type S3Uploader struct {
	client    ObjectPutter
	bucket    string
	cdnDomain string
	newToken  func() string
}

// NewS3Uploader wraps an existing client. A nil client yields an uploader that
// always fails with ErrNotConfigured.
func NewS3Uploader(client ObjectPutter, bucket, cdnDomain string) *S3Uploader {
	return &S3Uploader{
		client:    client,
		bucket:    bucket,
		cdnDomain: strings.TrimSuffix(strings.TrimPrefix(cdnDomain, "https://"), "/"),
		newToken:  uuid.NewString,
	}
}

// New builds an S3 client from cfg. Incomplete configuration is not an error
// here; the returned uploader fails closed on every Upload instead, so the rest
// of the service can still run without storage.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*S3Uploader, error) {
	if !cfg.complete() {
		return NewS3Uploader(nil, cfg.Bucket, cfg.CDNDomain), nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewS3Uploader(s3.NewFromConfig(awsCfg, optFns...), cfg.Bucket, cfg.CDNDomain), nil
}

func (u *S3Uploader) Configured() bool {
	return u.client != nil && u.bucket != "" && u.cdnDomain != ""
}

// Upload stores data under a fresh key scoped to scopeID and returns its CDN URL.
// Every call uses a new random token, so retries never overwrite earlier objects.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, filename, contentType, scopeID string) (string, error) {
	if !u.Configured() {
		return "", ErrNotConfigured
	}

	key := BuildKey(scopeID, filename, u.newToken())
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.PublicURL(key), nil
}

func (u *S3Uploader) PublicURL(key string) string {
	return fmt.Sprintf("https://%s/%s", u.cdnDomain, key)
}

// BuildKey returns events/<scopeID>/payments/<token>.<ext>, using "unknown" for
// an empty scope.
func BuildKey(scopeID, filename, token string) string {
	if scopeID == "" {
		scopeID = unknownScope
	}
	return fmt.Sprintf("events/%s/payments/%s.%s", scopeID, token, Extension(filename))
}

// Extension takes the suffix after the last dot with any ?query removed.
// Missing or non-alphanumeric suffixes become "jpg".
func Extension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return defaultExtension
	}
	ext := filename[idx+1:]
	if q := strings.IndexByte(ext, '?'); q >= 0 {
		ext = ext[:q]
	}
	if ext == "" {
		return defaultExtension
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return defaultExtension
		}
	}
	return strings.ToLower(ext)
}
