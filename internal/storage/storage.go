package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// ObjectStorage stores uploaded files and addresses them by public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage is an ObjectStorage backed by one S3 bucket.
type S3Storage struct {
	client     s3API
	bucket     string
	publicBase string
}

// NewS3Storage loads AWS credentials from the default chain.
func NewS3Storage(ctx context.Context, bucket, region, publicBase string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3Storage(s3.NewFromConfig(cfg), bucket, region, publicBase), nil
}

func newS3Storage(client s3API, bucket, region, publicBase string) *S3Storage {
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Storage{client: client, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}
}

// Upload stores body under prefix with a unique name and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(prefix, filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicBase + "/" + key, nil
}

// Delete removes the object behind objectURL.
func (s *S3Storage) Delete(ctx context.Context, objectURL string) error {
	key, err := keyFromURL(objectURL)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func objectKey(prefix, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.Trim(prefix, "/") + "/" + id + "_" + name
}

func keyFromURL(objectURL string) (string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("object url %q has no key", objectURL)
	}
	return key, nil
}

// Unconfigured rejects every call. It stands in when no bucket is set.
type Unconfigured struct{}

func (Unconfigured) Upload(context.Context, string, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) Delete(context.Context, string) error { return ErrNotConfigured }

var (
	_ ObjectStorage = (*S3Storage)(nil)
	_ ObjectStorage = Unconfigured{}
)
