// internal/profile/upload.go
// Photo storage backends. The NSFW/EXIF pipeline lives outside this
// service; photos enter here already processed and leave as opaque URLs.

package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

var ErrUnsupportedMediaType = errors.New("unsupported media type")

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Uploader stores a photo and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
}

// S3Uploader stores photos in an S3 bucket
type S3Uploader struct {
	client   *s3.S3
	bucket   string
	maxBytes int64
}

// NewS3Uploader creates an S3-backed uploader
func NewS3Uploader(sess *session.Session, bucket string, maxBytes int64) *S3Uploader {
	return &S3Uploader{
		client:   s3.New(sess),
		bucket:   bucket,
		maxBytes: maxBytes,
	}
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}
	if size > u.maxBytes {
		return "", fmt.Errorf("photo exceeds maximum size of %d bytes", u.maxBytes)
	}

	key := fmt.Sprintf("photos/%d/%s%s", time.Now().Year(), uuid.New().String(), ext)

	data, err := io.ReadAll(io.LimitReader(body, u.maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	_, err = u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}

// LocalUploader stores photos on the local filesystem, used in development
type LocalUploader struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewLocalUploader creates a filesystem-backed uploader
func NewLocalUploader(dir, baseURL string, maxBytes int64) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: baseURL, maxBytes: maxBytes}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}
	if size > u.maxBytes {
		return "", fmt.Errorf("photo exceeds maximum size of %d bytes", u.maxBytes)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(u.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(body, u.maxBytes)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", u.baseURL, name), nil
}
