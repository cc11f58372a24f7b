// Package storage publishes generated booklet PDFs to S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Uploader is the part of manager.Uploader the publisher needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Publisher uploads files under a key prefix in one bucket.
type S3Publisher struct {
	uploader Uploader
	bucket   string
	prefix   string
	// passphrase, when set, seals every object before upload.
	passphrase string
}

// NewS3Publisher loads the default AWS configuration and returns a publisher.
func NewS3Publisher(ctx context.Context, bucket, prefix string) (*S3Publisher, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3PublisherWith(manager.NewUploader(s3.NewFromConfig(cfg)), bucket, prefix), nil
}

// NewS3PublisherWith wraps an existing uploader.
func NewS3PublisherWith(u Uploader, bucket, prefix string) *S3Publisher {
	return &S3Publisher{uploader: u, bucket: bucket, prefix: prefix}
}

// WithPassphrase makes the publisher encrypt uploads (see Seal). Sealed
// objects get a ".enc" suffix.
func (p *S3Publisher) WithPassphrase(passphrase string) *S3Publisher {
	p.passphrase = passphrase
	return p
}

// Key returns the object key a local file is published under.
func (p *S3Publisher) Key(runID, localPath string) string {
	key := path.Join(p.prefix, runID, filepath.Base(localPath))
	if p.passphrase != "" {
		key += ".enc"
	}
	return key
}

// Publish uploads localPath and returns its s3:// location.
func (p *S3Publisher) Publish(ctx context.Context, runID, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	var body io.Reader = f
	contentType := "application/pdf"
	if p.passphrase != "" {
		data, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", localPath, err)
		}
		sealed, err := Seal(data, p.passphrase)
		if err != nil {
			return "", fmt.Errorf("encrypt %s: %w", localPath, err)
		}
		body = bytes.NewReader(sealed)
		contentType = "application/octet-stream"
	}

	key := p.Key(runID, localPath)
	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	loc := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	log.Info().Str("file", localPath).Str("location", loc).Msg("uploaded booklet PDF")
	return loc, nil
}
