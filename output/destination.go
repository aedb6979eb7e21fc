// Package output stores the finished artifact at its destination: a
// local file, stdout, or an s3://bucket/key object.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Destination receives the finished artifact bytes.
type Destination interface {
	// Put stores the artifact read from r.
	Put(ctx context.Context, r io.Reader, contentType string) error
}

// IsS3 reports whether target names an S3 object.
func IsS3(target string) bool {
	return strings.HasPrefix(target, "s3://")
}

// FileDestination writes the artifact to a local path, or to stdout when
// the path is "-".
type FileDestination struct {
	// Path is the output file path.
	Path string
}

// Put writes the artifact.
func (d *FileDestination) Put(_ context.Context, r io.Reader, _ string) error {
	if d.Path == "-" {
		_, err := io.Copy(os.Stdout, r)
		return err
	}
	f, err := os.Create(d.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", d.Path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", d.Path, err)
	}
	return f.Close()
}

// S3Config holds configuration for the S3 destination.
type S3Config struct {
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// S3Destination uploads the artifact as a single object.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
}

// ParseS3Target splits "s3://bucket/key" into bucket and key.
func ParseS3Target(target string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(target, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 target %q, want s3://bucket/key", target)
	}
	return parts[0], parts[1], nil
}

// NewS3Destination creates an S3 destination for an s3://bucket/key
// target. Uses the AWS SDK default credential chain (env vars, shared
// config, IAM role).
func NewS3Destination(ctx context.Context, target string, s3cfg S3Config) (*S3Destination, error) {
	bucket, key, err := ParseS3Target(target)
	if err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(s3cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if s3cfg.Endpoint != "" {
		endpoint := s3cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if s3cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(awsConfig, s3Opts...),
		bucket: bucket,
		key:    key,
	}, nil
}

// Put uploads the artifact.
func (d *S3Destination) Put(ctx context.Context, r io.Reader, contentType string) error {
	if d.client == nil {
		return errors.New("s3 destination is not initialized")
	}
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &d.bucket,
		Key:         &d.key,
		Body:        r,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", d.bucket, d.key, err)
	}
	return nil
}
