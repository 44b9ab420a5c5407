package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// DefaultS3Region is the region of the public research buckets.
const DefaultS3Region = "us-east-1"

// S3Client is the subset of the S3 API used by S3Source.
type S3Client interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// S3Source fetches s3://bucket/key URLs.
type S3Source struct {
	client S3Client
}

// NewS3Source creates an S3 source with anonymous credentials, which is all
// public corpus buckets need.
func NewS3Source(region string) (*S3Source, error) {
	if region == "" {
		region = DefaultS3Region
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.AnonymousCredentials,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Source{client: s3.New(sess)}, nil
}

// NewS3SourceWithClient creates an S3 source using client.
func NewS3SourceWithClient(client S3Client) *S3Source {
	return &S3Source{client: client}
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q in %s", ErrUnsupportedScheme, u.Scheme, rawURL)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URL %q: want s3://bucket/key", rawURL)
	}
	return u.Host, key, nil
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", rawURL, err)
	}
	return out.Body, nil
}
