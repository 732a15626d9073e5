package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// SpacesConfig holds configuration for an S3-compatible bucket (DigitalOcean Spaces, AWS S3)
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string // host only, e.g. "blr1.digitaloceanspaces.com"
	CDNURL    string
}

// SpacesStorage uploads objects to DigitalOcean Spaces
type SpacesStorage struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
	cdnURL   string
}

// NewSpacesStorage creates a new Spaces uploader
func NewSpacesStorage(config SpacesConfig) (*SpacesStorage, error) {
	if config.Bucket == "" || config.Endpoint == "" {
		return nil, fmt.Errorf("spaces storage requires DO_SPACES_BUCKET and DO_SPACES_ENDPOINT")
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(config.Endpoint, "https://"), "http://")

	// Create AWS session with DigitalOcean Spaces endpoint
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String("https://" + endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesStorage{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: endpoint,
		cdnURL:   strings.TrimRight(config.CDNURL, "/"),
	}, nil
}

// Upload uploads a publicly readable object to Spaces
func (s *SpacesStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(data),
		ACL:         aws.String("public-read"), // Make publicly accessible
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.URL(key), nil
}

// Delete deletes an object from Spaces
func (s *SpacesStorage) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL for a key, preferring the CDN
func (s *SpacesStorage) URL(key string) string {
	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}
