// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/cvtravel/visa-backend/internal/config"
)

// DocumentStore persists uploaded passport copies. Keys follow
// "<application id>/passport<ext>"; at most one document per application.
type DocumentStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

type S3Store struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewS3Store(config *config.Config) (*S3Store, error) {
	if config.AWS.AccessKeyID == "" {
		// Return store without S3 for local development
		return &S3Store{config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	fileBytes, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if s.s3Client == nil {
		// Local development - just log
		logrus.WithField("key", key).Info("Document upload skipped, S3 not configured")
		return nil
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}
