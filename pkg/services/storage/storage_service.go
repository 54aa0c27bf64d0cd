package storageservice

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/meethub/meethub-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// StorageService talks to the S3-compatible object store the recording
// workers upload into. It only needs read access, for presigned downloads.
type StorageService struct {
	client  *s3.Client
	presign *s3.PresignClient
	info    *config.StorageInfo
	logger  *logrus.Entry
}

func New(ctx context.Context, app *config.AppConfig, logger *logrus.Logger) (*StorageService, error) {
	info := &app.StorageInfo

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(info.Region),
	}
	if info.AccessKey != "" && info.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(info.AccessKey, info.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if info.Endpoint != "" {
			// self-hosted stores like MinIO need path-style addressing
			o.BaseEndpoint = aws.String(info.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &StorageService{
		client:  client,
		presign: s3.NewPresignClient(client),
		info:    info,
		logger:  logger.WithField("service", "storage"),
	}, nil
}

// PresignDownloadURL returns a time-limited GET URL for a stored artifact.
func (s *StorageService) PresignDownloadURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		return "", fmt.Errorf("presign download url: %w", err)
	}

	return req.URL, nil
}
