package cache

import (
	"bytes"
	"context"
	"fmt"

	"ehow/config"
	"ehow/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectPutter is the narrow slice of the S3 client the sink needs, so tests can fake it.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink mirrors artifacts into a bucket under Prefix using the same file names as FileSink.
type S3Sink struct {
	Client ObjectPutter
	Bucket string
	Prefix string
	Logger *zap.Logger
}

// NewS3Sink creates an S3 client from the default AWS configuration chain,
// with optional overrides from cfg.
func NewS3Sink(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Sink, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Sink{Client: client, Bucket: cfg.Bucket, Prefix: cfg.Prefix, Logger: logger}, nil
}

// Key returns the object key an artifact is stored under.
func (s *S3Sink) Key(name string) (string, error) {
	file, err := FileName(name)
	if err != nil {
		return "", err
	}
	return s.Prefix + file, nil
}

func (s *S3Sink) Write(ctx context.Context, name string, doc types.CacheDocument) error {
	key, err := s.Key(name)
	if err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String(config.CacheControl),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.Bucket, key, err)
	}

	if s.Logger != nil {
		s.Logger.Info("uploaded cache object", zap.String("bucket", s.Bucket), zap.String("key", key))
	}
	return nil
}
