package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

// S3Client defines the slice of the S3 API used by S3Source.
// Narrow on purpose so tests can stub it.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config represents the configuration for the S3 product backend.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET,required"`                      // Bucket is the bucket holding the product documents.
	Region         string `env:"S3_REGION,required"`                      // Region is the AWS region of the bucket.
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`                        // AccessKeyID is the static access key. Leave empty to use the default credential chain.
	SecretKey      string `env:"S3_SECRET_KEY"`                           // SecretKey is the static secret key paired with AccessKeyID.
	Endpoint       string `env:"S3_ENDPOINT"`                             // Endpoint overrides the S3 endpoint, for S3-compatible services.
	Prefix         string `env:"S3_KEY_PREFIX" envDefault:"products/"`    // Prefix is prepended to every product object key.
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`  // ForcePathStyle enables path-style addressing, for services like MinIO.
}

// ConnectS3 builds an S3 client from the configuration. Static credentials
// are used when both keys are set, otherwise the default AWS credential
// chain applies.
func ConnectS3(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadAWSConfig, err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return client, nil
}

// S3Source serves products stored as JSON objects at <prefix><handle>.json.
// It is read-only: publishing product documents to the bucket is the job of
// whatever pipeline exports the catalog.
type S3Source struct {
	client S3Client
	bucket string
	prefix string
	closed bool
	mu     sync.RWMutex
}

// NewS3Source wraps an S3 client for the configured bucket and key prefix.
func NewS3Source(client S3Client, cfg S3Config) *S3Source {
	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}
}

// Product fetches and decodes the product object for the handle.
func (s *S3Source) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	key := s.prefix + handle + ".json"
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %q", ErrProductNotFound, handle)
		}
		return nil, fmt.Errorf("fetch product %q: %w", handle, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read product %q: %w", handle, err)
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode product %q: %w", handle, err)
	}
	return &p, nil
}

// Close marks the source closed. The S3 client itself holds no connections
// that need releasing.
func (s *S3Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
