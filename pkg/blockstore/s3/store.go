// Package s3 persists units as objects in an S3 bucket.
//
// Each unit key maps to the object "{Prefix}{key}". Transient failures
// (throttling, 5xx, network timeouts) are retried with exponential backoff;
// a missing object is reported as blockstore.ErrUnitNotFound.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"largeimage/internal/logger"
	"largeimage/pkg/blockstore"
)

const (
	// deleteBatchSize is the DeleteObjects limit per request.
	deleteBatchSize = 1000

	defaultMaxRetries     = 3
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
)

// Config holds configuration for the S3 store.
type Config struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`

	// Endpoint overrides the service endpoint (Localstack, MinIO).
	Endpoint string `yaml:"endpoint"`

	// Prefix is prepended to every unit key.
	Prefix string `yaml:"prefix"`

	// AccessKey and SecretKey select static credentials. When empty the
	// default AWS credential chain is used.
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`

	UsePathStyle bool `yaml:"usePathStyle"`

	// MaxRetries bounds retries of transient errors.
	// Default: 3
	MaxRetries int `yaml:"maxRetries"`
}

// Store is an S3 implementation of blockstore.Store.
type Store struct {
	client     *s3.Client
	bucket     string
	prefix     string
	maxRetries int

	mu     sync.RWMutex
	closed bool
}

// New loads the AWS configuration and builds a client for cfg.Bucket.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	var opts []func(*awsConfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *s3.Client, cfg Config) *Store {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		maxRetries: retries,
	}
}

func (s *Store) objectKey(key string) string {
	return s.prefix + key
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return blockstore.ErrStoreClosed
	}
	return nil
}

// WriteUnit uploads data as one object.
func (s *Store) WriteUnit(ctx context.Context, key string, data []byte) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	objKey := s.objectKey(key)
	err := s.retry(ctx, "WriteUnit", objKey, func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(objKey),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", objKey, err)
	}
	return nil
}

// ReadUnit downloads the object stored under key.
func (s *Store) ReadUnit(ctx context.Context, key string) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	objKey := s.objectKey(key)
	var data []byte
	err := s.retry(ctx, "ReadUnit", objKey, func() error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objKey),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()
		data, err = io.ReadAll(out.Body)
		return err
	})
	if isNotFoundError(err) {
		return nil, blockstore.ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("s3: get %s: %w", objKey, err)
	}
	return data, nil
}

// DeleteUnit removes the object stored under key.
func (s *Store) DeleteUnit(ctx context.Context, key string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	objKey := s.objectKey(key)
	err := s.retry(ctx, "DeleteUnit", objKey, func() error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objKey),
		})
		return err
	})
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("s3: delete %s: %w", objKey, err)
	}
	return nil
}

// DeleteByPrefix removes all objects under prefix in batches.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	keys, err := s.listObjects(ctx, s.objectKey(prefix))
	if err != nil {
		return err
	}

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("s3: delete objects under %q: %w", prefix, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("s3: delete %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}
	return nil
}

// ListByPrefix returns unit keys (without the store prefix) starting with
// prefix. S3 lists keys in lexicographic order.
func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	objKeys, err := s.listObjects(ctx, s.objectKey(prefix))
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, k := range objKeys {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	return keys, nil
}

func (s *Store) listObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// Close marks the store closed. The client holds no resources to release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3: healthcheck failed: %w", err)
	}
	return nil
}

// retry runs fn until it succeeds, fails permanently, or retries run out.
func (s *Store) retry(ctx context.Context, op, key string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoff(attempt - 1)
			logger.Debug(op+": retrying", logger.KeyKey, key, "attempt", attempt, "backoff", backoff)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn()
		if lastErr == nil || !isRetryableError(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("after %d attempts: %w", s.maxRetries+1, lastErr)
}

func calculateBackoff(attempt int) time.Duration {
	backoff := defaultInitialBackoff << attempt
	if backoff > defaultMaxBackoff || backoff <= 0 {
		return defaultMaxBackoff
	}
	return backoff
}

// isRetryableError reports whether err is transient.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Throttling", "ThrottlingException", "RequestThrottled", "SlowDown",
			"InternalError", "ServiceUnavailable":
			return true
		}
	}
	return false
}

// isNotFoundError reports whether err means the object does not exist.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

var _ blockstore.Store = (*Store)(nil)
