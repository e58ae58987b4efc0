package s3

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, isNotFoundError(nil))
	assert.True(t, isNotFoundError(&types.NoSuchKey{}))
	assert.True(t, isNotFoundError(fmt.Errorf("wrapped: %w", &types.NotFound{})))
	assert.True(t, isNotFoundError(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isNotFoundError(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFoundError(errors.New("boom")))
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(context.Canceled))
	assert.True(t, isRetryableError(&smithy.GenericAPIError{Code: "SlowDown"}))
	assert.True(t, isRetryableError(&smithy.GenericAPIError{Code: "InternalError"}))
	assert.False(t, isRetryableError(&smithy.GenericAPIError{Code: "NoSuchKey"}))
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, calculateBackoff(0))
	assert.Equal(t, 400*time.Millisecond, calculateBackoff(2))
	assert.Equal(t, defaultMaxBackoff, calculateBackoff(10))
}

func TestRetry(t *testing.T) {
	s := &Store{maxRetries: 2}

	calls := 0
	err := s.retry(context.Background(), "op", "k", func() error {
		calls++
		if calls < 2 {
			return &smithy.GenericAPIError{Code: "SlowDown"}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = s.retry(context.Background(), "op", "k", func() error {
		calls++
		return &types.NoSuchKey{}
	})
	assert.True(t, isNotFoundError(err))
	assert.Equal(t, 1, calls, "not-found errors are not retried")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
