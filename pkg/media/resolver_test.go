package media_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/media"
)

// MockS3Client is a mock implementation of the S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

// MockS3Presigner is a mock implementation of the S3Presigner interface
type MockS3Presigner struct {
	mock.Mock
}

func (m *MockS3Presigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v4.PresignedHTTPRequest), args.Error(1)
}

func newMockedResolver(t *testing.T, client *MockS3Client, presigner *MockS3Presigner) *media.S3Resolver {
	t.Helper()

	resolver, err := media.NewS3Resolver(context.Background(), media.S3Config{
		Bucket: "test-bucket",
		Region: "us-east-1",
	}, media.WithS3Client(client), media.WithS3Presigner(presigner))
	require.NoError(t, err)
	return resolver
}

func TestNewS3Resolver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()
		_, err := media.NewS3Resolver(ctx, media.S3Config{Region: "us-east-1"})
		assert.ErrorIs(t, err, media.ErrInvalidConfig)
	})

	t.Run("missing region", func(t *testing.T) {
		t.Parallel()
		_, err := media.NewS3Resolver(ctx, media.S3Config{Bucket: "test-bucket"})
		assert.ErrorIs(t, err, media.ErrInvalidConfig)
	})

	t.Run("mock client without presigner", func(t *testing.T) {
		t.Parallel()
		_, err := media.NewS3Resolver(ctx, media.S3Config{
			Bucket: "test-bucket",
			Region: "us-east-1",
		}, media.WithS3Client(new(MockS3Client)))
		assert.ErrorIs(t, err, media.ErrPresignerNil)
	})

	t.Run("mock client with presigner", func(t *testing.T) {
		t.Parallel()
		resolver, err := media.NewS3Resolver(ctx, media.S3Config{
			Bucket: "test-bucket",
			Region: "us-east-1",
		}, media.WithS3Client(new(MockS3Client)), media.WithS3Presigner(new(MockS3Presigner)))
		require.NoError(t, err)
		assert.NotNil(t, resolver)
	})
}

func TestS3Resolver_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		presigner := new(MockS3Presigner)

		wantKey := ownerID.String() + "/pics/cat.jpg"
		client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
			return aws.ToString(in.Bucket) == "test-bucket" && aws.ToString(in.Key) == wantKey
		}), mock.Anything).Return(&s3.HeadObjectOutput{}, nil)
		presigner.On("PresignGetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return aws.ToString(in.Bucket) == "test-bucket" && aws.ToString(in.Key) == wantKey
		}), mock.Anything).Return(&v4.PresignedHTTPRequest{
			URL:    "https://test-bucket.s3.us-east-1.amazonaws.com/" + wantKey + "?X-Amz-Signature=abc",
			Method: "GET",
		}, nil)

		resolver := newMockedResolver(t, client, presigner)

		url, err := resolver.Resolve(ctx, "pics/cat.jpg", ownerID)
		require.NoError(t, err)
		assert.Contains(t, url, wantKey)
		assert.Contains(t, url, "X-Amz-Signature")

		client.AssertExpectations(t)
		presigner.AssertExpectations(t)
	})

	t.Run("leading slash stripped from key", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		presigner := new(MockS3Presigner)

		wantKey := ownerID.String() + "/pics/cat.jpg"
		client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
			return aws.ToString(in.Key) == wantKey
		}), mock.Anything).Return(&s3.HeadObjectOutput{}, nil)
		presigner.On("PresignGetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(&v4.PresignedHTTPRequest{URL: "https://example.com/" + wantKey}, nil)

		resolver := newMockedResolver(t, client, presigner)

		_, err := resolver.Resolve(ctx, "/pics/cat.jpg", ownerID)
		require.NoError(t, err)

		client.AssertExpectations(t)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		resolver := newMockedResolver(t, new(MockS3Client), new(MockS3Presigner))

		_, err := resolver.Resolve(ctx, "", ownerID)
		assert.ErrorIs(t, err, media.ErrMediaKeyEmpty)
	})

	t.Run("nil owner", func(t *testing.T) {
		t.Parallel()
		resolver := newMockedResolver(t, new(MockS3Client), new(MockS3Presigner))

		_, err := resolver.Resolve(ctx, "pics/cat.jpg", uuid.Nil)
		assert.ErrorIs(t, err, media.ErrOwnerIDNil)
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		t.Parallel()
		resolver := newMockedResolver(t, new(MockS3Client), new(MockS3Presigner))

		_, err := resolver.Resolve(ctx, "../"+uuid.NewString()+"/secret.jpg", ownerID)
		assert.ErrorIs(t, err, media.ErrInvalidMediaKey)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &types.NotFound{Message: aws.String("Not Found")})

		resolver := newMockedResolver(t, client, new(MockS3Presigner))

		_, err := resolver.Resolve(ctx, "pics/gone.jpg", ownerID)
		assert.ErrorIs(t, err, media.ErrMediaNotFound)

		client.AssertExpectations(t)
	})

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{
				Code:    "AccessDenied",
				Message: "Access Denied",
			})

		resolver := newMockedResolver(t, client, new(MockS3Presigner))

		_, err := resolver.Resolve(ctx, "pics/cat.jpg", ownerID)
		assert.ErrorIs(t, err, media.ErrAccessDenied)

		client.AssertExpectations(t)
	})

	t.Run("throttled", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "SlowDown", Message: "Reduce your request rate"})

		resolver := newMockedResolver(t, client, new(MockS3Presigner))

		_, err := resolver.Resolve(ctx, "pics/cat.jpg", ownerID)
		assert.ErrorIs(t, err, media.ErrServiceUnavailable)
	})

	t.Run("presign failure", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		presigner := new(MockS3Presigner)

		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
			Return(&s3.HeadObjectOutput{}, nil)
		presigner.On("PresignGetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("signing key unavailable"))

		resolver := newMockedResolver(t, client, presigner)

		_, err := resolver.Resolve(ctx, "pics/cat.jpg", ownerID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "presign media")

		presigner.AssertExpectations(t)
	})

	t.Run("resolve timeout", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, context.DeadlineExceeded).
			Run(func(args mock.Arguments) {
				time.Sleep(50 * time.Millisecond)
			})

		resolver, err := media.NewS3Resolver(ctx, media.S3Config{
			Bucket: "test-bucket",
			Region: "us-east-1",
		}, media.WithS3Client(client), media.WithS3Presigner(new(MockS3Presigner)),
			media.WithResolveTimeout(10*time.Millisecond))
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, "pics/cat.jpg", ownerID)
		assert.ErrorIs(t, err, media.ErrOperationTimeout)
	})
}

func TestConfig_S3(t *testing.T) {
	t.Parallel()

	cfg := media.Config{
		Bucket:         "uploads",
		Region:         "eu-west-1",
		AccessKeyID:    "AKIA",
		SecretKey:      "secret",
		Endpoint:       "https://storage.example.com",
		ForcePathStyle: true,
		URLTTL:         5 * time.Minute,
	}

	s3cfg := cfg.S3()
	assert.Equal(t, "uploads", s3cfg.Bucket)
	assert.Equal(t, "eu-west-1", s3cfg.Region)
	assert.Equal(t, "AKIA", s3cfg.AccessKeyID)
	assert.Equal(t, "secret", s3cfg.SecretKey)
	assert.Equal(t, "https://storage.example.com", s3cfg.Endpoint)
	assert.True(t, s3cfg.ForcePathStyle)
	assert.Equal(t, 5*time.Minute, s3cfg.URLTTL)
}

func TestBuildObjectKeyIsolation(t *testing.T) {
	t.Parallel()

	// Two owners with the same key must resolve to different objects.
	client := new(MockS3Client)
	presigner := new(MockS3Presigner)

	var seen []string
	client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(*s3.HeadObjectInput)
			seen = append(seen, aws.ToString(in.Key))
		}).
		Return(&s3.HeadObjectOutput{}, nil)
	presigner.On("PresignGetObject", mock.Anything, mock.Anything, mock.Anything).
		Return(&v4.PresignedHTTPRequest{URL: "https://example.com/signed"}, nil)

	resolver := newMockedResolver(t, client, presigner)

	ctx := context.Background()
	first := uuid.New()
	second := uuid.New()

	_, err := resolver.Resolve(ctx, "avatar.png", first)
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, "avatar.png", second)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1])
	assert.True(t, strings.HasPrefix(seen[0], first.String()+"/"))
	assert.True(t, strings.HasPrefix(seen[1], second.String()+"/"))
}
