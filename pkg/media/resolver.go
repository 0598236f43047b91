package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// S3Client defines the subset of S3 operations the resolver needs.
// This interface allows for easy mocking in tests.
type S3Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Presigner issues presigned HTTP requests for S3 objects.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Resolver turns owner-scoped media keys into short-lived presigned GET URLs.
type S3Resolver struct {
	client         S3Client
	presigner      S3Presigner
	bucket         string
	urlTTL         time.Duration
	resolveTimeout time.Duration
}

// S3Config contains S3 resolver configuration.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string
	ForcePathStyle bool
	URLTTL         time.Duration
}

// S3Option configures the S3 resolver.
type S3Option func(*s3Options)

// s3Options contains additional configuration options.
type s3Options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3Presigner     S3Presigner
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
	resolveTimeout  time.Duration
}

// WithS3Client sets a custom pre-configured S3 client.
// Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.s3Client = client
	}
}

// WithS3Presigner sets a custom presign client. Required when WithS3Client
// supplies a mock, since a presigner cannot be derived from an interface.
func WithS3Presigner(presigner S3Presigner) S3Option {
	return func(o *s3Options) {
		o.s3Presigner = presigner
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithResolveTimeout bounds a single Resolve call. Without it, the caller's
// context deadline applies. Workers that degrade to text on failure should set
// this so a slow object store cannot hold a job slot indefinitely.
func WithResolveTimeout(timeout time.Duration) S3Option {
	return func(o *s3Options) {
		o.resolveTimeout = timeout
	}
}

// NewS3Resolver creates a new S3-backed media resolver.
func NewS3Resolver(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Resolver, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	var client S3Client
	var presigner S3Presigner
	if options.s3Client != nil {
		client = options.s3Client
		presigner = options.s3Presigner
		if presigner == nil {
			realClient, ok := client.(*s3.Client)
			if !ok {
				return nil, ErrPresignerNil
			}
			presigner = s3.NewPresignClient(realClient)
		}
	} else {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}

		awsOptions = append(awsOptions, options.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
		}

		realClient := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range options.s3ClientOptions {
				opt(o)
			}
		})
		client = realClient
		presigner = s3.NewPresignClient(realClient)
	}

	urlTTL := cfg.URLTTL
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}

	return &S3Resolver{
		client:         client,
		presigner:      presigner,
		bucket:         cfg.Bucket,
		urlTTL:         urlTTL,
		resolveTimeout: options.resolveTimeout,
	}, nil
}

// Resolve verifies the object exists and returns a presigned GET URL for it.
// Keys are namespaced under the owner's prefix, so one account cannot
// reference another account's uploads.
func (r *S3Resolver) Resolve(ctx context.Context, mediaKey string, ownerID uuid.UUID) (string, error) {
	objectKey, err := buildObjectKey(mediaKey, ownerID)
	if err != nil {
		return "", err
	}

	if r.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.resolveTimeout)
		defer cancel()
	}

	_, err = r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return "", classifyS3Error(err, "check media")
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(r.urlTTL))
	if err != nil {
		return "", classifyS3Error(err, "presign media")
	}

	return req.URL, nil
}

// buildObjectKey validates the key and prefixes it with the owner id.
func buildObjectKey(mediaKey string, ownerID uuid.UUID) (string, error) {
	if mediaKey == "" {
		return "", ErrMediaKeyEmpty
	}
	if ownerID == uuid.Nil {
		return "", ErrOwnerIDNil
	}

	key := strings.TrimPrefix(mediaKey, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidMediaKey, mediaKey)
	}

	return ownerID.String() + "/" + key, nil
}

// classifyS3Error converts S3 errors to domain-specific errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s operation", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s operation", ErrOperationCanceled, operation)
	}

	// HeadObject reports a missing object as NotFound, GetObject as NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", ErrMediaNotFound, err)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrMediaNotFound, err)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	// Check for generic API errors
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "RequestTimeout":
			return fmt.Errorf("%w: %s operation", ErrRequestTimeout, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		case "NotFound", "NoSuchKey":
			return fmt.Errorf("%w: %s", ErrMediaNotFound, err)
		case "NoSuchBucket":
			return ErrBucketNotFound
		default:
			// Include error code in message for debugging
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}
