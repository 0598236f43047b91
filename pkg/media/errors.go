package media

import "errors"

var (
	// Input validation errors
	ErrMediaKeyEmpty   = errors.New("media key is empty")
	ErrOwnerIDNil      = errors.New("owner id is nil")
	ErrInvalidMediaKey = errors.New("invalid media key") // Prevents path traversal into other prefixes

	// S3-specific errors for proper error classification
	ErrMediaNotFound      = errors.New("media object not found")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	// Context and cancellation errors
	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrPresignerNil       = errors.New("presign client is nil") // Custom clients must bring their own presigner
	ErrBaseURLInvalid     = errors.New("base URL is invalid")
)
