package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// BaseURLResolver maps media keys onto a public base URL without touching the
// object store. Suitable for development setups and buckets fronted by a CDN
// where objects are world-readable.
type BaseURLResolver struct {
	baseURL string
}

// NewBaseURLResolver creates a resolver that joins keys onto baseURL.
func NewBaseURLResolver(baseURL string) (*BaseURLResolver, error) {
	trimmed := strings.TrimSuffix(baseURL, "/")
	if trimmed == "" {
		return nil, ErrBaseURLInvalid
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrBaseURLInvalid, baseURL)
	}

	return &BaseURLResolver{baseURL: trimmed}, nil
}

// Resolve returns the public URL for the owner-scoped media key.
func (r *BaseURLResolver) Resolve(_ context.Context, mediaKey string, ownerID uuid.UUID) (string, error) {
	objectKey, err := buildObjectKey(mediaKey, ownerID)
	if err != nil {
		return "", err
	}

	resolved, err := url.JoinPath(r.baseURL, objectKey)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidMediaKey, mediaKey)
	}

	return resolved, nil
}
