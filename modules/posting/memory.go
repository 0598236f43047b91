package posting

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryPostStore is a mutex-guarded in-memory PostStore for tests and local
// development.
type MemoryPostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*ScheduledPost
}

var _ PostStore = (*MemoryPostStore)(nil)

// NewMemoryPostStore creates an empty in-memory store.
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{posts: make(map[uuid.UUID]*ScheduledPost)}
}

// Create inserts a new scheduled post record.
func (s *MemoryPostStore) Create(_ context.Context, post *ScheduledPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *post
	s.posts[post.ID] = &clone
	return nil
}

// Len reports the number of stored posts.
func (s *MemoryPostStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// GetPost fetches one scheduled post by id.
func (s *MemoryPostStore) GetPost(_ context.Context, postID uuid.UUID) (*ScheduledPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

// MarkPosted records a successful submission on the post record.
func (s *MemoryPostStore) MarkPosted(_ context.Context, postID uuid.UUID, externalID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return ErrPostNotFound
	}

	now := time.Now()
	post.Status = PostStatusPosted
	post.ExternalID = &externalID
	post.ExternalURL = &url
	post.FailureReason = nil
	post.PostedAt = &now
	post.UpdatedAt = now
	return nil
}

// MarkFailed records the latest attempt's failure reason on the post record.
func (s *MemoryPostStore) MarkFailed(_ context.Context, postID uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return ErrPostNotFound
	}

	post.Status = PostStatusFailed
	post.FailureReason = &reason
	post.UpdatedAt = time.Now()
	return nil
}
