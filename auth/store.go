package auth

import (
	"context"
	"sync"
)

// DefaultTokenKey is the key a token is stored under when none is configured.
const DefaultTokenKey = "Bearer"

// TokenStore looks up credentials by key.
//
// Lookup reports ok=false with a nil error when the key has no value.
// A non-nil error means the backend itself failed.
type TokenStore interface {
	Lookup(ctx context.Context, key string) (token string, ok bool, err error)
}

// TokenStoreFunc adapts a plain function to TokenStore.
type TokenStoreFunc func(ctx context.Context, key string) (string, bool, error)

func (f TokenStoreFunc) Lookup(ctx context.Context, key string) (string, bool, error) {
	return f(ctx, key)
}

// Authorization formats the value of an Authorization header.
func Authorization(scheme, token string) string {
	return scheme + " " + token
}

// MemoryStore is an in-process TokenStore, safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore creates a MemoryStore seeded with tokens.
func NewMemoryStore(tokens map[string]string) *MemoryStore {
	s := &MemoryStore{tokens: make(map[string]string, len(tokens))}
	for k, v := range tokens {
		s.tokens[k] = v
	}
	return s
}

func (s *MemoryStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[key]
	if token == "" {
		ok = false
	}
	return token, ok, nil
}

func (s *MemoryStore) Set(key, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
}
