package wardclient

import (
	"net/http"
	"sync"
)

// TokenStore holds the short lived access token in memory.
// It is safe for concurrent use by every request the client runs.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *TokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// AuthHeader returns the Authorization header for the stored token,
// or an empty header when no token is held
func (s *TokenStore) AuthHeader() http.Header {
	h := http.Header{}
	if token, ok := s.Get(); ok {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
