package wardclient

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_TokenStore(t *testing.T) {
	t.Parallel()

	t.Run("empty store yields empty header", func(t *testing.T) {
		s := NewTokenStore()

		_, ok := s.Get()
		require.False(t, ok)

		h := s.AuthHeader()
		require.Empty(t, h.Get("Authorization"), "no Authorization header without a token")
		require.Equal(t, 0, len(h))
	})

	t.Run("set and get", func(t *testing.T) {
		s := NewTokenStore()
		s.Set("token-abc")

		token, ok := s.Get()
		require.True(t, ok)
		require.Equal(t, "token-abc", token)
		require.Equal(t, "Bearer token-abc", s.AuthHeader().Get("Authorization"))
	})

	t.Run("clear removes token", func(t *testing.T) {
		s := NewTokenStore()
		s.Set("token-abc")
		s.Clear()

		_, ok := s.Get()
		require.False(t, ok)
		require.Empty(t, s.AuthHeader().Get("Authorization"))
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		s := NewTokenStore()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				s.Set("token")
			}()
			go func() {
				defer wg.Done()
				_ = s.AuthHeader()
			}()
		}
		wg.Wait()

		token, ok := s.Get()
		require.True(t, ok)
		require.Equal(t, "token", token)
	})
}
