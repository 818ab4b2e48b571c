package wardclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func Test_ClientDo(t *testing.T) {
	t.Parallel()

	t.Run("attaches bearer token", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-1")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, "Bearer access-1", gotAuth)
	})

	t.Run("no header without token", func(t *testing.T) {
		var gotAuth string
		var hasAuth bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, hasAuth = r.Header["Authorization"]
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.False(t, hasAuth, "Authorization header should be absent, got %q", gotAuth)
	})

	t.Run("non-401 failures skip the refresh entirely", func(t *testing.T) {
		var apiCalls, refreshCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				refreshCalls.Add(1)
				return
			}
			apiCalls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-1")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode, "server errors are the caller's concern")
		require.Equal(t, int32(1), apiCalls.Load())
		require.Equal(t, int32(0), refreshCalls.Load(), "only a 401 may trigger a refresh")
	})

	t.Run("retries once after refresh", func(t *testing.T) {
		var apiCalls, refreshCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				refreshCalls.Add(1)
				_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2"})
				return
			}

			apiCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, int32(2), apiCalls.Load(), "original request plus exactly one retry")
		require.Equal(t, int32(1), refreshCalls.Load())

		token, ok := c.Tokens().Get()
		require.True(t, ok)
		require.Equal(t, "access-2", token)
	})

	t.Run("second 401 is returned to the caller", func(t *testing.T) {
		var apiCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2"})
				return
			}
			apiCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, int32(2), apiCalls.Load(), "no second retry after a failed retry")
	})

	t.Run("request body is replayed on retry", func(t *testing.T) {
		var bodies []string
		var mu sync.Mutex
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2"})
				return
			}

			var payload struct {
				Name string `json:"name"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			mu.Lock()
			bodies = append(bodies, payload.Name)
			mu.Unlock()

			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		resp, err := c.Do(t.Context(), http.MethodPost, "/api/members", map[string]string{"name": "ammon"})
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, []string{"ammon", "ammon"}, bodies, "retry should carry the same body")
	})
}

func Test_ClientRefresh(t *testing.T) {
	t.Parallel()

	t.Run("concurrent requests share one refresh", func(t *testing.T) {
		const workers = 8

		var refreshCalls atomic.Int32
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				refreshCalls.Add(1)
				<-release
				_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2"})
				return
			}

			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		var wg sync.WaitGroup
		errs := make([]error, workers)
		codes := make([]int, workers)

		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
				errs[i] = err
				if err == nil {
					codes[i] = resp.StatusCode
					resp.Body.Close() // nolint:errcheck
				}
			}()
		}

		// let every worker hit the stale 401 and pile up on the refresh
		time.Sleep(200 * time.Millisecond)
		close(release)
		wg.Wait()

		for i := range workers {
			require.NoError(t, errs[i])
			require.Equal(t, http.StatusOK, codes[i])
		}
		require.Equal(t, int32(1), refreshCalls.Load(), "all workers should share a single refresh call")
	})

	t.Run("rejected refresh ends the session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"service_error","message":"Unauthorized"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		// the original answer comes back, status and body intact
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"error":"service_error","message":"Unauthorized"}`, string(body))

		_, ok := c.Tokens().Get()
		require.False(t, ok, "token should be cleared when the session is gone")
	})

	t.Run("transient refresh failure keeps the token", func(t *testing.T) {
		var apiCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			apiCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("token expired"))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "the original 401 is the caller's answer")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "token expired", string(body))
		require.Equal(t, int32(1), apiCalls.Load(), "no retry without a fresh token")

		token, ok := c.Tokens().Get()
		require.True(t, ok, "token should survive a transient refresh failure")
		require.Equal(t, "access-stale", token)
	})

	t.Run("refresh without a token yields the original answer", func(t *testing.T) {
		var apiCalls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/refresh" {
				// 2xx but nothing issued
				_, _ = w.Write([]byte(`{}`))
				return
			}
			apiCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-stale")

		resp, err := c.Do(t.Context(), http.MethodGet, "/api/members", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, int32(1), apiCalls.Load(), "no retry without a fresh token")

		token, ok := c.Tokens().Get()
		require.True(t, ok, "an empty refresh body must not wipe the held token")
		require.Equal(t, "access-stale", token)
	})

	t.Run("refresh survives caller cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2"})
		}))
		defer srv.Close()

		c := newTestClient(t, srv)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		token, err := c.refresher.Refresh(ctx)
		require.NoError(t, err, "the shared refresh must not die with one caller")
		require.Equal(t, "access-2", token)
	})
}
