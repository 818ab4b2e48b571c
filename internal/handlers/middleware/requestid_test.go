package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	middleware := RequestIDMiddleware()
	srv := httptest.NewServer(middleware(h))
	defer srv.Close()

	t.Run("generates id when header missing", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		echoed := resp.Header.Get(RequestIDHeader)
		require.NotEmpty(t, echoed, "response should carry the request id")
		require.Equal(t, echoed, seen, "handler should see the same id")

		_, err = uuid.Parse(echoed)
		require.NoError(t, err, "generated id should be a uuid")
	})

	t.Run("keeps inbound id", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/test", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "id-from-the-dashboard")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, "id-from-the-dashboard", resp.Header.Get(RequestIDHeader))
		require.Equal(t, "id-from-the-dashboard", seen)
	})
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	require.Equal(t, "", RequestIDFromContext(t.Context()))
}
