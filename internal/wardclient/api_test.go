package wardclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeWard mimics the dashboard auth flow: login challenges with an
// email code, verify hands out the tokens.
func fakeWard(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body["deviceId"], "login should always carry the device id")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"requiresEmailCode": true,
			"otpId":             "11111111-1111-1111-1111-111111111111",
			"email":             "m***@example.org",
		})
	})

	mux.HandleFunc("POST /api/login/verify", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["code"] != "123456" {
			http.Error(w, `{"error":"service_error","message":"Invalid code"}`, http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: "refreshtoken", Value: "refresh-1", Path: "/", HttpOnly: true})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "access-1",
			"user":        map[string]string{"username": "moroni", "role": "clerk"},
		})
	})

	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"username": "moroni", "role": "clerk"})
	})

	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refreshtoken")
		require.NoError(t, err, "logout should carry the refresh cookie from the jar")
		require.Equal(t, "refresh-1", cookie.Value)
		w.WriteHeader(http.StatusNoContent)
	})

	return httptest.NewServer(mux)
}

func Test_LoginFlow(t *testing.T) {
	t.Parallel()

	srv := fakeWard(t)
	defer srv.Close()

	c := newTestClient(t, srv)

	// Untrusted device gets a code challenge instead of tokens
	result, err := c.Login(t.Context(), "moroni", "StrongEnoughPassword", true)
	require.NoError(t, err)
	require.True(t, result.RequiresEmailCode)
	require.NotEmpty(t, result.OTPID)
	require.Empty(t, result.AccessToken)

	_, ok := c.Tokens().Get()
	require.False(t, ok, "no token until the code is verified")

	// Wrong code is rejected
	_, err = c.VerifyCode(t.Context(), result.OTPID, "000000", true)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Right code completes the login
	verified, err := c.VerifyCode(t.Context(), result.OTPID, "123456", true)
	require.NoError(t, err)
	require.Equal(t, "access-1", verified.AccessToken)
	require.NotNil(t, verified.User)
	require.Equal(t, "moroni", verified.User.Username)

	token, ok := c.Tokens().Get()
	require.True(t, ok)
	require.Equal(t, "access-1", token)

	// The session works
	me, err := c.Me(t.Context())
	require.NoError(t, err)
	require.NotNil(t, me)
	require.Equal(t, "moroni", me.Username)

	// Logout drops the local token
	require.NoError(t, c.Logout(t.Context()))
	_, ok = c.Tokens().Get()
	require.False(t, ok)
}

func Test_Logout(t *testing.T) {
	t.Parallel()

	t.Run("server failure still ends the local session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.Tokens().Set("access-1")

		err := c.Logout(t.Context())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "the server failure is still reported")
		require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

		_, ok := c.Tokens().Get()
		require.False(t, ok, "logout clears the token no matter what the server says")
	})

	t.Run("unreachable server still ends the local session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nobody listening anymore

		c, err := New(Config{BaseURL: srv.URL})
		require.NoError(t, err)
		c.Tokens().Set("access-1")

		require.Error(t, c.Logout(t.Context()))

		_, ok := c.Tokens().Get()
		require.False(t, ok, "logout clears the token even when the call never lands")
	})
}
