package wardclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/jhansen/wardbook/internal/logger"
)

// ErrSessionExpired is returned once the refresh token itself is
// rejected. The caller has to log in again.
var ErrSessionExpired = errors.New("session expired, login required")

// refresher exchanges the refresh cookie for a new access token.
// Concurrent callers share a single in-flight refresh request.
type refresher struct {
	group   singleflight.Group
	httpc   *http.Client
	baseURL string
	tokens  *TokenStore
	logger  logger.Logger
}

// Refresh returns a fresh access token. No matter how many requests
// hit a 401 at once, only one refresh call goes to the server and
// everyone waits on its outcome.
func (r *refresher) Refresh(ctx context.Context) (string, error) {
	token, err, _ := r.group.Do("refresh", func() (any, error) {
		// the shared request must not die with the first caller
		return r.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (r *refresher) refresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/auth/refresh", nil)
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var body struct {
			AccessToken string `json:"accessToken"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("decode refresh response: %w", err)
		}
		if body.AccessToken == "" {
			// server issued nothing, keep whatever we hold
			return "", nil
		}
		r.tokens.Set(body.AccessToken)
		return body.AccessToken, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// the server no longer trusts the session, drop the token
		_, _ = io.Copy(io.Discard, resp.Body)
		r.tokens.Clear()
		r.logger.Info("refresh rejected", "status", resp.StatusCode)
		return "", ErrSessionExpired

	default:
		// transient failure, keep the current token and session
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("refresh failed with status %d", resp.StatusCode)
	}
}
