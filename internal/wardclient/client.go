package wardclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/jhansen/wardbook/internal/logger"
)

const defaultTimeout = 30 * time.Second

// Config for the API client. BaseURL is the only required field.
type Config struct {
	BaseURL string

	// HTTPClient to use for requests. When nil a client with a cookie
	// jar and a 30 second timeout is built. A supplied client gets a
	// jar attached if it has none, the refresh cookie lives there.
	HTTPClient *http.Client

	// DeviceStore persists the device id between runs. When nil the id
	// is kept in memory for the lifetime of the client.
	DeviceStore DeviceStore

	Logger logger.Logger
}

// Client talks to the ward dashboard API. It holds the access token,
// refreshes it when the server rejects a request and retries that
// request exactly once.
type Client struct {
	baseURL   string
	httpc     *http.Client
	tokens    *TokenStore
	deviceID  *DeviceID
	refresher *refresher
	logger    logger.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	if httpc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpc.Jar = jar
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	tokens := NewTokenStore()

	return &Client{
		baseURL:  baseURL,
		httpc:    httpc,
		tokens:   tokens,
		deviceID: NewDeviceID(cfg.DeviceStore),
		refresher: &refresher{
			httpc:   httpc,
			baseURL: baseURL,
			tokens:  tokens,
			logger:  log,
		},
		logger: log,
	}, nil
}

// Tokens exposes the access token store
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// DeviceID returns the stable identifier for this installation
func (c *Client) DeviceID() string {
	return c.deviceID.Get()
}

// Do runs an authenticated request. On a 401 it refreshes the access
// token and retries once, a second 401 is returned to the caller. When
// the refresh yields no new token the original 401 comes back instead.
// The body is buffered so the retry can replay it.
func (c *Client) Do(ctx context.Context, method string, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	_, hadToken := c.tokens.Get()

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	// a 401 without a token held is a plain answer, not a stale session
	if resp.StatusCode != http.StatusUnauthorized || !hadToken {
		return resp, nil
	}

	// token is stale, buffer this response before the refresh dance
	origBody, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	token, err := c.refresher.Refresh(ctx)
	if err != nil || token == "" {
		// nothing to retry with, hand back the original answer
		resp.Body = io.NopCloser(bytes.NewReader(origBody))
		return resp, nil
	}

	return c.send(ctx, method, path, payload)
}

func (c *Client) send(ctx context.Context, method string, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.tokens.AuthHeader() {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	return resp, nil
}
