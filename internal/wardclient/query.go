package wardclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

type queryOptions struct {
	nilOn401 bool
}

type QueryOption func(*queryOptions)

// NilOn401 makes Get and PostJSON treat an unauthorized response as
// an absent value instead of an error. Useful for "who am I" style
// lookups where being logged out is a normal answer.
func NilOn401() QueryOption {
	return func(o *queryOptions) {
		o.nilOn401 = true
	}
}

// Get fetches path and decodes the JSON response into T.
// A 204 or empty body yields nil without error.
func Get[T any](ctx context.Context, c *Client, path string, opts ...QueryOption) (*T, error) {
	return decodeQuery[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// PostJSON sends body as JSON and decodes the response into T
func PostJSON[T any](ctx context.Context, c *Client, path string, body any, opts ...QueryOption) (*T, error) {
	return decodeQuery[T](ctx, c, http.MethodPost, path, body, opts...)
}

func decodeQuery[T any](ctx context.Context, c *Client, method string, path string, body any, opts ...QueryOption) (*T, error) {
	var options queryOptions
	for _, opt := range opts {
		opt(&options)
	}

	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode == http.StatusUnauthorized && options.nilOn401 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil, nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &value, nil
}
