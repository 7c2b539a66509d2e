// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package httpclient implements the single request pipeline every service shares.

It is the client-side counterpart of an API gateway: one configured pipeline
that attaches the bearer token to every outgoing request, carries cookies, and
intercepts 401 responses to trigger the session-expiry flow.

Architecture:

  - TokenSource: Injected read-only view of the current session token.
  - Unauthorized hook: Fired on every 401 before the error is returned, so the
    session store clears itself while the caller's error handling still runs.
  - Normalization: Every non-2xx response becomes an [apperr.AppError].

No service builds its own http.Request; they all go through [Client].
*/
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/coursescope/coursescope/internal/platform/apperr"
)

// maxErrorBody bounds how much of an error response is read for normalization.
const maxErrorBody = 64 << 10

// TokenSource supplies the current bearer token. An empty string means
// unauthenticated; no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Client is the shared HTTP pipeline for the remote course-review API.
//
// # Concurrency
//
// Safe for concurrent use; all state is immutable after construction.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *slog.Logger
}

// New constructs a [Client] rooted at baseURL.
//
// # Parameters
//   - baseURL: Root of the remote API, e.g. "http://localhost:8080/api".
//   - timeout: Upper bound for a full round-trip.
//   - tokens: Source of the current bearer token (may return "").
//   - onUnauthorized: Invoked once per observed 401 response; may be nil.
//   - log: Structured logger; must not be nil.
func New(baseURL string, timeout time.Duration, tokens TokenSource, onUnauthorized func(), log *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpclient: invalid base URL %q: %w", baseURL, err)
	}

	// Cookie jar mirrors the browser's withCredentials behavior.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: cannot create cookie jar: %w", err)
	}

	return &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		log:            log,
	}, nil
}

// # Request Methods

// Get issues a GET request. query may be nil.
func (client *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return client.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body. body may be nil.
func (client *Client) Post(ctx context.Context, path string, body, out any) error {
	return client.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (client *Client) Put(ctx context.Context, path string, body, out any) error {
	return client.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (client *Client) Patch(ctx context.Context, path string, body, out any) error {
	return client.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request.
func (client *Client) Delete(ctx context.Context, path string) error {
	return client.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// # Pipeline

// do executes one request through the full pipeline: URL construction, body
// encoding, credential attachment, dispatch, interception, decoding.
func (client *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := client.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: cannot encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("httpclient: cannot build request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// Attach the bearer token when present; make sure no stale credential
	// header survives when the session is gone.
	if token := client.tokens.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	} else {
		request.Header.Del("Authorization")
	}

	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		// No response at all: connectivity problem, DNS failure, timeout.
		client.log.Debug("request_transport_error",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return apperr.Network(err)
	}
	defer func() { _ = response.Body.Close() }()

	client.log.Debug("request_completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if response.StatusCode == http.StatusUnauthorized {
		// Expiry interception: clear the session globally, then still return
		// the error so the caller's own handler runs (defense in depth).
		if client.onUnauthorized != nil {
			client.onUnauthorized()
		}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return apperr.FromResponse(response.StatusCode, raw)
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("httpclient: cannot decode response body: %w", err)
	}
	return nil
}
