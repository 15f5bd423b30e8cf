package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxErrorBody = 512

type Options struct {
	// Timeout bounds a single attempt, retries get a fresh one.
	Timeout    time.Duration
	MaxRetries int
	// Transport defaults to http.DefaultTransport, always wrapped with otelhttp.
	Transport http.RoundTripper
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

type baseClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
}

func newBaseClient(baseURL string, opts Options) (baseClient, error) {
	var c baseClient

	if baseURL == "" {
		return c, errors.New("baseURL is empty")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return c, fmt.Errorf("url.Parse[%s]: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return c, fmt.Errorf("baseURL[%s] must be absolute", baseURL)
	}

	if opts.MaxRetries < 0 {
		return c, fmt.Errorf("maxRetries[%d] must not be negative", opts.MaxRetries)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return baseClient{
		baseURL:    parsed,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(transport)},
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
	}, nil
}

// doJSON sends reqBody as JSON and decodes a 2xx response into respBody.
// Transport errors and 5xx responses are retried with exponential backoff,
// 4xx responses are returned at once as *StatusError.
func (c baseClient) doJSON(ctx context.Context, method, path, token string, reqBody, respBody any) error {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
	}

	target := c.baseURL.JoinPath(path).String()

	operation := func() error {
		return c.attempt(ctx, method, target, token, payload, respBody)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)

	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "retrying request",
			"method", method, "url", target, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return err
	}

	return nil
}

func (c baseClient) attempt(ctx context.Context, method, target, token string, payload []byte, respBody any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		statusErr := &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(raw)),
		}
		if resp.StatusCode >= 500 {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if respBody == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return backoff.Permanent(fmt.Errorf("json.Decode: %w", err))
	}

	return nil
}

func newExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}
